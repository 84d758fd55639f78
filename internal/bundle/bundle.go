// Package bundle loads the sample-data document shipped with the application
// and normalizes the shapes older pages used into one schema.
package bundle

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mcoot/sporthub/internal/model"
)

//go:embed data/data.json
var embedded []byte

// ErrUnknownShape is returned when a document matches no accepted shape
var ErrUnknownShape = errors.New("unrecognized document shape")

// maxDocumentSize bounds how much of a remote document is read
const maxDocumentSize = 8 << 20

// Source fetches the raw bundled document
type Source interface {
	Fetch(ctx context.Context) (*model.Document, error)
}

// EmbeddedSource serves the document compiled into the binary
type EmbeddedSource struct{}

// Embedded returns the built-in document source
func Embedded() EmbeddedSource {
	return EmbeddedSource{}
}

func (EmbeddedSource) Fetch(ctx context.Context) (*model.Document, error) {
	return Decode(embedded)
}

// FileSource reads the document from disk
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (*model.Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// URLSource fetches the document over HTTP
type URLSource struct {
	URL    string
	Client *http.Client
}

func (s URLSource) Fetch(ctx context.Context) (*model.Document, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load data: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// NewSource picks a source for a location: empty means the embedded
// document, http(s) URLs are fetched, anything else is a file path
func NewSource(location string) Source {
	switch {
	case location == "":
		return Embedded()
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return URLSource{URL: location}
	default:
		return FileSource{Path: location}
	}
}

// legacyGrounds is the shape the venue-management page saved
type legacyGrounds struct {
	Grounds []model.Venue `json:"grounds"`
}

// Decode parses a document in any accepted shape into the canonical one:
//   - the canonical object with newsItems, popularVenues, ...
//   - an object wrapping venues as {"grounds": [...]}
//   - a bare list of venues
//
// Missing collections come back as empty lists, never nil.
func Decode(data []byte) (*model.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnknownShape
	}

	doc := model.EmptyDocument()

	switch trimmed[0] {
	case '[':
		var venues []model.Venue
		if err := json.Unmarshal(trimmed, &venues); err != nil {
			return nil, fmt.Errorf("decode venue list: %w", err)
		}
		doc.PopularVenues = venues
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		if _, ok := fields["grounds"]; ok {
			if _, canonical := fields["popularVenues"]; !canonical {
				var legacy legacyGrounds
				if err := json.Unmarshal(trimmed, &legacy); err != nil {
					return nil, fmt.Errorf("decode grounds: %w", err)
				}
				doc.PopularVenues = legacy.Grounds
				break
			}
		}
		if err := json.Unmarshal(trimmed, doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	default:
		return nil, ErrUnknownShape
	}

	normalize(doc)
	return doc, nil
}

// DecodeVenues parses a stored venue list that may be a bare list or wrapped
// as {"grounds": [...]}
func DecodeVenues(data []byte) ([]model.Venue, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return doc.PopularVenues, nil
}

func normalize(doc *model.Document) {
	if doc.NewsItems == nil {
		doc.NewsItems = []model.NewsItem{}
	}
	if doc.PopularVenues == nil {
		doc.PopularVenues = []model.Venue{}
	}
	if doc.FeaturedCoaches == nil {
		doc.FeaturedCoaches = []model.Coach{}
	}
	if doc.FeaturedProducts == nil {
		doc.FeaturedProducts = []model.Product{}
	}
	if doc.Categories == nil {
		doc.Categories = []model.Category{}
	}
	if doc.SampleUsers == nil {
		doc.SampleUsers = []model.User{}
	}
	if doc.GroundBookings == nil {
		doc.GroundBookings = []model.GroundBooking{}
	}
	if doc.CoachBookings == nil {
		doc.CoachBookings = []model.CoachBooking{}
	}
}
