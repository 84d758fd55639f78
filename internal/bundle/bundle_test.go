package bundle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCanonicalDocument(t *testing.T) {
	doc, err := Decode([]byte(`{
		"popularVenues": [{"id": 1, "name": "Tennis Center"}],
		"featuredCoaches": [{"id": 2, "name": "Sarah"}]
	}`))
	require.NoError(t, err)

	require.Len(t, doc.PopularVenues, 1)
	assert.Equal(t, "Tennis Center", doc.PopularVenues[0].Name)
	require.Len(t, doc.FeaturedCoaches, 1)
	assert.NotNil(t, doc.NewsItems)
	assert.NotNil(t, doc.GroundBookings)
	assert.Empty(t, doc.SampleUsers)
}

func TestDecodeGroundsWrapper(t *testing.T) {
	doc, err := Decode([]byte(`{"lastUpdated": "x", "totalGrounds": 1, "grounds": [{"id": 9, "name": "Arena"}]}`))
	require.NoError(t, err)

	require.Len(t, doc.PopularVenues, 1)
	assert.Equal(t, 9, doc.PopularVenues[0].ID)
	assert.NotNil(t, doc.FeaturedProducts)
}

func TestDecodeBareVenueList(t *testing.T) {
	doc, err := Decode([]byte(` [{"id": 3, "name": "Court"}, {"id": 4, "name": "Pitch"}]`))
	require.NoError(t, err)

	assert.Len(t, doc.PopularVenues, 2)
}

func TestDecodeNullCollectionsBecomeEmpty(t *testing.T) {
	doc, err := Decode([]byte(`{"newsItems": null, "categories": null}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.NewsItems)
	assert.NotNil(t, doc.Categories)
}

func TestDecodeRejectsUnknownShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"whitespace", `   `},
		{"scalar", `42`},
		{"string", `"venues"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.ErrorIs(t, err, ErrUnknownShape)
		})
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"popularVenues": [`))
	assert.Error(t, err)
}

func TestDecodeVenues(t *testing.T) {
	wrapped, err := DecodeVenues([]byte(`{"grounds": [{"id": 1}]}`))
	require.NoError(t, err)
	assert.Len(t, wrapped, 1)

	bare, err := DecodeVenues([]byte(`[{"id": 1}, {"id": 2}]`))
	require.NoError(t, err)
	assert.Len(t, bare, 2)
}

func TestEmbeddedDocumentLoads(t *testing.T) {
	doc, err := Embedded().Fetch(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, doc.PopularVenues)
	assert.NotEmpty(t, doc.FeaturedCoaches)
	assert.NotEmpty(t, doc.FeaturedProducts)
	assert.NotEmpty(t, doc.NewsItems)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"grounds": [{"id": 5}]}`), 0o600))

	doc, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, doc.PopularVenues[0].ID)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestURLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"featuredProducts": [{"id": 1, "name": "Racket"}]}`))
	}))
	defer srv.Close()

	doc, err := URLSource{URL: srv.URL}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Racket", doc.FeaturedProducts[0].Name)
}

func TestURLSourceNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := URLSource{URL: srv.URL}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, EmbeddedSource{}, NewSource(""))
	assert.IsType(t, URLSource{}, NewSource("https://example.com/data.json"))
	assert.IsType(t, FileSource{}, NewSource("data/data.json"))
}
