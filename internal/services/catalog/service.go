// Package catalog serves venues, coaches, products, news and bookings. Reads
// prefer the copy held in the store and fall back to the bundled document.
package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/sporthub/internal/bundle"
	"github.com/mcoot/sporthub/internal/dependencies/clock"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

// DefaultLatestNews is the number of items LatestNews returns for a
// non-positive limit
const DefaultLatestNews = 6

// Service provides catalog and booking data
type Service struct {
	store  storage.Store
	source bundle.Source
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	doc       *model.Document
	attempted bool
	loaded    bool

	// serializes read-modify-write cycles on list keys within this process
	writeMu sync.Mutex
}

// New creates a new catalog Service
func New(store storage.Store, source bundle.Source, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		source: source,
		clock:  clock,
		logger: logger,
		doc:    model.EmptyDocument(),
	}
}

// Load fetches the bundled document. A failed fetch leaves the empty document
// in place; calling Load again retries it. A successful fetch is kept for the
// lifetime of the service.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.fetchLocked(ctx)
	}
}

// Loaded reports whether the bundled document has been fetched successfully
func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// document returns the bundled document, fetching it on first use only
func (s *Service) document(ctx context.Context) *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attempted {
		s.fetchLocked(ctx)
	}
	return s.doc
}

func (s *Service) fetchLocked(ctx context.Context) {
	s.attempted = true

	doc, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Warn("failed to load bundled data, using empty catalog", slog.Any("error", err))
		return
	}

	s.doc = doc
	s.loaded = true
	s.logger.Debug("bundled data loaded",
		slog.Int("venues", len(doc.PopularVenues)),
		slog.Int("coaches", len(doc.FeaturedCoaches)),
		slog.Int("products", len(doc.FeaturedProducts)),
	)
}

// readList returns the list stored under key, else a copy of fallback. An
// unreadable stored value is logged and treated as absent.
func readList[T any](ctx context.Context, s *Service, key string, fallback []T) []T {
	var items []T
	found, err := storage.GetJSON(ctx, s.store, key, &items)
	if err != nil {
		s.logger.Warn("ignoring unreadable stored list",
			slog.String("key", key),
			slog.Any("error", err),
		)
		found = false
	}
	if found && items != nil {
		return items
	}
	if fallback == nil {
		return []T{}
	}
	return slices.Clone(fallback)
}

func findBy[T any](items []T, match func(T) bool) (*T, bool) {
	idx := slices.IndexFunc(items, match)
	if idx < 0 {
		return nil, false
	}
	item := items[idx]
	return &item, true
}

func filterBy[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// News returns every news item
func (s *Service) News(ctx context.Context) []model.NewsItem {
	return readList(ctx, s, storage.KeyNewsItems, s.document(ctx).NewsItems)
}

// Venues returns every venue
func (s *Service) Venues(ctx context.Context) []model.Venue {
	return readList(ctx, s, storage.KeyVenues, s.document(ctx).PopularVenues)
}

// Coaches returns every coach
func (s *Service) Coaches(ctx context.Context) []model.Coach {
	return readList(ctx, s, storage.KeyCoaches, s.document(ctx).FeaturedCoaches)
}

// Products returns every product
func (s *Service) Products(ctx context.Context) []model.Product {
	return readList(ctx, s, storage.KeyProducts, s.document(ctx).FeaturedProducts)
}

// Categories returns every category
func (s *Service) Categories(ctx context.Context) []model.Category {
	return readList(ctx, s, storage.KeyCategories, s.document(ctx).Categories)
}

// Users returns every account with passwords stripped. A non-empty stored
// account list wins over the bundled sample users.
func (s *Service) Users(ctx context.Context) []model.User {
	users := readList(ctx, s, storage.KeyUsers, []model.User(nil))
	if len(users) == 0 {
		users = slices.Clone(s.document(ctx).SampleUsers)
	}
	out := make([]model.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out
}

// NewsByID returns the news item with the given id
func (s *Service) NewsByID(ctx context.Context, id int) (*model.NewsItem, error) {
	item, ok := findBy(s.News(ctx), func(n model.NewsItem) bool { return n.ID == id })
	if !ok {
		return nil, model.ErrNewsNotFound
	}
	return item, nil
}

// LatestNews returns up to limit news items, newest first
func (s *Service) LatestNews(ctx context.Context, limit int) []model.NewsItem {
	if limit <= 0 {
		limit = DefaultLatestNews
	}
	news := s.News(ctx)
	slices.SortStableFunc(news, func(a, b model.NewsItem) int {
		return cmp.Compare(b.Date, a.Date)
	})
	if len(news) > limit {
		news = news[:limit]
	}
	return news
}

// VenueByID returns the venue with the given id
func (s *Service) VenueByID(ctx context.Context, id int) (*model.Venue, error) {
	venue, ok := findBy(s.Venues(ctx), func(v model.Venue) bool { return v.ID == id })
	if !ok {
		return nil, model.ErrVenueNotFound
	}
	return venue, nil
}

// VenuesByType returns venues whose type contains venueType, ignoring case
func (s *Service) VenuesByType(ctx context.Context, venueType string) []model.Venue {
	return filterBy(s.Venues(ctx), func(v model.Venue) bool {
		return containsFold(v.Type, venueType)
	})
}

// CoachByID returns the coach with the given id
func (s *Service) CoachByID(ctx context.Context, id int) (*model.Coach, error) {
	coach, ok := findBy(s.Coaches(ctx), func(c model.Coach) bool { return c.ID == id })
	if !ok {
		return nil, model.ErrCoachNotFound
	}
	return coach, nil
}

// CoachesBySport returns coaches of exactly the given sport, ignoring case
func (s *Service) CoachesBySport(ctx context.Context, sport string) []model.Coach {
	return filterBy(s.Coaches(ctx), func(c model.Coach) bool {
		return strings.EqualFold(c.Sport, sport)
	})
}

// ProductByID returns the product with the given id
func (s *Service) ProductByID(ctx context.Context, id int) (*model.Product, error) {
	product, ok := findBy(s.Products(ctx), func(p model.Product) bool { return p.ID == id })
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// ProductsByCategory returns products in exactly the given category, ignoring
// case
func (s *Service) ProductsByCategory(ctx context.Context, category string) []model.Product {
	return filterBy(s.Products(ctx), func(p model.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// UserByID returns the account with the given id, password stripped
func (s *Service) UserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	user, ok := findBy(s.Users(ctx), func(u model.User) bool { return u.ID == id })
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UserByEmail returns the account with the given email, ignoring case
func (s *Service) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := findBy(s.Users(ctx), func(u model.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}
