package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/sporthub/internal/model"
)

// MinSearchLength is the shortest trimmed query SearchAll will run
const MinSearchLength = 2

// SearchAll matches query as a case-insensitive substring against venues,
// coaches, products and news. Queries shorter than MinSearchLength return
// empty results.
func (s *Service) SearchAll(ctx context.Context, query string) (model.SearchResults, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return model.EmptySearchResults(), nil
	}

	results := model.EmptySearchResults()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		results.Venues = filterBy(s.Venues(gctx), func(v model.Venue) bool {
			return anyContains(query, v.Name, v.Type, v.Location)
		})
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		results.Coaches = filterBy(s.Coaches(gctx), func(c model.Coach) bool {
			return anyContains(query, c.Name, c.Sport, c.Specialization)
		})
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		results.Products = filterBy(s.Products(gctx), func(p model.Product) bool {
			return anyContains(query, p.Name, p.Category, p.Brand)
		})
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		results.News = filterBy(s.News(gctx), func(n model.NewsItem) bool {
			return anyContains(query, n.Title, n.Summary)
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.EmptySearchResults(), err
	}
	return results, nil
}

func anyContains(query string, fields ...string) bool {
	for _, f := range fields {
		if containsFold(f, query) {
			return true
		}
	}
	return false
}
