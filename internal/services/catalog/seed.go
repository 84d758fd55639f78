package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/sporthub/internal/bundle"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

// Seed copies catalog and booking lists from the bundled document into the
// store. Keys that already exist are left alone, and account data is never
// touched. A legacy venue list is folded into the venue catalog afterwards.
// It returns the keys it wrote. Nothing is written while the bundled document
// is unavailable, so a later successful load can still seed the catalog.
func (s *Service) Seed(ctx context.Context) ([]string, error) {
	doc := s.document(ctx)
	if !s.Loaded() {
		s.logger.Warn("bundled data unavailable, skipping seed")
		return nil, nil
	}

	seeds := []struct {
		key   string
		value any
	}{
		{storage.KeyVenues, doc.PopularVenues},
		{storage.KeyCoaches, doc.FeaturedCoaches},
		{storage.KeyProducts, doc.FeaturedProducts},
		{storage.KeyGroundBookings, doc.GroundBookings},
		{storage.KeyCoachBookings, doc.CoachBookings},
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var seeded []string
	var errs []error
	for _, seed := range seeds {
		exists, err := storage.Exists(ctx, s.store, seed.key)
		if err != nil {
			errs = append(errs, fmt.Errorf("check %q: %w", seed.key, err))
			continue
		}
		if exists {
			continue
		}
		if err := storage.SetJSON(ctx, s.store, seed.key, seed.value); err != nil {
			errs = append(errs, fmt.Errorf("seed %q: %w", seed.key, err))
			continue
		}
		seeded = append(seeded, seed.key)
	}

	migrated, err := s.migrateLegacyVenues(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	if migrated && !slices.Contains(seeded, storage.KeyVenues) {
		seeded = append(seeded, storage.KeyVenues)
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("catalog seed incomplete", slog.Any("error", err))
		return seeded, err
	}
	if len(seeded) > 0 {
		s.logger.Info("catalog seeded", slog.Any("keys", seeded))
	}
	return seeded, nil
}

// migrateLegacyVenues merges the old admin-managed venue list into the venue
// catalog by id, keeping existing entries, then removes the old key
func (s *Service) migrateLegacyVenues(ctx context.Context) (bool, error) {
	raw, err := s.store.Get(ctx, storage.KeyLegacySportsGrounds)
	if err != nil {
		if errors.Is(err, model.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read legacy venues: %w", err)
	}

	legacy, err := bundle.DecodeVenues([]byte(raw))
	if err != nil {
		s.logger.Warn("dropping unreadable legacy venue list", slog.Any("error", err))
		legacy = nil
	}

	venues := s.Venues(ctx)
	added := 0
	for _, v := range legacy {
		if slices.ContainsFunc(venues, func(e model.Venue) bool { return e.ID == v.ID }) {
			continue
		}
		venues = append(venues, v)
		added++
	}

	if added > 0 {
		if err := storage.SetJSON(ctx, s.store, storage.KeyVenues, venues); err != nil {
			return false, fmt.Errorf("save migrated venues: %w", err)
		}
	}
	if err := s.store.Remove(ctx, storage.KeyLegacySportsGrounds); err != nil {
		return added > 0, fmt.Errorf("remove legacy venues: %w", err)
	}

	s.logger.Info("migrated legacy venue list", slog.Int("added", added))
	return added > 0, nil
}
