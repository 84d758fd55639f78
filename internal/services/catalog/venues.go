package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

// AddVenue appends a venue to the catalog. A zero id is replaced with the next
// free one.
func (s *Service) AddVenue(ctx context.Context, venue model.Venue) (*model.Venue, error) {
	if strings.TrimSpace(venue.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalidVenue)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	venues := s.Venues(ctx)
	if venue.ID == 0 {
		venue.ID = nextVenueID(venues)
	} else if slices.ContainsFunc(venues, func(v model.Venue) bool { return v.ID == venue.ID }) {
		return nil, model.ErrVenueExists
	}

	venues = append(venues, venue)
	if err := s.saveVenues(ctx, venues); err != nil {
		return nil, err
	}

	s.logger.Info("venue added", slog.Int("venue_id", venue.ID))
	return &venue, nil
}

// UpdateVenue replaces the venue with the same id
func (s *Service) UpdateVenue(ctx context.Context, venue model.Venue) error {
	if strings.TrimSpace(venue.Name) == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalidVenue)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	venues := s.Venues(ctx)
	idx := slices.IndexFunc(venues, func(v model.Venue) bool { return v.ID == venue.ID })
	if idx < 0 {
		return model.ErrVenueNotFound
	}
	venues[idx] = venue

	if err := s.saveVenues(ctx, venues); err != nil {
		return err
	}
	s.logger.Info("venue updated", slog.Int("venue_id", venue.ID))
	return nil
}

// DeleteVenue removes the venue with the given id
func (s *Service) DeleteVenue(ctx context.Context, id int) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	venues := s.Venues(ctx)
	idx := slices.IndexFunc(venues, func(v model.Venue) bool { return v.ID == id })
	if idx < 0 {
		return model.ErrVenueNotFound
	}
	venues = slices.Delete(venues, idx, idx+1)

	if err := s.saveVenues(ctx, venues); err != nil {
		return err
	}
	s.logger.Info("venue deleted", slog.Int("venue_id", id))
	return nil
}

func (s *Service) saveVenues(ctx context.Context, venues []model.Venue) error {
	if err := storage.SetJSON(ctx, s.store, storage.KeyVenues, venues); err != nil {
		s.logger.Error("failed to save venues", slog.Any("error", err))
		return fmt.Errorf("save venues: %w", err)
	}
	return nil
}

func nextVenueID(venues []model.Venue) int {
	next := 1
	for _, v := range venues {
		if v.ID >= next {
			next = v.ID + 1
		}
	}
	return next
}
