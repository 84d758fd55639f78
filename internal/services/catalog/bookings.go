package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/sporthub/internal/dependencies/clock"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

// GroundBookingRequest holds the caller-supplied fields of a venue booking
type GroundBookingRequest struct {
	GroundID    int
	UserID      int64
	Date        string
	TimeSlot    string
	Duration    int
	TotalAmount float64
}

// CoachBookingRequest holds the caller-supplied fields of a coaching booking
type CoachBookingRequest struct {
	CoachID    int
	UserID     int64
	Date       string
	Time       string
	Venue      string
	HourlyRate float64
}

// GroundBookings returns every venue booking
func (s *Service) GroundBookings(ctx context.Context) []model.GroundBooking {
	return readList(ctx, s, storage.KeyGroundBookings, s.document(ctx).GroundBookings)
}

// CoachBookings returns every coaching booking
func (s *Service) CoachBookings(ctx context.Context) []model.CoachBooking {
	return readList(ctx, s, storage.KeyCoachBookings, s.document(ctx).CoachBookings)
}

// CreateGroundBooking appends a pending venue booking. Overlapping bookings
// for the same slot are accepted.
func (s *Service) CreateGroundBooking(ctx context.Context, req GroundBookingRequest) (*model.GroundBooking, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	bookings := s.GroundBookings(ctx)
	booking := model.GroundBooking{
		ID:            s.nextBookingID(groundBookingIDs(bookings)),
		GroundID:      req.GroundID,
		UserID:        req.UserID,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		Duration:      req.Duration,
		TotalAmount:   req.TotalAmount,
		BookingDate:   clock.Today(s.clock),
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}

	bookings = append(bookings, booking)
	if err := storage.SetJSON(ctx, s.store, storage.KeyGroundBookings, bookings); err != nil {
		s.logger.Error("failed to save ground booking", slog.Any("error", err))
		return nil, fmt.Errorf("save ground booking: %w", err)
	}

	s.logger.Info("ground booking created",
		slog.Int64("booking_id", booking.ID),
		slog.Int("ground_id", booking.GroundID),
		slog.Int64("user_id", booking.UserID),
	)
	return &booking, nil
}

// CreateCoachBooking appends a pending coaching booking
func (s *Service) CreateCoachBooking(ctx context.Context, req CoachBookingRequest) (*model.CoachBooking, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	bookings := s.CoachBookings(ctx)
	booking := model.CoachBooking{
		ID:            s.nextBookingID(coachBookingIDs(bookings)),
		CoachID:       req.CoachID,
		UserID:        req.UserID,
		Date:          req.Date,
		Time:          req.Time,
		Venue:         req.Venue,
		HourlyRate:    req.HourlyRate,
		BookingDate:   clock.Today(s.clock),
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}

	bookings = append(bookings, booking)
	if err := storage.SetJSON(ctx, s.store, storage.KeyCoachBookings, bookings); err != nil {
		s.logger.Error("failed to save coach booking", slog.Any("error", err))
		return nil, fmt.Errorf("save coach booking: %w", err)
	}

	s.logger.Info("coach booking created",
		slog.Int64("booking_id", booking.ID),
		slog.Int("coach_id", booking.CoachID),
		slog.Int64("user_id", booking.UserID),
	)
	return &booking, nil
}

// UserBookings returns both booking lists filtered to one user
func (s *Service) UserBookings(ctx context.Context, userID int64) model.UserBookings {
	return model.UserBookings{
		GroundBookings: filterBy(s.GroundBookings(ctx), func(b model.GroundBooking) bool {
			return b.UserID == userID
		}),
		CoachBookings: filterBy(s.CoachBookings(ctx), func(b model.CoachBooking) bool {
			return b.UserID == userID
		}),
	}
}

// Stats counts every collection. Each collection is loaded independently.
func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, load func(context.Context) int) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*dst = load(gctx)
			return nil
		})
	}

	count(&stats.TotalVenues, func(ctx context.Context) int { return len(s.Venues(ctx)) })
	count(&stats.TotalCoaches, func(ctx context.Context) int { return len(s.Coaches(ctx)) })
	count(&stats.TotalProducts, func(ctx context.Context) int { return len(s.Products(ctx)) })
	count(&stats.TotalUsers, func(ctx context.Context) int { return len(s.Users(ctx)) })
	count(&stats.TotalGroundBookings, func(ctx context.Context) int { return len(s.GroundBookings(ctx)) })
	count(&stats.TotalCoachBookings, func(ctx context.Context) int { return len(s.CoachBookings(ctx)) })

	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	stats.TotalBookings = stats.TotalGroundBookings + stats.TotalCoachBookings
	return stats, nil
}

// nextBookingID returns the current millisecond, bumped past the highest
// existing id
func (s *Service) nextBookingID(existing []int64) int64 {
	id := clock.Millis(s.clock)
	for _, e := range existing {
		if e >= id {
			id = e + 1
		}
	}
	return id
}

func groundBookingIDs(bookings []model.GroundBooking) []int64 {
	ids := make([]int64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids
}

func coachBookingIDs(bookings []model.CoachBooking) []int64 {
	ids := make([]int64, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids
}
