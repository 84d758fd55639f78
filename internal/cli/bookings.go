package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/sporthub/internal/services/catalog"
)

func newBookCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Booking commands",
	}

	cmd.AddCommand(newBookGroundCmd(rt))
	cmd.AddCommand(newBookCoachCmd(rt))

	return cmd
}

func newBookGroundCmd(rt *runtime) *cobra.Command {
	var venueID, hours int
	var date, slot string

	cmd := &cobra.Command{
		Use:   "ground",
		Short: "Book a venue for the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.requireUser()
			if err != nil {
				return err
			}
			userID, err := bookingUserID(user)
			if err != nil {
				return err
			}
			venue, err := rt.app.Catalog.VenueByID(cmd.Context(), venueID)
			if err != nil {
				return err
			}

			booking, err := rt.app.Catalog.CreateGroundBooking(cmd.Context(), catalog.GroundBookingRequest{
				GroundID:    venue.ID,
				UserID:      userID,
				Date:        date,
				TimeSlot:    slot,
				Duration:    hours,
				TotalAmount: venue.PricePerHour * float64(hours),
			})
			if err != nil {
				return err
			}

			rt.output(cmd).Print(*booking)
			return nil
		},
	}

	cmd.Flags().IntVar(&venueID, "venue", 0, "Venue id (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&slot, "slot", "", "Time slot, e.g. 9:00 AM (required)")
	cmd.Flags().IntVar(&hours, "hours", 1, "Duration in hours")
	_ = cmd.MarkFlagRequired("venue")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("slot")

	return cmd
}

func newBookCoachCmd(rt *runtime) *cobra.Command {
	var coachID int
	var date, at, venue string

	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Book a coaching session for the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.requireUser()
			if err != nil {
				return err
			}
			userID, err := bookingUserID(user)
			if err != nil {
				return err
			}
			coach, err := rt.app.Catalog.CoachByID(cmd.Context(), coachID)
			if err != nil {
				return err
			}

			booking, err := rt.app.Catalog.CreateCoachBooking(cmd.Context(), catalog.CoachBookingRequest{
				CoachID:    coach.ID,
				UserID:     userID,
				Date:       date,
				Time:       at,
				Venue:      venue,
				HourlyRate: coach.HourlyRate,
			})
			if err != nil {
				return err
			}

			rt.output(cmd).Print(*booking)
			return nil
		},
	}

	cmd.Flags().IntVar(&coachID, "coach", 0, "Coach id (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&at, "time", "", "Start time, e.g. 4:00 PM (required)")
	cmd.Flags().StringVar(&venue, "venue", "", "Where the session takes place")
	_ = cmd.MarkFlagRequired("coach")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func newBookingsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List the logged-in user's bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := rt.requireUser()
			if err != nil {
				return err
			}
			userID, err := bookingUserID(user)
			if err != nil {
				return err
			}
			rt.output(cmd).Print(rt.app.Catalog.UserBookings(cmd.Context(), userID))
			return nil
		},
	}
}
