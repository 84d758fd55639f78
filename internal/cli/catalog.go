package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/sporthub/internal/model"
)

func newVenuesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "Venue commands",
	}

	cmd.AddCommand(newVenuesListCmd(rt))
	cmd.AddCommand(newVenuesGetCmd(rt))
	cmd.AddCommand(newVenuesSearchTypeCmd(rt))
	cmd.AddCommand(newVenuesAddCmd(rt))
	cmd.AddCommand(newVenuesUpdateCmd(rt))
	cmd.AddCommand(newVenuesDeleteCmd(rt))

	return cmd
}

func newVenuesListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all venues",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.output(cmd).Print(rt.app.Catalog.Venues(cmd.Context()))
			return nil
		},
	}
}

func newVenuesGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			venue, err := rt.app.Catalog.VenueByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			rt.output(cmd).Print(*venue)
			return nil
		},
	}
}

func newVenuesSearchTypeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search-type <type>",
		Short: "List venues whose type contains the given text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			venues := rt.app.Catalog.VenuesByType(cmd.Context(), strings.Join(args, " "))
			rt.output(cmd).Print(venues)
			return nil
		},
	}
}

// venueFlags binds the editable venue fields to a command's flags
type venueFlags struct {
	venue model.Venue
}

func (f *venueFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.venue.Name, "name", "", "Venue name")
	cmd.Flags().StringVar(&f.venue.Type, "type", "", "Venue type, e.g. Tennis Court")
	cmd.Flags().StringVar(&f.venue.Location, "location", "", "Location")
	cmd.Flags().Float64Var(&f.venue.PricePerHour, "price", 0, "Price per hour")
	cmd.Flags().StringSliceVar(&f.venue.Sports, "sports", nil, "Comma-separated sports")
	cmd.Flags().StringSliceVar(&f.venue.Amenities, "amenities", nil, "Comma-separated amenities")
	cmd.Flags().StringSliceVar(&f.venue.AvailableSlots, "slots", nil, "Comma-separated bookable time slots")
	cmd.Flags().StringVar(&f.venue.Description, "description", "", "Description")
	cmd.Flags().StringVar(&f.venue.Status, "status", "", "Status, e.g. active")
}

// mergeInto copies the flags the user set onto an existing venue
func (f *venueFlags) mergeInto(cmd *cobra.Command, v *model.Venue) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		v.Name = f.venue.Name
	}
	if flags.Changed("type") {
		v.Type = f.venue.Type
	}
	if flags.Changed("location") {
		v.Location = f.venue.Location
	}
	if flags.Changed("price") {
		v.PricePerHour = f.venue.PricePerHour
	}
	if flags.Changed("sports") {
		v.Sports = f.venue.Sports
	}
	if flags.Changed("amenities") {
		v.Amenities = f.venue.Amenities
	}
	if flags.Changed("slots") {
		v.AvailableSlots = f.venue.AvailableSlots
	}
	if flags.Changed("description") {
		v.Description = f.venue.Description
	}
	if flags.Changed("status") {
		v.Status = f.venue.Status
	}
}

func newVenuesAddCmd(rt *runtime) *cobra.Command {
	var f venueFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a venue (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			venue := f.venue
			if venue.Status == "" {
				venue.Status = "active"
			}
			added, err := rt.app.Catalog.AddVenue(cmd.Context(), venue)
			if err != nil {
				return err
			}
			rt.output(cmd).Print(*added)
			return nil
		},
	}

	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newVenuesUpdateCmd(rt *runtime) *cobra.Command {
	var f venueFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a venue (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			venue, err := rt.app.Catalog.VenueByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			f.mergeInto(cmd, venue)
			if err := rt.app.Catalog.UpdateVenue(cmd.Context(), *venue); err != nil {
				return err
			}
			rt.output(cmd).Print(*venue)
			return nil
		},
	}

	f.bind(cmd)

	return cmd
}

func newVenuesDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a venue (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAdmin(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.app.Catalog.DeleteVenue(cmd.Context(), id); err != nil {
				return err
			}
			rt.output(cmd).PrintMessage("Venue deleted")
			return nil
		},
	}
}

func newCoachesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coaches",
		Short: "Coach commands",
	}

	cmd.AddCommand(newCoachesListCmd(rt))
	cmd.AddCommand(newCoachesGetCmd(rt))

	return cmd
}

func newCoachesListCmd(rt *runtime) *cobra.Command {
	var sport string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List coaches",
		RunE: func(cmd *cobra.Command, args []string) error {
			coaches := rt.app.Catalog.Coaches(cmd.Context())
			if sport != "" {
				coaches = rt.app.Catalog.CoachesBySport(cmd.Context(), sport)
			}
			rt.output(cmd).Print(coaches)
			return nil
		},
	}

	cmd.Flags().StringVar(&sport, "sport", "", "Only coaches of this sport")

	return cmd
}

func newCoachesGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one coach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			coach, err := rt.app.Catalog.CoachByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			rt.output(cmd).Print(*coach)
			return nil
		},
	}
}

func newProductsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Shop product commands",
	}

	cmd.AddCommand(newProductsListCmd(rt))
	cmd.AddCommand(newProductsGetCmd(rt))

	return cmd
}

func newProductsListCmd(rt *runtime) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products := rt.app.Catalog.Products(cmd.Context())
			if category != "" {
				products = rt.app.Catalog.ProductsByCategory(cmd.Context(), category)
			}
			rt.output(cmd).Print(products)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only products in this category")

	return cmd
}

func newProductsGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := rt.app.Catalog.ProductByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			rt.output(cmd).Print(*product)
			return nil
		},
	}
}

func newNewsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "News commands",
	}

	cmd.AddCommand(newNewsListCmd(rt))
	cmd.AddCommand(newNewsGetCmd(rt))

	return cmd
}

func newNewsListCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest news",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.output(cmd).Print(rt.app.Catalog.LatestNews(cmd.Context(), limit))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items (default 6)")

	return cmd
}

func newNewsGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one news item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := rt.app.Catalog.NewsByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			rt.output(cmd).Print(*item)
			return nil
		},
	}
}

func newSearchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search venues, coaches, products and news",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := rt.app.Catalog.SearchAll(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			rt.output(cmd).Print(results)
			return nil
		},
	}
}

func newStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and booking counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := rt.app.Catalog.Stats(cmd.Context())
			if err != nil {
				return err
			}
			rt.output(cmd).Print(stats)
			return nil
		},
	}
}

func newSeedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "seed",
		Short:       "Copy bundled catalog data into the store where absent",
		Annotations: map[string]string{skipSeedAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded, err := rt.app.Catalog.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded == nil {
				seeded = []string{}
			}
			rt.output(cmd).Print(SeedResult{Seeded: seeded})
			return nil
		},
	}
}
