package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mcoot/sporthub/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.User:
		o.printUser(v)
	case WhoAmI:
		o.printWhoAmI(v)
	case []model.Venue:
		o.printVenues(v)
	case model.Venue:
		o.printVenue(v)
	case []model.Coach:
		o.printCoaches(v)
	case model.Coach:
		o.printCoach(v)
	case []model.Product:
		o.printProducts(v)
	case model.Product:
		o.printProduct(v)
	case []model.NewsItem:
		o.printNews(v)
	case model.NewsItem:
		o.printNewsItem(v)
	case model.SearchResults:
		o.printSearchResults(v)
	case model.GroundBooking:
		o.printGroundBooking(v)
	case model.CoachBooking:
		o.printCoachBooking(v)
	case model.UserBookings:
		o.printUserBookings(v)
	case model.Stats:
		o.printStats(v)
	case SeedResult:
		o.printSeedResult(v)
	case model.AuthState:
		o.printAuthState(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// WhoAmI describes the current session
type WhoAmI struct {
	User           model.User `json:"user"`
	SessionAge     string     `json:"session_age"`
	CanAccessAdmin bool       `json:"can_access_admin"`
}

// SeedResult lists the keys written by a seed run
type SeedResult struct {
	Seeded []string `json:"seeded"`
}

func (o *Output) printUser(u model.User) {
	fmt.Fprintf(o.out, "User: %s %s (%s)\n", u.Avatar, u.Name, u.ID)
	fmt.Fprintf(o.out, "Email: %s\n", u.Email)
	fmt.Fprintf(o.out, "Role: %s\n", u.Role)
	if u.Phone != "" {
		fmt.Fprintf(o.out, "Phone: %s\n", u.Phone)
	}
	if u.Location != "" {
		fmt.Fprintf(o.out, "Location: %s\n", u.Location)
	}
	if u.Bio != "" {
		fmt.Fprintf(o.out, "Bio: %s\n", u.Bio)
	}
	if len(u.Sports) > 0 {
		fmt.Fprintf(o.out, "Sports: %s\n", strings.Join(u.Sports, ", "))
	}
	fmt.Fprintf(o.out, "Joined: %s\n", u.JoinDate)
}

func (o *Output) printWhoAmI(w WhoAmI) {
	o.printUser(w.User)
	fmt.Fprintf(o.out, "Session age: %s\n", w.SessionAge)
	if w.CanAccessAdmin {
		fmt.Fprintln(o.out, "Admin area: yes")
	} else {
		fmt.Fprintln(o.out, "Admin area: no")
	}
}

func (o *Output) printVenues(venues []model.Venue) {
	if len(venues) == 0 {
		fmt.Fprintln(o.out, "No venues found")
		return
	}
	fmt.Fprintf(o.out, "Venues (%d):\n", len(venues))
	for _, v := range venues {
		fmt.Fprintf(o.out, "  [%d] %s - %s, %s (%.1f★, %.0f/hr)\n", v.ID, v.Name, v.Type, v.Location, v.Rating, v.PricePerHour)
	}
}

func (o *Output) printVenue(v model.Venue) {
	fmt.Fprintf(o.out, "Venue: %s (%d)\n", v.Name, v.ID)
	fmt.Fprintf(o.out, "Type: %s\n", v.Type)
	fmt.Fprintf(o.out, "Location: %s\n", v.Location)
	fmt.Fprintf(o.out, "Rating: %.1f\n", v.Rating)
	fmt.Fprintf(o.out, "Price per hour: %.0f\n", v.PricePerHour)
	if len(v.Sports) > 0 {
		fmt.Fprintf(o.out, "Sports: %s\n", strings.Join(v.Sports, ", "))
	}
	if len(v.Amenities) > 0 {
		fmt.Fprintf(o.out, "Amenities: %s\n", strings.Join(v.Amenities, ", "))
	}
	if len(v.AvailableSlots) > 0 {
		fmt.Fprintf(o.out, "Slots: %s\n", strings.Join(v.AvailableSlots, ", "))
	}
	if v.Description != "" {
		fmt.Fprintf(o.out, "\n%s\n", v.Description)
	}
}

func (o *Output) printCoaches(coaches []model.Coach) {
	if len(coaches) == 0 {
		fmt.Fprintln(o.out, "No coaches found")
		return
	}
	fmt.Fprintf(o.out, "Coaches (%d):\n", len(coaches))
	for _, c := range coaches {
		fmt.Fprintf(o.out, "  [%d] %s - %s, %s (%.1f★, %.0f/hr)\n", c.ID, c.Name, c.Sport, c.Specialization, c.Rating, c.HourlyRate)
	}
}

func (o *Output) printCoach(c model.Coach) {
	fmt.Fprintf(o.out, "Coach: %s (%d)\n", c.Name, c.ID)
	fmt.Fprintf(o.out, "Sport: %s\n", c.Sport)
	fmt.Fprintf(o.out, "Specialization: %s\n", c.Specialization)
	fmt.Fprintf(o.out, "Experience: %d years\n", c.Experience)
	fmt.Fprintf(o.out, "Rating: %.1f\n", c.Rating)
	fmt.Fprintf(o.out, "Hourly rate: %.0f\n", c.HourlyRate)
	if c.Location != "" {
		fmt.Fprintf(o.out, "Location: %s\n", c.Location)
	}
}

func (o *Output) printProducts(products []model.Product) {
	if len(products) == 0 {
		fmt.Fprintln(o.out, "No products found")
		return
	}
	fmt.Fprintf(o.out, "Products (%d):\n", len(products))
	for _, p := range products {
		stock := ""
		if !p.InStock {
			stock = " [out of stock]"
		}
		fmt.Fprintf(o.out, "  [%d] %s - %s by %s (%.0f)%s\n", p.ID, p.Name, p.Category, p.Brand, p.Price, stock)
	}
}

func (o *Output) printProduct(p model.Product) {
	fmt.Fprintf(o.out, "Product: %s (%d)\n", p.Name, p.ID)
	fmt.Fprintf(o.out, "Category: %s\n", p.Category)
	fmt.Fprintf(o.out, "Brand: %s\n", p.Brand)
	fmt.Fprintf(o.out, "Price: %.0f\n", p.Price)
	fmt.Fprintf(o.out, "Rating: %.1f\n", p.Rating)
	if p.InStock {
		fmt.Fprintln(o.out, "In stock: yes")
	} else {
		fmt.Fprintln(o.out, "In stock: no")
	}
}

func (o *Output) printNews(news []model.NewsItem) {
	if len(news) == 0 {
		fmt.Fprintln(o.out, "No news")
		return
	}
	for _, n := range news {
		fmt.Fprintf(o.out, "  [%d] %s  %s\n", n.ID, n.Date, n.Title)
	}
}

func (o *Output) printNewsItem(n model.NewsItem) {
	fmt.Fprintf(o.out, "%s\n", n.Title)
	fmt.Fprintf(o.out, "%s", n.Date)
	if n.Category != "" {
		fmt.Fprintf(o.out, " · %s", n.Category)
	}
	fmt.Fprintln(o.out)
	fmt.Fprintf(o.out, "\n%s\n", n.Summary)
	if n.Content != "" {
		fmt.Fprintf(o.out, "\n%s\n", n.Content)
	}
}

func (o *Output) printSearchResults(r model.SearchResults) {
	total := len(r.Venues) + len(r.Coaches) + len(r.Products) + len(r.News)
	if total == 0 {
		fmt.Fprintln(o.out, "No results")
		return
	}
	if len(r.Venues) > 0 {
		o.printVenues(r.Venues)
	}
	if len(r.Coaches) > 0 {
		o.printCoaches(r.Coaches)
	}
	if len(r.Products) > 0 {
		o.printProducts(r.Products)
	}
	if len(r.News) > 0 {
		fmt.Fprintf(o.out, "News (%d):\n", len(r.News))
		o.printNews(r.News)
	}
}

func (o *Output) printGroundBooking(b model.GroundBooking) {
	fmt.Fprintf(o.out, "Ground booking %d: venue %d on %s at %s for %dh (%.0f) - %s, payment %s\n",
		b.ID, b.GroundID, b.Date, b.TimeSlot, b.Duration, b.TotalAmount, b.Status, b.PaymentStatus)
}

func (o *Output) printCoachBooking(b model.CoachBooking) {
	fmt.Fprintf(o.out, "Coach booking %d: coach %d on %s at %s, %s - %s, payment %s\n",
		b.ID, b.CoachID, b.Date, b.Time, b.Venue, b.Status, b.PaymentStatus)
}

func (o *Output) printUserBookings(b model.UserBookings) {
	if len(b.GroundBookings) == 0 && len(b.CoachBookings) == 0 {
		fmt.Fprintln(o.out, "No bookings")
		return
	}
	for _, g := range b.GroundBookings {
		o.printGroundBooking(g)
	}
	for _, c := range b.CoachBookings {
		o.printCoachBooking(c)
	}
}

func (o *Output) printStats(s model.Stats) {
	fmt.Fprintf(o.out, "Venues: %d\n", s.TotalVenues)
	fmt.Fprintf(o.out, "Coaches: %d\n", s.TotalCoaches)
	fmt.Fprintf(o.out, "Products: %d\n", s.TotalProducts)
	fmt.Fprintf(o.out, "Users: %d\n", s.TotalUsers)
	fmt.Fprintf(o.out, "Bookings: %d (%d ground, %d coach)\n", s.TotalBookings, s.TotalGroundBookings, s.TotalCoachBookings)
}

func (o *Output) printSeedResult(r SeedResult) {
	if len(r.Seeded) == 0 {
		fmt.Fprintln(o.out, "Nothing to seed")
		return
	}
	fmt.Fprintf(o.out, "Seeded: %s\n", strings.Join(r.Seeded, ", "))
}

func (o *Output) printAuthState(s model.AuthState) {
	ts := time.Now().Format(time.TimeOnly)
	if s.IsAuthenticated && s.User != nil {
		fmt.Fprintf(o.out, "[%s] logged in as %s (%s)\n", ts, s.User.Name, s.User.Role)
	} else {
		fmt.Fprintf(o.out, "[%s] logged out\n", ts)
	}
}
