package model

// Venue is a bookable sports ground
type Venue struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Location       string   `json:"location"`
	Sports         []string `json:"sports,omitempty"`
	Rating         float64  `json:"rating"`
	PricePerHour   float64  `json:"pricePerHour"`
	Amenities      []string `json:"amenities,omitempty"`
	AvailableSlots []string `json:"availableSlots,omitempty"`
	Description    string   `json:"description,omitempty"`
	Image          string   `json:"image,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// Coach is a bookable trainer
type Coach struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Sport          string  `json:"sport"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	Rating         float64 `json:"rating"`
	HourlyRate     float64 `json:"hourlyRate"`
	Location       string  `json:"location,omitempty"`
	Bio            string  `json:"bio,omitempty"`
	Image          string  `json:"image,omitempty"`
}

// Product is a shop item
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	InStock  bool    `json:"inStock"`
	Image    string  `json:"image,omitempty"`
}

// NewsItem is a news article shown on the home page
type NewsItem struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content,omitempty"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date"` // YYYY-MM-DD
	Image    string `json:"image,omitempty"`
}

// Category groups products or sports on the home page
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Count int    `json:"count,omitempty"`
}

// SearchResults holds the per-collection matches of a free-text search
type SearchResults struct {
	Venues   []Venue    `json:"venues"`
	Coaches  []Coach    `json:"coaches"`
	Products []Product  `json:"products"`
	News     []NewsItem `json:"news"`
}

// EmptySearchResults returns results with every collection empty but non-nil
func EmptySearchResults() SearchResults {
	return SearchResults{
		Venues:   []Venue{},
		Coaches:  []Coach{},
		Products: []Product{},
		News:     []NewsItem{},
	}
}

// Stats holds aggregate counts for the dashboard
type Stats struct {
	TotalVenues         int `json:"totalVenues"`
	TotalCoaches        int `json:"totalCoaches"`
	TotalProducts       int `json:"totalProducts"`
	TotalUsers          int `json:"totalUsers"`
	TotalGroundBookings int `json:"totalGroundBookings"`
	TotalCoachBookings  int `json:"totalCoachBookings"`
	TotalBookings       int `json:"totalBookings"`
}
