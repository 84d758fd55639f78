package model

// Document is the bundled sample data in its normalized shape
type Document struct {
	NewsItems        []NewsItem      `json:"newsItems"`
	PopularVenues    []Venue         `json:"popularVenues"`
	FeaturedCoaches  []Coach         `json:"featuredCoaches"`
	FeaturedProducts []Product       `json:"featuredProducts"`
	Categories       []Category      `json:"categories"`
	SampleUsers      []User          `json:"sampleUsers"`
	GroundBookings   []GroundBooking `json:"groundBookings"`
	CoachBookings    []CoachBooking  `json:"coachBookings"`
}

// EmptyDocument returns the document used when the bundle cannot be loaded
func EmptyDocument() *Document {
	return &Document{
		NewsItems:        []NewsItem{},
		PopularVenues:    []Venue{},
		FeaturedCoaches:  []Coach{},
		FeaturedProducts: []Product{},
		Categories:       []Category{},
		SampleUsers:      []User{},
		GroundBookings:   []GroundBooking{},
		CoachBookings:    []CoachBooking{},
	}
}
