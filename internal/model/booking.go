package model

// BookingStatus tracks the lifecycle of a reservation
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// PaymentStatus tracks whether a reservation has been paid
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// GroundBooking is a reservation of a venue
type GroundBooking struct {
	ID            int64         `json:"id"`
	GroundID      int           `json:"groundId"`
	UserID        int64         `json:"userId"`
	Date          string        `json:"date"`
	TimeSlot      string        `json:"timeSlot"`
	Duration      int           `json:"duration"` // hours
	TotalAmount   float64       `json:"totalAmount"`
	BookingDate   string        `json:"bookingDate"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// CoachBooking is a reservation of a coaching session
type CoachBooking struct {
	ID            int64         `json:"id"`
	CoachID       int           `json:"coachId"`
	UserID        int64         `json:"userId"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Venue         string        `json:"venue"`
	HourlyRate    float64       `json:"hourlyRate"`
	BookingDate   string        `json:"bookingDate"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// UserBookings holds one user's reservations across both booking lists
type UserBookings struct {
	GroundBookings []GroundBooking `json:"groundBookings"`
	CoachBookings  []CoachBooking  `json:"coachBookings"`
}
