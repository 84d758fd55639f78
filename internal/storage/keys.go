package storage

// Key names. Session keys belong to the session service, everything else to the
// catalog service; neither writes the other's keys.
const (
	KeyUsers            = "users"
	KeyCurrentUser      = "currentUser"
	KeySessionTimestamp = "sessionTimestamp"

	KeyVenues         = "venues"
	KeyCoaches        = "coaches"
	KeyProducts       = "products"
	KeyNewsItems      = "newsItems"
	KeyCategories     = "categories"
	KeyGroundBookings = "groundBookings"
	KeyCoachBookings  = "coachBookings"

	// KeyLegacySportsGrounds is the old admin-managed venue list. It is folded
	// into KeyVenues on seed and then removed.
	KeyLegacySportsGrounds = "sportsGrounds"
)
