package realtime

import "time"

// Message types carried on the hub.
const (
	TypePointsAwarded = "POINTS_AWARDED"
)

// Message is anything published on a Hub. Subscribers switch on the
// concrete type and ignore variants they do not know.
type Message interface {
	Type() string
}

// PointsAwarded announces a successful claim made by one view.
type PointsAwarded struct {
	UserID    string    `json:"userId"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	// Origin identifies the publishing view.
	Origin string `json:"origin"`
}

func (PointsAwarded) Type() string { return TypePointsAwarded }
