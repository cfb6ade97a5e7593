package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History records a single point award. Entries are never modified.
type History struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"` // weak reference to User
	AwardedPoints int                `bson:"awardedPoints" json:"awardedPoints"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// HistoryView is a History entry with the awarded user's display fields
// resolved at read time.
type HistoryView struct {
	ID            primitive.ObjectID `json:"_id"`
	UserID        primitive.ObjectID `json:"userId"`
	Name          string             `json:"name"`
	ProfilePic    string             `json:"profilePic"`
	AwardedPoints int                `json:"awardedPoints"`
	Timestamp     time.Time          `json:"timestamp"`
}

// NewHistoryView joins h with its user; a nil user yields the Unknown placeholder.
func NewHistoryView(h *History, user *User) *HistoryView {
	view := &HistoryView{
		ID:            h.ID,
		UserID:        h.UserID,
		Name:          UnknownUserName,
		ProfilePic:    UnknownUserPic,
		AwardedPoints: h.AwardedPoints,
		Timestamp:     h.Timestamp,
	}
	if user != nil {
		view.Name = user.Name
		view.ProfilePic = user.ProfilePic
	}
	return view
}
