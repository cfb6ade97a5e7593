package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a leaderboard participant.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	TotalPoints int                `bson:"totalPoints" json:"totalPoints"`
	ProfilePic  string             `bson:"profilePic" json:"profilePic"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	defaultPicFormat = "https://placehold.co/100x100/6B46C1/FFFFFF?text=%s"

	// UnknownUserName and UnknownUserPic stand in for history entries whose user is gone.
	UnknownUserName = "Unknown"
	UnknownUserPic  = "https://placehold.co/100x100/6B46C1/FFFFFF?text=U"
)

// DefaultProfilePic returns the placeholder image keyed by the first letter of name.
func DefaultProfilePic(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return fmt.Sprintf(defaultPicFormat, "%3F")
	}
	return fmt.Sprintf(defaultPicFormat, string(unicode.ToUpper(r)))
}
