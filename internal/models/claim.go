package models

import "time"

// ClaimRequest is the body of POST /claim. A missing userId is reported as
// an unknown user rather than a validation failure.
type ClaimRequest struct {
	UserID string `json:"userId"`
}

// ClaimResult is what a successful claim returns.
type ClaimResult struct {
	User          *User     `json:"user"`
	AwardedPoints int       `json:"awardedPoints"`
	Timestamp     time.Time `json:"timestamp"`
}

// CreateUserRequest is the body of POST /users. Negative points are rejected by binding.
type CreateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	TotalPoints *int   `json:"totalPoints" binding:"omitempty,min=0"`
	ProfilePic  string `json:"profilePic" binding:"omitempty,max=2048"`
}

// MessageResponse is a plain {message} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// DebugResponse summarises store contents for GET /debug.
type DebugResponse struct {
	UserCount    int64   `json:"userCount"`
	HistoryCount int64   `json:"historyCount"`
	SampleUsers  []*User `json:"sampleUsers"`
	MongoURI     string  `json:"mongoUri"`
	StoreDriver  string  `json:"storeDriver"`
}
