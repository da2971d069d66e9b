package models

import "time"

// List is a named shopping list.
//
// A positive ID is assigned by the server. A negative ID is a placeholder
// fabricated by the client while the list waits in the mutation queue.
type List struct {
	ID        int64     `json:"id"`
	Label     string    `json:"bezeichnung"`
	CreatedAt time.Time `json:"erstellt_am"`
}

// IsPending reports whether the list has not been confirmed by the server yet.
func (l List) IsPending() bool {
	return IsPlaceholderID(l.ID)
}

// CreateListRequest is the body of POST /listen.
type CreateListRequest struct {
	Label string `json:"bezeichnung"`
}

// IsPlaceholderID reports whether id was fabricated locally.
func IsPlaceholderID(id int64) bool {
	return id < 0
}
