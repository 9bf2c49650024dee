// Package quotes is the quote collection the signal container was built
// for: a persisted store of quotes and a reactive board over it.
package quotes

import (
	"errors"
	"time"
)

// MaxRating is the highest rating a quote can receive.
const MaxRating = 5

var (
	// ErrNotFound is returned when no quote has the requested id.
	ErrNotFound = errors.New("quotes: not found")

	// ErrInvalidRating is returned for ratings outside 0..MaxRating.
	ErrInvalidRating = errors.New("quotes: rating out of range")

	// ErrEmptyContent is returned when adding a quote without content.
	ErrEmptyContent = errors.New("quotes: empty content")
)

// Quote is one saved quote.
type Quote struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	Source     string    `json:"source,omitempty"`
	Rating     int       `json:"rating"`
	IsFavorite bool      `json:"isFavorite"`
	AddedAt    time.Time `json:"addedAt"`

	// FromCache is set on quotes returned by SetQuote when the id was
	// already stored. It is never persisted.
	FromCache bool `json:"-"`
}
