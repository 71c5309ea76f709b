package domain

import "time"

// Hashtag is a topical label, created on first use and never changed
type Hashtag struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	FirstUsed time.Time `json:"firstUsed"`
}
