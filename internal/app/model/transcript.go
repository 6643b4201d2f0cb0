package model

import "time"

// Transcript is a persisted speech-to-text result. Records are immutable once
// the history store has assigned ID and CreatedAt.
type Transcript struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
