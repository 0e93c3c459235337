package models

import "time"

// BadgeEvent is pushed to connected clients whenever a badge is awarded,
// whether through accumulated credit or a claim code.
type BadgeEvent struct {
	Type      string    `json:"type"` // "badge_awarded"
	User      string    `json:"user"`
	Badge     string    `json:"badge"`
	Timestamp time.Time `json:"timestamp"`
}
