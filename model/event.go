package model

import "time"

const (
	ActionUpvoted   = "upvoted"
	ActionCommented = "commented"
	ActionCleared   = "cleared"
)

// InteractionEvent describes a mutation that landed on an article.
type InteractionEvent struct {
	Action   string    `json:"action"`
	Article  string    `json:"article"`
	UID      string    `json:"uid"`
	Email    string    `json:"email,omitempty"`
	Text     string    `json:"text,omitempty"`
	Upvotes  int       `json:"upvotes"`
	Comments int       `json:"comments"`
	At       time.Time `json:"at"`
}
