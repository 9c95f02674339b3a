package models

// Teacher represents a staff account allowed to manage rosters
type Teacher struct {
	Username     string `json:"username"`      // Unique login name
	PasswordHash string `json:"password_hash"` // bcrypt hash, only ever read from the roster file
}

// Activity represents an extracurricular activity and its roster
type Activity struct {
	Description     string   `json:"description"`      // What the activity is about
	Schedule        string   `json:"schedule"`         // Human-readable meeting times
	MaxParticipants int      `json:"max_participants"` // Roster capacity
	Participants    []string `json:"participants"`     // Student emails, in signup order
}
