package models

import "time"

// Operator is an account allowed to drive the radio over the API.
type Operator struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor identifies who issued a radio command. The zero value means the
// transition was internal (shutdown, reconcile, boot reset).
type Actor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func (a Actor) IsZero() bool {
	return a.ID == 0 && a.Username == ""
}

// Actor returns the identity recorded for commands this operator issues.
func (o Operator) Actor() Actor {
	return Actor{ID: o.ID, Username: o.Username}
}
