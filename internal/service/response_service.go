package service

import "time"

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "RECONCILE", "REJECTED", "RESET"
}

// AuthConfig carries token signing parameters and the sign-up policy.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
	OpenSignUp bool
}
