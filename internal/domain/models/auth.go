package models

// AuthRequest carries the optional simulation flag on /authenticate.
type AuthRequest struct {
	Mock bool `query:"mock" default:"false"`
}

// AuthOutcome is the result of one authentication attempt. Every attempt
// produces an authenticated session; the branches differ only in mode and
// notice category.
type AuthOutcome struct {
	Session Session
	Notice  Notice
}
