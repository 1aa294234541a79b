package models

// Notice categories shown as banner styles in the views.
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// Notice is a short-lived message attached to the next rendered response
// and consumed once.
type Notice struct {
	Category string
	Message  string
}
