// Package analytics records visitor interactions and page visits, and
// summarises them for the live metrics widget and the admin area.
package analytics

import (
	"errors"
	"fmt"
	"time"
)

// Actions recorded by the portfolio.
const (
	ActionViewChange   = "view_change"
	ActionProjectView  = "project_view"
	ActionContactClick = "contact_click"
	ActionDownload     = "download"
)

// Categories grouping the actions.
const (
	CategoryPortfolio = "portfolio"
	CategorySocial    = "social"
	CategoryResume    = "resume"
)

// ErrUnknownAction is returned by NewEvent for actions the portfolio does not record.
var ErrUnknownAction = errors.New("unknown analytics action")

// Event is a single fire-and-forget analytics notification.
type Event struct {
	Action     string    `json:"action"`
	Category   string    `json:"category"`
	Label      string    `json:"label,omitempty"`
	Value      int       `json:"value,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CategoryFor returns the category an action is filed under, and false for
// actions the portfolio does not record.
func CategoryFor(action string) (string, bool) {
	switch action {
	case ActionViewChange, ActionProjectView:
		return CategoryPortfolio, true
	case ActionContactClick:
		return CategorySocial, true
	case ActionDownload:
		return CategoryResume, true
	default:
		return "", false
	}
}

// NewEvent builds an event for action, filed under its category. Downloads
// carry a value of 1.
func NewEvent(action, label, sessionID string) (Event, error) {
	category, ok := CategoryFor(action)
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	event := Event{Action: action, Category: category, Label: label, SessionID: sessionID}
	if action == ActionDownload {
		event.Value = 1
	}
	return event, nil
}
