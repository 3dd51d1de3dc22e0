// Package gcal synchronizes training plans with the user's Google Calendar.
//
// Every event it creates carries a private extended-property tag
// (source=marathon-training-plan plus the race parameters and workout date).
// The tag is the only record of ownership: no event-ID list is persisted
// locally, and the remove workflow finds its events purely by querying for
// the tag.
package gcal

import (
	"errors"
	"fmt"
)

// Tag keys attached to every created event as private extended properties.
// They are not visible to the user in the calendar UI.
const (
	TagSource = "marathon-training-plan"

	tagKeySource      = "source"
	tagKeyRaceType    = "raceType"
	tagKeySkillLevel  = "skillLevel"
	tagKeyWorkoutDate = "workoutDate"
)

var (
	// ErrMissingCredentials means the client identifier or API key is absent
	// from process configuration. Detected by a pre-flight check before any
	// network call is attempted.
	ErrMissingCredentials = errors.New("google calendar credentials are not configured")

	// ErrAuthorization means the token request failed or the response did
	// not contain an access token.
	ErrAuthorization = errors.New("google calendar authorization failed")
)

// Config holds the Google Calendar credentials and target calendar.
type Config struct {
	ClientID     string
	ClientSecret string
	APIKey       string
	RefreshToken string
	CalendarID   string // defaults to "primary"
}

// Validate checks that the required credentials are present. It replaces
// error-message sniffing with an explicit configuration check that runs
// before any network activity.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: client_id is empty", ErrMissingCredentials)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: api_key is empty", ErrMissingCredentials)
	}
	return nil
}

func (c Config) calendarID() string {
	if c.CalendarID != "" {
		return c.CalendarID
	}
	return "primary"
}
