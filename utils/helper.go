package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// DateLocation is the application's timezone, set once at startup.
var DateLocation *time.Location

// InitializeDateLocation loads the timezone named by APP_TIMEZONE (UTC when
// unset) into DateLocation.
func InitializeDateLocation() error {
	tz := getEnvOrDefault("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	DateLocation = loc
	return nil
}

// Today returns the current time in the application's timezone.
func Today() time.Time {
	if DateLocation == nil {
		return time.Now()
	}
	return time.Now().In(DateLocation)
}

// FormatDateFull renders a date in the long form used in narratives and
// contracts, e.g. "Monday, 2 June 2025".
func FormatDateFull(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// StringToUUIDPtr converts a string to UUID pointer
func StringToUUIDPtr(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &u
}

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
