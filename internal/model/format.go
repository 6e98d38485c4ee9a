package model

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"Janv.", "Févr.", "Mars", "Avr.", "Mai", "Juin",
	"Juil.", "Août", "Sept.", "Oct.", "Nov.", "Déc.",
}

// FormatDate renders an ISO-8601 date as the short French form used in the
// bills table, e.g. "2023-12-17" -> "17 Déc. 23". The caller decides what to
// do with unparsable input; legacy rows are known to hold garbage dates.
func FormatDate(iso string) (string, error) {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", iso, err)
	}
	return fmt.Sprintf("%d %s %02d", t.Day(), frenchMonths[t.Month()-1], t.Year()%100), nil
}

// ValidDate reports whether a stored date parses as ISO-8601.
func ValidDate(iso string) bool {
	_, err := time.Parse("2006-01-02", iso)
	return err == nil
}
