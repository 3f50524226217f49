package alumni

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Employment statuses accepted for a record, compared case-insensitively.
const (
	StatusEmployed      = "Employed"
	StatusEntrepreneur  = "Entrepreneur"
	StatusHigherStudies = "Higher Studies"
	StatusSeekingJob    = "Seeking Job"
)

// Statuses lists the accepted statuses in display order.
var Statuses = []string{StatusEmployed, StatusEntrepreneur, StatusHigherStudies, StatusSeekingJob}

// MinContactLength is the shortest contact value considered usable.
const MinContactLength = 5

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate reports whether s is a real calendar date written as YYYY-MM-DD.
func IsValidDate(s string) bool {
	if !dateShape.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// NormalizeStatus returns the canonical spelling of s, or "" when s is not an accepted status.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(st, s) {
			return st
		}
	}
	return ""
}

// IsValidStatus reports whether s is an accepted status.
func IsValidStatus(s string) bool {
	return NormalizeStatus(s) != ""
}

// IsValidContact reports whether s has at least MinContactLength characters.
func IsValidContact(s string) bool {
	return utf8.RuneCountInString(s) >= MinContactLength
}
