package bulkimport

import (
	"strings"

	"alumni/internal/alumni"
)

// IDSet holds alumni ids known to exist.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Clone returns an independent copy. Cloning a nil set yields an empty one.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// ValidateRecord runs every field rule against rec and returns the problems
// found, in rule order. An empty result means the record is importable.
func ValidateRecord(rec alumni.Record, existing IDSet) []Issue {
	rec = rec.Trimmed()
	var issues []Issue
	for i, v := range rec.Values() {
		if v == "" {
			issues = append(issues, Issue{Kind: MissingField, Field: alumni.Columns[i]})
		}
	}
	if rec.AlumniID != "" && existing.Has(rec.AlumniID) {
		issues = append(issues, Issue{Kind: DuplicateID})
	}
	if rec.DOB != "" && !alumni.IsValidDate(rec.DOB) {
		issues = append(issues, Issue{Kind: InvalidDate})
	}
	if rec.Status != "" && !alumni.IsValidStatus(rec.Status) {
		issues = append(issues, Issue{Kind: InvalidStatus})
	}
	if rec.Contact != "" && !alumni.IsValidContact(rec.Contact) {
		issues = append(issues, Issue{Kind: InvalidContact})
	}
	// Import files have no quote escape, so a stored quote could not be
	// exported and imported back unchanged.
	for _, v := range rec.Values() {
		if strings.ContainsRune(v, '"') {
			issues = append(issues, Issue{Kind: QuoteInField})
			break
		}
	}
	return issues
}

// Problems is ValidateRecord without the duplicate check, rendered as text.
func Problems(rec alumni.Record) string {
	return strings.Join(Messages(ValidateRecord(rec, nil)), "; ")
}
