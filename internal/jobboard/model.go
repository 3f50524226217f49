// Package jobboard manages job and internship postings shared with alumni.
package jobboard

import (
	"strings"
	"time"
)

// Kind distinguishes jobs from internships.
type Kind string

const (
	KindJob        Kind = "job"
	KindInternship Kind = "internship"
)

// ParseKind accepts "job" or "internship" in any case; empty means job.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindJob:
		return KindJob, true
	case KindInternship:
		return KindInternship, true
	}
	return "", false
}

// Posting is a job or internship advert.
type Posting struct {
	ID                  string    `json:"id"`
	Kind                Kind      `json:"kind"`
	Title               string    `json:"title"`
	Company             string    `json:"company"`
	CompanyWebsite      string    `json:"company_website,omitempty"`
	ExperienceFrom      string    `json:"experience_from,omitempty"`
	ExperienceTo        string    `json:"experience_to,omitempty"`
	Duration            string    `json:"duration,omitempty"`
	Locations           []string  `json:"locations"`
	ContactEmail        string    `json:"contact_email"`
	JobArea             string    `json:"job_area,omitempty"`
	Skills              []string  `json:"skills"`
	Pay                 string    `json:"pay,omitempty"`
	ApplicationDeadline string    `json:"application_deadline,omitempty"`
	Description         string    `json:"description"`
	PostedBy            string    `json:"posted_by"`
	PostedAt            time.Time `json:"posted_at"`
}

// ExpiredOn reports whether the deadline is before day. Postings without a
// deadline, or with one that does not parse, never expire.
func (p Posting) ExpiredOn(day string) bool {
	return p.ApplicationDeadline != "" && validDate(p.ApplicationDeadline) && p.ApplicationDeadline < day
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// Preferences describe what a user wants to see in their "for you" list.
type Preferences struct {
	Companies []string `json:"companies"`
	JobAreas  []string `json:"job_areas"`
	Skills    []string `json:"skills"`
	Locations []string `json:"locations"`
}

// Empty reports whether no preference is set.
func (p Preferences) Empty() bool {
	return len(p.Companies) == 0 && len(p.JobAreas) == 0 && len(p.Skills) == 0 && len(p.Locations) == 0
}

// Clean trims every value and drops blanks.
func (p Preferences) Clean() Preferences {
	return Preferences{
		Companies: cleanList(p.Companies),
		JobAreas:  cleanList(p.JobAreas),
		Skills:    cleanList(p.Skills),
		Locations: cleanList(p.Locations),
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
