package jobboard

import (
	"sort"
	"strings"
)

// Filter narrows a listing. String fields match case-insensitively and
// exactly; Skill and Location match any element of the posting's lists.
type Filter struct {
	Kind           Kind
	Company        string
	JobArea        string
	Skill          string
	Location       string
	PostedBy       string
	IncludeExpired bool
}

// Match reports whether p satisfies f, ignoring expiry.
func (f Filter) Match(p Posting) bool {
	if f.Kind != "" && p.Kind != f.Kind {
		return false
	}
	if f.PostedBy != "" && p.PostedBy != f.PostedBy {
		return false
	}
	if !equalOrEmpty(f.Company, p.Company) || !equalOrEmpty(f.JobArea, p.JobArea) {
		return false
	}
	if f.Skill != "" && !anyEqual(p.Skills, f.Skill) {
		return false
	}
	if f.Location != "" && !anyEqual(p.Locations, f.Location) {
		return false
	}
	return true
}

func equalOrEmpty(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, strings.TrimSpace(got))
}

func anyEqual(values []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}

// Preference weights used by Score.
const (
	companyWeight  = 4
	jobAreaWeight  = 3
	skillWeight    = 3
	locationWeight = 2
)

// Score rates how well p fits pref. A field scores when the posting value
// contains one of the preferred values, ignoring case. Skills and locations
// score once no matter how many of them match.
func Score(p Posting, pref Preferences) int {
	score := 0
	if containsAny(p.Company, pref.Companies) {
		score += companyWeight
	}
	if containsAny(p.JobArea, pref.JobAreas) {
		score += jobAreaWeight
	}
	for _, s := range p.Skills {
		if containsAny(s, pref.Skills) {
			score += skillWeight
			break
		}
	}
	for _, l := range p.Locations {
		if containsAny(l, pref.Locations) {
			score += locationWeight
			break
		}
	}
	return score
}

func containsAny(value string, wanted []string) bool {
	value = strings.ToLower(value)
	if value == "" {
		return false
	}
	for _, w := range wanted {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" && strings.Contains(value, w) {
			return true
		}
	}
	return false
}

// Facet names accepted by Facets.
const (
	FacetCompany  = "company"
	FacetJobArea  = "job_area"
	FacetSkill    = "skill"
	FacetLocation = "location"
)

// Facets returns the distinct trimmed, non-empty values of field across
// postings, sorted case-insensitively. ok is false for an unknown field.
func Facets(postings []Posting, field string) (values []string, ok bool) {
	var pick func(Posting) []string
	switch field {
	case FacetCompany:
		pick = func(p Posting) []string { return []string{p.Company} }
	case FacetJobArea:
		pick = func(p Posting) []string { return []string{p.JobArea} }
	case FacetSkill:
		pick = func(p Posting) []string { return p.Skills }
	case FacetLocation:
		pick = func(p Posting) []string { return p.Locations }
	default:
		return nil, false
	}
	seen := map[string]struct{}{}
	values = []string{}
	for _, p := range postings {
		for _, v := range pick(p) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Slice(values, func(i, j int) bool {
		a, b := strings.ToLower(values[i]), strings.ToLower(values[j])
		if a != b {
			return a < b
		}
		return values[i] < values[j]
	})
	return values, true
}
