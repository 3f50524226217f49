package alumni

import (
	"strings"
	"time"
)

// Columns is the column order used by import files and exports.
var Columns = []string{"Alumni ID", "Name", "DOB", "Department", "Batch", "Contact", "Status"}

// Record is a single alumni entry as submitted by an admin or an import file.
type Record struct {
	AlumniID   string `json:"alumni_id"`
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
	Contact    string `json:"contact"`
	Status     string `json:"status"`
}

// FromValues maps positional values (in Columns order) onto a record.
// Missing positions stay empty.
func FromValues(values []string) Record {
	get := func(i int) string {
		if i < len(values) {
			return strings.TrimSpace(values[i])
		}
		return ""
	}
	return Record{
		AlumniID:   get(0),
		Name:       get(1),
		DOB:        get(2),
		Department: get(3),
		Batch:      get(4),
		Contact:    get(5),
		Status:     get(6),
	}
}

// Values returns the record fields in Columns order.
func (r Record) Values() []string {
	return []string{r.AlumniID, r.Name, r.DOB, r.Department, r.Batch, r.Contact, r.Status}
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r Record) Trimmed() Record {
	return FromValues(r.Values())
}

// Alumnus is a stored record.
type Alumnus struct {
	ID string `json:"id"`
	Record
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Batch      string
	Department string
	Query      string
}

// Match reports whether a satisfies the filter.
func (f Filter) Match(a Alumnus) bool {
	if f.Batch != "" && a.Batch != f.Batch {
		return false
	}
	if f.Department != "" && a.Department != f.Department {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(strings.ToLower(a.AlumniID), q) {
			return false
		}
	}
	return true
}

// Statistics summarises the alumni directory.
type Statistics struct {
	TotalAlumni   int `json:"totalAlumni"`
	Departments   int `json:"departments"`
	Employed      int `json:"employed"`
	Entrepreneur  int `json:"entrepreneur"`
	HigherStudies int `json:"higherStudies"`
	SeekingJob    int `json:"seekingJob"`
}
