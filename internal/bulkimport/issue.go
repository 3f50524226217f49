package bulkimport

import (
	"encoding/json"
	"fmt"
	"strings"

	"alumni/internal/alumni"
)

// IssueKind classifies why a row was rejected.
type IssueKind int

const (
	MissingField IssueKind = iota + 1
	DuplicateID
	InvalidDate
	InvalidStatus
	InvalidContact
	ColumnCountMismatch
	InvalidEncoding
	QuoteInField
)

var issueKindNames = map[IssueKind]string{
	MissingField:        "missing_field",
	DuplicateID:         "duplicate_id",
	InvalidDate:         "invalid_date",
	InvalidStatus:       "invalid_status",
	InvalidContact:      "invalid_contact",
	ColumnCountMismatch: "column_count",
	InvalidEncoding:     "invalid_encoding",
	QuoteInField:        "quote_in_field",
}

func (k IssueKind) String() string {
	if name, ok := issueKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("IssueKind(%d)", int(k))
}

func (k IssueKind) MarshalText() ([]byte, error) {
	if _, ok := issueKindNames[k]; !ok {
		return nil, fmt.Errorf("unknown issue kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *IssueKind) UnmarshalText(b []byte) error {
	for kind, name := range issueKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown issue kind %q", string(b))
}

// Issue is one problem found in a row. Field is set for MissingField.
type Issue struct {
	Kind  IssueKind
	Field string
}

// Message renders the issue for people.
func (i Issue) Message() string {
	switch i.Kind {
	case MissingField:
		return i.Field + " is required"
	case DuplicateID:
		return "Alumni ID already exists in database"
	case InvalidDate:
		return "Invalid date format (use YYYY-MM-DD)"
	case InvalidStatus:
		return "Invalid status (use: " + strings.Join(alumni.Statuses, ", ") + ")"
	case InvalidContact:
		return "Contact must be valid"
	case ColumnCountMismatch:
		return "Incorrect number of columns"
	case InvalidEncoding:
		return "Row is not valid UTF-8 text"
	case QuoteInField:
		return "Double quotes are not allowed in field values"
	}
	return i.Kind.String()
}

type issueJSON struct {
	Kind    IssueKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(issueJSON{Kind: i.Kind, Field: i.Field, Message: i.Message()})
}

func (i *Issue) UnmarshalJSON(b []byte) error {
	var v issueJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	i.Kind, i.Field = v.Kind, v.Field
	return nil
}

// Messages renders a list of issues in order.
func Messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message()
	}
	return out
}
