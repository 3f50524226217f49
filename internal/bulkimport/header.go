package bulkimport

import (
	"fmt"
	"strings"

	"alumni/internal/alumni"
)

// ExpectedHeader is the header row every import file must start with.
var ExpectedHeader = alumni.Columns

// HeaderError reports a header row that does not match ExpectedHeader.
type HeaderError struct {
	Expected []string
	Got      []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid CSV header: expected %q, got %q", strings.Join(e.Expected, ","), strings.Join(e.Got, ","))
}

// ValidateHeader checks the first line of a file position by position,
// ignoring case.
func ValidateHeader(line string) error {
	got := Tokenize(line)
	if len(got) != len(ExpectedHeader) {
		return &HeaderError{Expected: ExpectedHeader, Got: got}
	}
	for i, want := range ExpectedHeader {
		if !strings.EqualFold(got[i], want) {
			return &HeaderError{Expected: ExpectedHeader, Got: got}
		}
	}
	return nil
}
