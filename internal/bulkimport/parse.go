package bulkimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"alumni/internal/alumni"
)

// ErrNoDataRows is returned for files without a header and at least one data row.
var ErrNoDataRows = errors.New("CSV file is empty or has no data rows")

// ValidRow is an importable record and the line it came from.
type ValidRow struct {
	Line   int           `json:"line"`
	Record alumni.Record `json:"record"`
}

// InvalidRow is a rejected row. Raw holds the tokens when the column count was
// wrong and Record could not be built.
type InvalidRow struct {
	Line   int           `json:"line"`
	Record alumni.Record `json:"record"`
	Raw    []string      `json:"raw,omitempty"`
	Issues []Issue       `json:"issues"`
}

// Preview is the outcome of parsing a file: every data row lands in exactly
// one of Valid or Invalid.
type Preview struct {
	TotalRows int             `json:"total_rows"`
	Parsed    []alumni.Record `json:"parsed"`
	Valid     []ValidRow      `json:"valid"`
	Invalid   []InvalidRow    `json:"invalid"`
}

// Summary holds the preview counters.
type Summary struct {
	Total   int `json:"total"`
	Parsed  int `json:"parsed"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

func (p *Preview) Summary() Summary {
	return Summary{Total: p.TotalRows, Parsed: len(p.Parsed), Valid: len(p.Valid), Invalid: len(p.Invalid)}
}

// Records returns the valid records in file order.
func (p *Preview) Records() []alumni.Record {
	out := make([]alumni.Record, len(p.Valid))
	for i, v := range p.Valid {
		out[i] = v.Record
	}
	return out
}

// Parse reads a whole file, checks its header and classifies every data row.
// Lines are trimmed and blank lines skipped before numbering, so the header is
// line 1, and a leading byte order mark is dropped. Rows that are not valid
// UTF-8 are rejected rather than repaired. existing is not modified: ids accepted while parsing go into a copy,
// which also rejects a second occurrence of an id within the same file.
func Parse(r io.Reader, existing IDSet) (*Preview, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, ErrNoDataRows
	}
	if err := ValidateHeader(lines[0]); err != nil {
		return nil, err
	}

	ids := existing.Clone()
	p := &Preview{TotalRows: len(lines) - 1}
	for i, line := range lines[1:] {
		lineNo := i + 2
		values := Tokenize(line)
		if !utf8.ValidString(line) {
			p.Invalid = append(p.Invalid, InvalidRow{
				Line:   lineNo,
				Raw:    values,
				Issues: []Issue{{Kind: InvalidEncoding}},
			})
			continue
		}
		if len(values) != len(ExpectedHeader) {
			p.Invalid = append(p.Invalid, InvalidRow{
				Line:   lineNo,
				Raw:    values,
				Issues: []Issue{{Kind: ColumnCountMismatch}},
			})
			continue
		}
		rec := alumni.FromValues(values)
		p.Parsed = append(p.Parsed, rec)
		if issues := ValidateRecord(rec, ids); len(issues) > 0 {
			p.Invalid = append(p.Invalid, InvalidRow{Line: lineNo, Record: rec, Issues: issues})
			continue
		}
		ids.Add(rec.AlumniID)
		p.Valid = append(p.Valid, ValidRow{Line: lineNo, Record: rec})
	}
	return p, nil
}

const byteOrderMark = "\ufeff"

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxFileSize)
	var lines []string
	for sc.Scan() {
		text := sc.Text()
		if len(lines) == 0 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}
		if line := strings.TrimSpace(text); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return lines, nil
}
