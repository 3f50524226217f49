// Package bulkimport turns an uploaded alumni CSV into a validated preview and
// submits the valid rows one at a time to a record creator.
package bulkimport

import "strings"

// Tokenize splits one CSV line on commas. A double quote toggles quoted mode
// and is dropped; commas inside quotes are kept literally. There is no escape
// for a quote character. Every field is trimmed.
func Tokenize(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}
