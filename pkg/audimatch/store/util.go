package store

import "strings"

// trimHeader strips whitespace and a UTF-8 byte order mark, which
// spreadsheet exports often leave on the first header cell.
func trimHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
