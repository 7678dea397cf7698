// Package csvtable reads the loosely formatted CSV exports produced by the
// upstream data service. It never fails: odd input yields fewer or emptier rows.
package csvtable

import "strings"

// Row is one data line keyed by header name.
type Row struct {
	headers []string
	values  map[string]string
}

// NewRow builds a row from parallel header and value slices. Missing values
// become empty strings and a repeated header keeps its last value.
func NewRow(headers, values []string) Row {
	row := Row{values: make(map[string]string, len(headers))}
	for i, h := range headers {
		if _, seen := row.values[h]; !seen {
			row.headers = append(row.headers, h)
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		row.values[h] = v
	}
	return row
}

// Headers returns the distinct header names in column order.
func (r Row) Headers() []string {
	return r.headers
}

// Get returns the raw value stored under an exact header name.
func (r Row) Get(header string) (string, bool) {
	v, ok := r.values[header]
	return v, ok
}

// Pick resolves a logical field from an ordered alias list. Exact header
// matches are tried first for every alias, then case-insensitive ones.
// Empty values never match.
func (r Row) Pick(aliases ...string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := r.values[alias]; ok && v != "" {
			return v, true
		}
	}
	for _, alias := range aliases {
		for _, h := range r.headers {
			if !strings.EqualFold(h, alias) {
				continue
			}
			if v := r.values[h]; v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Parse splits text into rows. The first non-blank line is the header.
func Parse(text string) []Row {
	text = strings.ReplaceAll(text, "\r", "")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []Row{}
	}

	headers := cleanFields(SplitLine(lines[0]))
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, NewRow(headers, cleanFields(SplitLine(line))))
	}
	return rows
}

// SplitLine splits on commas that sit outside a quoted span. A comma is a
// separator only when an even number of quotes follows it on the line.
func SplitLine(line string) []string {
	remaining := strings.Count(line, `"`)
	fields := make([]string, 0, 8)
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			remaining--
		case ',':
			if remaining%2 == 0 {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}

func cleanFields(fields []string) []string {
	for i, f := range fields {
		fields[i] = unquote(strings.TrimSpace(f))
	}
	return fields
}

// unquote strips one leading and one trailing double quote.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
