// Package sheet reads portfolio rows from a tabular data source.
package sheet

import (
	"sort"
	"strings"
)

// Record is one sheet row, keyed by column header.
type Record map[string]string

// Get returns the value stored under header, or "".
func (r Record) Get(header string) string {
	return r[header]
}

// Normalize returns a copy of raw with every key and value trimmed.
// When two raw keys trim to the same header the first non-empty value wins,
// in sorted key order.
func Normalize(raw Record) Record {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cleaned := make(Record, len(raw))
	for _, k := range keys {
		key := strings.TrimSpace(k)
		value := strings.TrimSpace(raw[k])
		if existing, ok := cleaned[key]; ok && existing != "" {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

// NormalizeAll normalizes every record in rows.
func NormalizeAll(rows []Record) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = Normalize(row)
	}
	return out
}

// Headers returns the sorted union of headers across rows.
func Headers(rows []Record) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for k := range seen {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	return headers
}
