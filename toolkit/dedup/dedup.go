// Package dedup finds clusters of duplicate records in CSV data after
// normalizing the compared fields.
package dedup

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Record is one CSV row keyed by header name.
type Record map[string]string

// Cluster is a group of records considered duplicates of each other.
type Cluster struct {
	Key     string
	Records []Record
}

var multiSpaceRe = regexp.MustCompile(`  +`)

// foldDiacritics strips combining marks, so "Café" and "Cafe" compare equal.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a field value the way dedup pipelines expect:
// diacritics folded, whitespace collapsed, quotes trimmed, lower case.
func Normalize(value string) string {
	folded, _, err := transform.String(foldDiacritics, value)
	if err != nil {
		folded = value
	}
	folded = strings.ReplaceAll(folded, "\n", " ")
	folded = multiSpaceRe.ReplaceAllString(folded, " ")
	folded = strings.TrimSpace(folded)
	folded = strings.Trim(folded, `"'`)
	return strings.ToLower(strings.TrimSpace(folded))
}

// ReadRecords parses CSV data into records, first row as header.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// FindClusters groups records whose normalized values in fields coincide, and
// returns only groups with more than one member. Field order is significant
// for the cluster key but not for membership.
func FindClusters(records []Record, fields []string) ([]Cluster, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}
	byKey := make(map[string][]Record)
	order := make([]string, 0)
	for _, rec := range records {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, Normalize(rec[f]))
		}
		key := strings.Join(parts, "\x1f")
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], rec)
	}

	var clusters []Cluster
	for _, key := range order {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		clusters = append(clusters, Cluster{Key: key, Records: group})
	}
	return clusters, nil
}
