// Package search builds the list filters behind the admin search boxes.
package search

import "strings"

// Filter is a case-insensitive "contains" match ready for ILIKE.
type Filter struct {
	Term    string
	Pattern string
}

// ProductFilter matches product names. Blank input means no filter.
func ProductFilter(q string) *Filter {
	return contains(q)
}

// OrderFilter matches order numbers or customer emails. Blank input means no filter.
func OrderFilter(q string) *Filter {
	return contains(q)
}

func contains(q string) *Filter {
	term := strings.TrimSpace(q)
	if term == "" {
		return nil
	}
	return &Filter{Term: term, Pattern: "%" + Escape(term) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Escape quotes LIKE wildcards so the input matches literally.
func Escape(s string) string {
	return likeEscaper.Replace(s)
}
