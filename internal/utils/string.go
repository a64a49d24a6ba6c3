package utils

import (
	"strings"
)

// SplitKeywords splits a comma separated keyword list, trimming each entry
// and dropping empty ones. Order is preserved and duplicates are kept.
func SplitKeywords(query string) []string {
	keywords := make([]string, 0)
	for _, keyword := range strings.Split(query, ",") {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}
