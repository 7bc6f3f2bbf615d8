package utils

import (
	"net/url"
	"strings"
)

// CollapseSpace trims s and replaces every run of whitespace with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ASINFromURL returns the product ID that follows /dp/ or /gp/product/ in an
// Amazon product URL, or "" if there is none.
func ASINFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if i+1 >= len(parts) {
			break
		}
		switch part {
		case "dp":
			return parts[i+1]
		case "gp":
			if parts[i+1] == "product" && i+2 < len(parts) {
				return parts[i+2]
			}
		}
	}
	return ""
}
