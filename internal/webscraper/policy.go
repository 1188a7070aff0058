package webscraper

import "strings"

// LinkPolicy reports whether a URL should be validated.
type LinkPolicy func(url string) bool

var navigableExcludedPrefixes = []string{"#", "javascript:", "mailto:", "tel:"}

// strictExcludedPrefixes is matched against the lowercased resolved URL.
var strictExcludedPrefixes = []string{"javascript:", "data:", "vbscript:"}

// Navigable is the general filter applied to raw hrefs: it drops blank
// values, the site root and in-page or action schemes. Prefixes are matched
// case-sensitively.
func Navigable(u string) bool {
	if strings.TrimSpace(u) == "" || u == "/" {
		return false
	}
	for _, prefix := range navigableExcludedPrefixes {
		if strings.HasPrefix(u, prefix) {
			return false
		}
	}
	return true
}

// StrictInternal is applied to resolved internal URLs. It drops anything
// carrying a fragment and the script-capable schemes, case-insensitively.
// mailto: and tel: are not excluded here.
func StrictInternal(u string) bool {
	lower := strings.ToLower(u)
	if strings.Contains(lower, "#") {
		return false
	}
	for _, prefix := range strictExcludedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}

// Filter keeps the URLs allowed by policy, preserving order and duplicates.
func Filter(urls []string, policy LinkPolicy) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if policy(u) {
			out = append(out, u)
		}
	}
	return out
}

func FilterNavigableLinks(urls []string) []string {
	return Filter(urls, Navigable)
}
