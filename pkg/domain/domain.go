package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrNoHost    = errors.New("url has no host")
	ErrBadScheme = errors.New("invalid url scheme")
)

// GetProtocol returns the lowercased scheme of u, or "" when u has none.
// Only the scheme is inspected, so hrefs with a malformed path or query
// still report their protocol.
func GetProtocol(u string) (string, error) {
	scheme, _, ok := strings.Cut(strings.TrimSpace(u), ":")
	if !ok || scheme == "" {
		return "", nil
	}
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			if i == 0 {
				return "", nil
			}
			return "", fmt.Errorf("%w: %q", ErrBadScheme, scheme)
		}
	}
	return strings.ToLower(scheme), nil
}

// GetDomain returns the lowercased host of a given URL without port and
// without a leading "www.". Bare domains like "example.com" are accepted.
func GetDomain(u string) (string, error) {
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	parsedUrl, err := url.Parse(u)
	if err != nil {
		return "", errors.New("error parsing URL")
	}

	hostname := strings.ToLower(parsedUrl.Hostname())
	if hostname == "" {
		return "", ErrNoHost
	}
	return strings.TrimPrefix(hostname, "www."), nil
}

func IsSameDomain(domain string, u string) bool {
	d, err := GetDomain(u)
	return err == nil && strings.TrimPrefix(strings.ToLower(domain), "www.") == d
}

// IsHTTPURL reports whether u starts with an http:// or https:// scheme.
func IsHTTPURL(u string) bool {
	protocol, err := GetProtocol(u)
	if err != nil || (protocol != "http" && protocol != "https") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(u)[len(protocol)+1:], "//")
}

// IsExternal reports whether href points away from the reference domain.
// Only absolute http(s) URLs can be external; relative, protocol-relative and
// non-http schemes are treated as belonging to the page. An http(s) URL whose
// host cannot be parsed is external since it cannot be matched to the domain.
func IsExternal(reference, href string) bool {
	if !IsHTTPURL(href) {
		return false
	}
	return !IsSameDomain(reference, href)
}
