package analyzer

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeOrigin reduces raw user input to a canonical scheme://host[:port]
// origin. The host is lowercased; path, query, and fragment are discarded;
// an explicit port is kept as given. Inputs without a scheme or host fail
// with ErrInvalidURL. No network access happens here.
func NormalizeOrigin(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute url", ErrInvalidURL, trimmed)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, trimmed)
	}
	return fmt.Sprintf("%s://%s", u.Scheme, strings.ToLower(u.Host)), nil
}
