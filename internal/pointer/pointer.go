// Package pointer parses and formats RFC 6901 JSON Pointers carried in URI
// fragments.
package pointer

import (
	"net/url"
	"strconv"
	"strings"
)

// Parse splits a URI fragment into JSON Pointer reference tokens.
//
// The fragment is split on "/" first, then each token is percent-decoded
// and unescaped (~1 to "/", then ~0 to "~"). An empty fragment addresses
// the document root and yields no tokens. A single leading "/" is dropped.
func Parse(fragment string) ([]string, error) {
	if fragment == "" {
		return nil, nil
	}
	fragment = strings.TrimPrefix(fragment, "/")
	parts := strings.Split(fragment, "/")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, Unescape(decoded))
	}
	return tokens, nil
}

// Unescape unescapes a single JSON Pointer token.
// Per RFC 6901, ~1 represents / and ~0 represents ~, applied in that order.
func Unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// Escape escapes a single JSON Pointer token.
func Escape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// Format renders tokens as a JSON Pointer string. No tokens renders as "".
func Format(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteByte('/')
		sb.WriteString(Escape(t))
	}
	return sb.String()
}

// Index parses a sequence index token. Only non-negative base-10 integers
// without sign or leading zeros are accepted.
func Index(token string) (int, bool) {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}
