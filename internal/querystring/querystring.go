// Package querystring serializes the recognized, present options of an
// operation into a query string. Each operation passes only the values on
// its own allow-list; absent values (empty strings, nil pointers) are
// skipped.
package querystring

import (
	"net/url"
	"strconv"
)

// SetString adds a string option when it is non-empty.
func SetString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// SetBool adds a boolean option when it is present.
func SetBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}

// SetInt adds an integer option when it is present.
func SetInt(v url.Values, key string, value *int) {
	if value != nil {
		v.Set(key, strconv.Itoa(*value))
	}
}

// Encode renders the collected options as a "?"-prefixed query string, or
// an empty string when no option was present.
func Encode(v url.Values) string {
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
