package elastictiny

import "encoding/base64"

// BasicAuth encodes a username/password pair into an HTTP Basic
// Authorization header value. It is a pure function: empty inputs yield a
// syntactically valid (if semantically empty) credential.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
