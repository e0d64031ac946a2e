package querystring

import (
	"net/url"
	"testing"
)

func TestSetStringSkipsEmpty(t *testing.T) {
	v := url.Values{}
	SetString(v, "routing", "")
	SetString(v, "q", "foo")

	if got := Encode(v); got != "?q=foo" {
		t.Errorf("Expected ?q=foo, got %q", got)
	}
}

func TestSetBool(t *testing.T) {
	v := url.Values{}
	SetBool(v, "explain", nil)

	yes := true
	no := false
	SetBool(v, "realtime", &yes)
	SetBool(v, "refresh", &no)

	if v.Get("explain") != "" {
		t.Error("Nil pointer must be skipped")
	}
	if v.Get("realtime") != "true" || v.Get("refresh") != "false" {
		t.Errorf("Unexpected boolean encoding: %v", v)
	}
}

func TestSetInt(t *testing.T) {
	v := url.Values{}
	SetInt(v, "from", nil)

	zero := 0
	SetInt(v, "size", &zero)

	if v.Get("from") != "" {
		t.Error("Nil pointer must be skipped")
	}
	// A present zero is a meaningful value, not an absent one.
	if v.Get("size") != "0" {
		t.Errorf("Expected size=0, got %q", v.Get("size"))
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(url.Values{}); got != "" {
		t.Errorf("Expected empty string for no options, got %q", got)
	}
}

func TestEncodeEscapes(t *testing.T) {
	v := url.Values{}
	SetString(v, "q", "field:value with space")

	if got := Encode(v); got != "?q=field%3Avalue+with+space" {
		t.Errorf("Unexpected encoding %q", got)
	}
}
