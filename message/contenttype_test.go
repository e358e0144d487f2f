package message

import (
	"reflect"
	"testing"
)

func TestParseContentTypeBasic(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	got := ParseContentType(reg, `text/plain; charset=UTF-8`)
	if got.Type != "text" || got.Subtype != "plain" {
		t.Fatalf("got %+v", got)
	}
	if got.Params["charset"] != "UTF-8" {
		t.Fatalf("params = %+v", got.Params)
	}
}

func TestParseContentTypeQuotedParam(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	got := ParseContentType(reg, `multipart/mixed; boundary="simple boundary"`)
	if got.Params["boundary"] != "simple boundary" {
		t.Fatalf("got %+v", got.Params)
	}
}

func TestParseContentTypeMissingSubtype(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	got := ParseContentType(reg, "text")
	if got.Type != "text" || got.Subtype != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseContentTypeRFC2231Continuation(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	s := `application/octet-stream; name*0="Book about coffee "; name*1="tables.gif"`
	got := ParseContentType(reg, s)
	if got.Params["name"] != "Book about coffee tables.gif" {
		t.Fatalf("got %q", got.Params["name"])
	}
}

func TestParseContentTypeRFC2231CharsetExtendedValue(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	// name*=utf-8''%e2%98%95 -> "☕" (U+2615 hot beverage), UTF-8 encoded.
	s := `application/octet-stream; name*=utf-8''%e2%98%95`
	got := ParseContentType(reg, s)
	if got.Params["name"] != "☕" {
		t.Fatalf("got %q", got.Params["name"])
	}
}

func TestParseContentTypeRFC2231ContinuationWithCharsetOnFirstSegment(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	s := `application/octet-stream; name*0*=utf-8''Book%20about%20%e2%98%95%20; name*1="tables.gif"`
	got := ParseContentType(reg, s)
	if got.Params["name"] != "Book about ☕ tables.gif" {
		t.Fatalf("got %q", got.Params["name"])
	}
}

func TestParseContentDisposition(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	got := ParseContentDisposition(reg, `attachment; filename="book.gif"`)
	if got.Disposition != "attachment" {
		t.Fatalf("got %+v", got)
	}
	if got.Params["filename"] != "book.gif" {
		t.Fatalf("got %+v", got.Params)
	}
}

func TestParseParamsDuplicateIndexFirstWins(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	got := parseParams(reg, `; name="first"; name="second"`)
	want := map[string]string{"name": "first"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSplitParamName(t *testing.T) {
	cases := []struct {
		in          string
		name        string
		idx         int
		starred     bool
	}{
		{"name", "name", -1, false},
		{"name*0", "name", 0, false},
		{"name*", "name", -1, true},
		{"name*0*", "name", 0, true},
	}
	for _, c := range cases {
		name, idx, starred := splitParamName(c.in)
		if name != c.name || idx != c.idx || starred != c.starred {
			t.Errorf("splitParamName(%q) = (%q,%d,%v), want (%q,%d,%v)",
				c.in, name, idx, starred, c.name, c.idx, c.starred)
		}
	}
}
