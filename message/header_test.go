package message

import "testing"

func TestParseHeaderFieldDispatch(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()

	v := ParseHeaderField(reg, cfg, "From", "John Doe <jdoe@example.com>")
	if v.Kind != KindAddress || len(v.Address.Addresses) != 1 {
		t.Fatalf("got %+v", v)
	}

	v = ParseHeaderField(reg, cfg, "Content-Type", "text/plain; charset=utf-8")
	if v.Kind != KindContentType || v.ContentType.Subtype != "plain" {
		t.Fatalf("got %+v", v)
	}

	v = ParseHeaderField(reg, cfg, "Content-Disposition", "attachment; filename=a.gif")
	if v.Kind != KindDisposition || v.Disposition.Disposition != "attachment" {
		t.Fatalf("got %+v", v)
	}

	v = ParseHeaderField(reg, cfg, "Date", "21 Nov 1997 09:55:06 -0600")
	if v.Kind != KindDateTime || !v.DateOK {
		t.Fatalf("got %+v", v)
	}

	v = ParseHeaderField(reg, cfg, "Subject", "hello")
	if v.Kind != KindText || v.Text != "hello" {
		t.Fatalf("got %+v", v)
	}

	v = ParseHeaderField(reg, cfg, "X-Unknown-Header", "whatever")
	if v.Kind != KindText || v.Text != "whatever" {
		t.Fatalf("got %+v", v)
	}
}

func TestParseHeaderFieldMalformedDateFallsBackToRaw(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	v := ParseHeaderField(reg, cfg, "Date", "not a date at all")
	if v.Kind != KindRaw {
		t.Fatalf("got %+v", v)
	}
	if string(v.Raw) != "not a date at all" {
		t.Fatalf("raw = %q", v.Raw)
	}
}

func TestParseHeaderFieldEmptyContentTypeFallsBackToRaw(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	v := ParseHeaderField(reg, cfg, "Content-Type", "   ")
	if v.Kind != KindRaw {
		t.Fatalf("got %+v", v)
	}
}

func TestHeaderFirstAndAll(t *testing.T) {
	h := Header{Fields: []Field{
		{Name: "Received", Value: HeaderValue{Kind: KindText, Text: "1"}},
		{Name: "X-Other", Value: HeaderValue{Kind: KindText, Text: "x"}},
		{Name: "received", Value: HeaderValue{Kind: KindText, Text: "2"}},
	}}
	f := h.First("RECEIVED")
	if f == nil || f.Value.Text != "1" {
		t.Fatalf("First = %+v", f)
	}
	all := h.All("Received")
	if len(all) != 2 || all[0].Value.Text != "1" || all[1].Value.Text != "2" {
		t.Fatalf("All = %+v", all)
	}
	if h.First("Missing") != nil {
		t.Fatal("expected nil for missing header")
	}
}

func TestParseMessageIds(t *testing.T) {
	ids := parseMessageIds("<a@b>  <c@d>")
	if len(ids) != 2 || ids[0] != "<a@b>" || ids[1] != "<c@d>" {
		t.Fatalf("got %v", ids)
	}
}

func TestParseMessageIdsBareFallback(t *testing.T) {
	ids := parseMessageIds("a@b c@d")
	if len(ids) != 2 || ids[0] != "a@b" || ids[1] != "c@d" {
		t.Fatalf("got %v", ids)
	}
}

func TestCollapseWS(t *testing.T) {
	got := collapseWS("  a   b\t\tc  ")
	if got != "a b c" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeUnstructuredTextToleratesEightBitByDefault(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	v := ParseHeaderField(reg, cfg, "Subject", "café")
	if v.Kind != KindText || v.Text != "café" {
		t.Fatalf("got %+v", v)
	}
}

func TestDecodeUnstructuredTextSanitizesEightBitWhenIntolerant(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	cfg.TolerateEightBitHeaders = false
	v := ParseHeaderField(reg, cfg, "Subject", "café")
	if v.Kind != KindText || v.Text != "caf�" {
		t.Fatalf("got %+v", v)
	}
}

func TestParseReceivedSplitsAtTrailingDate(t *testing.T) {
	reg := NewCharsetRegistry(nil)
	cfg := DefaultConfig()
	v := ParseHeaderField(reg, cfg, "Received",
		"from a.example by b.example with SMTP id 123; 21 Nov 1997 09:55:06 -0600")
	if v.Kind != KindReceived {
		t.Fatalf("got %+v", v)
	}
	if !v.Received.DateOK || v.Received.DateTime.Year != 1997 {
		t.Fatalf("got %+v", v.Received)
	}
	if len(v.Received.Tokens) == 0 || v.Received.Tokens[0] != "from" {
		t.Fatalf("got %v", v.Received.Tokens)
	}
}
