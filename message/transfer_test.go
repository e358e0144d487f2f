package message

import "testing"

func TestDecodeBase64Lenient(t *testing.T) {
	got := decodeBase64Lenient([]byte("aGVsbG8="))
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeBase64LenientIgnoresGarbage(t *testing.T) {
	// Newlines and stray whitespace embedded in the stream are ignored.
	got := decodeBase64Lenient([]byte("aGVs\r\nbG8="))
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeBase64LenientMissingPadding(t *testing.T) {
	got := decodeBase64Lenient([]byte("aGVsbG8")) // "hello" without trailing "="
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeQuotedPrintableBasic(t *testing.T) {
	got := decodeQuotedPrintable([]byte("Hello=20World"))
	if string(got) != "Hello World" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeQuotedPrintableSoftLineBreak(t *testing.T) {
	got := decodeQuotedPrintable([]byte("Hello=\r\nWorld"))
	if string(got) != "HelloWorld" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeQuotedPrintableTrailingWhitespaceStripped(t *testing.T) {
	got := decodeQuotedPrintable([]byte("Hello   \r\nWorld"))
	if string(got) != "Hello\r\nWorld" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeQuotedPrintableInvalidEscapePassesThrough(t *testing.T) {
	got := decodeQuotedPrintable([]byte("100%=ZZdone"))
	if string(got) != "100%=ZZdone" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeTransferDispatch(t *testing.T) {
	b, _ := decodeTransfer("BASE64", []byte("aGk="))
	if string(b) != "hi" {
		t.Fatalf("got %q", b)
	}
	q, _ := decodeTransfer("Quoted-Printable", []byte("a=20b"))
	if string(q) != "a b" {
		t.Fatalf("got %q", q)
	}
	identity, _ := decodeTransfer("8bit", []byte("raw"))
	if string(identity) != "raw" {
		t.Fatalf("got %q", identity)
	}
}
