package message

// Config holds the recognized parser options (see spec section 6). The zero
// value is not a valid Config; use DefaultConfig.
type Config struct {
	// MaxDepth bounds MIME nesting. Parts deeper than this are emitted as
	// opaque application/octet-stream attachments rather than walked further.
	MaxDepth int

	// DecodeEncodedWordsInComments controls whether RFC 2047 encoded-words
	// found inside header comments are decoded.
	DecodeEncodedWordsInComments bool

	// HTMLToTextInline controls whether BodyText/BodyHTML synthesize the
	// missing side of a text/html pair by converting the side that is present.
	HTMLToTextInline bool

	// TolerateEightBitHeaders allows raw 8-bit bytes in header values (RFC
	// 6532) instead of treating them as a decode failure.
	TolerateEightBitHeaders bool

	// LazyNestedMessages defers parsing message/rfc822 and message/global
	// children until first accessed.
	LazyNestedMessages bool
}

// DefaultConfig returns the parser's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:                     16,
		DecodeEncodedWordsInComments: true,
		HTMLToTextInline:             true,
		TolerateEightBitHeaders:      true,
		LazyNestedMessages:           true,
	}
}
