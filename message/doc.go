// Package message parses RFC 5322 / MIME email messages from a raw byte
// buffer into a structured, human-friendly representation: a flat tree of
// parts with decoded headers, decoded body bytes, and a flattened view of
// text bodies, HTML bodies and attachments per RFC 8621 section 4.1.4.
//
// Parsing never fails: malformed input degrades in place (a header becomes
// Raw, a bad charset falls back to Latin-1, an unterminated multipart closes
// at EOF) rather than aborting the parse. See Config for the handful of
// tunables the parser recognizes.
package message

import "github.com/stalwartlabs/mail-parser/internal/mlog"

var log = mlog.New("message", nil)
