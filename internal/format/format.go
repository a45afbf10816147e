// Package format supplies the content-side collaborators of the editor:
// encoding detection, JSON detection, and JSON pretty-printing. The core
// consumes only this package's outputs — a formatted string on success, or
// a byte offset into the raw input on failure, which the position mapper
// turns into a line/column for display.
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxFormatBytes bounds the synchronous cost of formatting; larger inputs
// are refused rather than formatted.
const MaxFormatBytes = 2 << 20

// ErrTooLarge is returned for inputs beyond MaxFormatBytes.
var ErrTooLarge = errors.New("format: content too large")

// Result carries a formatting outcome across the collaborator boundary.
// ErrOffset is a byte offset into the raw input when formatting failed at a
// known position, -1 otherwise.
type Result struct {
	Output    string
	ErrOffset int
}

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// DecodeText converts raw file content to UTF-8, honoring a UTF-8 or
// UTF-16 byte order mark.
func DecodeText(content []byte) (string, error) {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return string(content[len(bomUTF8):]), nil
	case bytes.HasPrefix(content, bomUTF16LE), bytes.HasPrefix(content, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, content)
		if err != nil {
			return "", fmt.Errorf("format: decode utf-16: %w", err)
		}
		return string(out), nil
	default:
		return string(content), nil
	}
}

// LooksLikeJSON reports whether the text is well-formed JSON. A cheap
// first-byte check gates the full validity scan.
func LooksLikeJSON(text string) bool {
	trimmed := bytes.TrimLeft([]byte(text), " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}
	if first := trimmed[0]; first != '{' && first != '[' {
		return false
	}
	return gjson.Valid(text)
}

// JSON pretty-prints the source. On invalid input the result carries the
// byte offset of the syntax error so the caller can map it to a position
// in the raw buffer.
func JSON(src string) (Result, error) {
	if len(src) > MaxFormatBytes {
		return Result{ErrOffset: -1}, ErrTooLarge
	}

	if err := validateJSON(src); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			off := int(syntax.Offset)
			if off > 0 {
				off-- // Offset counts bytes read, one past the bad byte
			}
			if off > len(src) {
				off = len(src)
			}
			return Result{ErrOffset: off}, err
		}
		return Result{ErrOffset: -1}, err
	}

	out := pretty.PrettyOptions([]byte(src), &pretty.Options{Indent: "  "})
	return Result{Output: string(out), ErrOffset: -1}, nil
}

// validateJSON parses src just to surface the error position.
func validateJSON(src string) error {
	var v any
	return json.Unmarshal([]byte(src), &v)
}
