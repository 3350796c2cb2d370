package lexer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
// 1. Strips UTF-8 BOM if present
// 2. Applies Unicode NFC normalization
//
// This ensures that lexically equivalent source code produces identical
// token streams regardless of encoding variations.
//
// Examples:
//   - "café" in NFC vs NFD → identical tokens
//   - "\uFEFFlet x = 5" → "let x = 5" (BOM stripped)
//
// Normalization is performed once at input to avoid repeated processing.
func Normalize(src []byte) []byte {
	// Strip BOM if present
	src = bytes.TrimPrefix(src, bomUTF8)

	// Apply NFC normalization
	// IsNormal() is fast and avoids allocation if already normalized
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}

// FoldIdentifier implements spec.md §4.1's ASCII-folding rule: every
// non-ASCII code point in an identifier is replaced by its upper-hex
// UTF-8 byte sequence (e.g. "é" -> "_C3_A9_"), so that Unicode identifiers
// still have a stable, ASCII-only symbol name at link time. Pure-ASCII
// identifiers are returned unchanged (and unallocated).
func FoldIdentifier(ident string) string {
	hasNonASCII := false
	for _, r := range ident {
		if r > unicode.MaxASCII {
			hasNonASCII = true
			break
		}
	}
	if !hasNonASCII {
		return ident
	}

	var out strings.Builder
	for _, r := range ident {
		if r <= unicode.MaxASCII {
			out.WriteRune(r)
			continue
		}
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, r)
		out.WriteByte('_')
		for _, b := range buf[:n] {
			fmt.Fprintf(&out, "%02X", b)
		}
		out.WriteByte('_')
	}
	return out.String()
}
