/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"strings"

	"classvm/vmerr"
)

// decodeModifiedUTF8 decodes the class file format's "modified UTF-8"
// (spec.md §4.1): like CESU-8, it encodes U+0000 as the two-byte sequence
// 0xC0 0x80 instead of a single zero byte, and encodes supplementary-plane
// codepoints as a six-byte surrogate pair of three-byte sequences rather
// than a native four-byte UTF-8 sequence. No library in the retrieval pack
// implements this variant (encoding/utf8 and golang.org/x/text both assume
// standard UTF-8), so this is written by hand against the class file spec,
// grounded on original_source/src/class_parser/mod.rs's string decoding
// and Jacobin's general UTF-8 constant-pool handling.
func decodeModifiedUTF8(b []byte) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(b) {
		b0 := b[i]
		switch {
		case b0&0x80 == 0: // 1-byte: 0xxxxxxx
			sb.WriteByte(b0)
			i++
		case b0&0xE0 == 0xC0: // 2-byte: 110xxxxx 10xxxxxx
			if i+1 >= len(b) {
				return "", vmerr.ClassFormatError("truncated modified UTF-8 sequence")
			}
			b1 := b[i+1]
			cp := (rune(b0&0x1F) << 6) | rune(b1&0x3F)
			sb.WriteRune(cp)
			i += 2
		case b0&0xF0 == 0xE0: // 3-byte: could be a BMP char or half of a surrogate pair
			if i+2 >= len(b) {
				return "", vmerr.ClassFormatError("truncated modified UTF-8 sequence")
			}
			b1, b2 := b[i+1], b[i+2]
			cp := (rune(b0&0x0F) << 12) | (rune(b1&0x3F) << 6) | rune(b2&0x3F)
			if cp >= 0xD800 && cp <= 0xDBFF && i+5 < len(b) && b[i+3] == 0xED {
				// six-byte surrogate pair encoding
				b4, b5 := b[i+4], b[i+5]
				low := (rune(b[i+3]&0x0F) << 12) | (rune(b4&0x3F) << 6) | rune(b5&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					combined := 0x10000 + (cp-0xD800)<<10 + (low - 0xDC00)
					sb.WriteRune(combined)
					i += 6
					continue
				}
			}
			sb.WriteRune(cp)
			i += 3
		default:
			return "", vmerr.ClassFormatError("invalid modified UTF-8 lead byte 0x%02x", b0)
		}
	}
	return sb.String(), nil
}

// encodeModifiedUTF8 is the inverse of decodeModifiedUTF8. Within this
// package it is exercised only by the round-trip test in parse_test.go.
func encodeModifiedUTF8(s string) []byte {
	var out []byte
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r <= 0x7F:
			out = append(out, byte(r))
		case r <= 0x7FF:
			out = append(out, byte(0xC0|r>>6), byte(0x80|r&0x3F))
		case r <= 0xFFFF:
			out = append(out, byte(0xE0|r>>12), byte(0x80|(r>>6)&0x3F), byte(0x80|r&0x3F))
		default:
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			out = append(out, byte(0xE0|hi>>12), byte(0x80|(hi>>6)&0x3F), byte(0x80|hi&0x3F))
			out = append(out, byte(0xE0|lo>>12), byte(0x80|(lo>>6)&0x3F), byte(0x80|lo&0x3F))
		}
	}
	return out
}
