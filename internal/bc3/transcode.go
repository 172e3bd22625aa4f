package bc3

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeBytes converts a raw BC3 file to a UTF-8 string. Modern writers
// emit UTF-8; legacy ones emit Windows-1252 single-byte text, so anything
// that is not valid UTF-8 is transcoded from that code page.
func DecodeBytes(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// EncodeBytes renders BC3 text as Windows-1252 for legacy readers.
// Characters outside the code page degrade to '?'.
func EncodeBytes(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}
