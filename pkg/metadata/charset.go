package metadata

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charsets accepted by Decode.
const (
	CharsetAuto        = "auto"
	CharsetUTF8        = "utf-8"
	CharsetUTF16LE     = "utf-16le"
	CharsetUTF16BE     = "utf-16be"
	CharsetLatin1      = "iso-8859-1"
	CharsetWindows1252 = "windows-1252"
)

var charsetAliases = map[string]string{
	"":       CharsetAuto,
	"utf8":   CharsetUTF8,
	"utf16":  CharsetUTF16LE,
	"latin1": CharsetLatin1,
	"cp1252": CharsetWindows1252,
}

// Decode converts raw description bytes to a string.
//
// With CharsetAuto, a UTF-16 byte order mark selects UTF-16, valid UTF-8 is
// used as is, and anything else is read as Windows-1252. Invalid UTF-8 under
// CharsetUTF8 is replaced by ReplacementChar, which is what
// ExtractFieldTolerant expects for a broken micron sign.
func Decode(b []byte, charset string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}

	var enc encoding.Encoding
	switch name {
	case CharsetAuto:
		switch {
		case bytes.HasPrefix(b, []byte{0xFF, 0xFE}), bytes.HasPrefix(b, []byte{0xFE, 0xFF}):
			enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
		case utf8.Valid(b):
			return string(b), nil
		default:
			enc = charmap.Windows1252
		}
	case CharsetUTF8:
		return strings.ToValidUTF8(string(b), string(ReplacementChar)), nil
	case CharsetUTF16LE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case CharsetUTF16BE:
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case CharsetLatin1:
		enc = charmap.ISO8859_1
	case CharsetWindows1252:
		enc = charmap.Windows1252
	default:
		return "", fmt.Errorf("unsupported charset %q", charset)
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", name, err)
	}
	return string(out), nil
}
