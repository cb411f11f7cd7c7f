// Package canonical provides the deterministic encoding used as the exact byte
// input for hashing and signing blockchain values.
//
// The encoding is JSON with object keys sorted by code point, ", " between
// elements, ": " between a key and its value, integers written as plain digits
// and every character outside printable ASCII escaped as \uXXXX (surrogate
// pairs above the BMP). Every node must produce the same bytes for the same
// value or hashes and signatures won't verify.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"
)

// Marshal returns the canonical encoding of the value. The value is first
// marshaled with encoding/json so struct tags decide the field names, then it
// is re-encoded with the canonical layout.
func Marshal(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// =============================================================================

func encode(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")

	case bool:
		if val {
			buf.WriteString("true")
			return nil
		}
		buf.WriteString("false")

	case json.Number:
		buf.WriteString(val.String())

	case string:
		quote(buf, val)

	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		// Byte order of UTF-8 strings is code point order.
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			quote(buf, k)
			buf.WriteString(": ")
			if err := encode(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	default:
		return fmt.Errorf("unsupported value type %T", v)
	}

	return nil
}

// quote writes the string as a JSON string literal with ASCII-only output.
func quote(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	escape := func(r rune) {
		buf.WriteString(`\u`)
		buf.WriteByte(hex[(r>>12)&0xf])
		buf.WriteByte(hex[(r>>8)&0xf])
		buf.WriteByte(hex[(r>>4)&0xf])
		buf.WriteByte(hex[r&0xf])
	}

	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				escape(r1)
				escape(r2)
			default:
				escape(r)
			}
		}
	}
	buf.WriteByte('"')
}
