package object

import (
	"bytes"
	"fmt"
)

// KVLM is a key-value list with message: the header block of commit and tag
// objects. Headers are an ordered multimap — duplicate keys are legal (e.g.
// several "parent" lines) and insertion order is preserved, so serialization
// is byte-exact.
type KVLM struct {
	Headers []KVPair
	Message []byte
}

// KVPair is a single header line. Value may contain newlines; they are
// rendered as continuation lines on serialization.
type KVPair struct {
	Key   string
	Value string
}

// NewKVLM returns an empty KVLM.
func NewKVLM() *KVLM {
	return &KVLM{}
}

// Add appends a header, preserving duplicates.
func (kv *KVLM) Add(key, value string) {
	kv.Headers = append(kv.Headers, KVPair{Key: key, Value: value})
}

// Get returns the first value for key.
func (kv *KVLM) Get(key string) (string, bool) {
	for _, p := range kv.Headers {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Values returns every value for key, in insertion order.
func (kv *KVLM) Values(key string) []string {
	var out []string
	for _, p := range kv.Headers {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// ParseKVLM parses the commit/tag header grammar:
//
//   - "key SP value" starts a header; lines beginning with a single space
//     continue the current value (the space is stripped, a newline joins),
//   - a blank line ends the headers; everything after it is the message,
//     taken byte for byte.
func ParseKVLM(raw []byte) (*KVLM, error) {
	kv := NewKVLM()
	pos := 0

	for pos < len(raw) {
		spc := bytes.IndexByte(raw[pos:], ' ')
		nl := bytes.IndexByte(raw[pos:], '\n')

		// Blank line (or a line with no space before its newline) ends the
		// header block.
		if nl >= 0 && (spc < 0 || spc > nl) {
			if nl != 0 {
				return nil, fmt.Errorf("%w: expected blank line at header/message boundary", ErrMalformed)
			}
			kv.Message = append([]byte(nil), raw[pos+1:]...)
			return kv, nil
		}
		if spc < 0 || nl < 0 {
			return nil, fmt.Errorf("%w: header line missing space or newline", ErrMalformed)
		}

		key := string(raw[pos : pos+spc])

		// The value runs to the first newline not followed by a space.
		end := pos + nl
		for end+1 < len(raw) && raw[end+1] == ' ' {
			next := bytes.IndexByte(raw[end+1:], '\n')
			if next < 0 {
				return nil, fmt.Errorf("%w: unterminated continuation line", ErrMalformed)
			}
			end = end + 1 + next
		}

		value := bytes.ReplaceAll(raw[pos+spc+1:end], []byte("\n "), []byte("\n"))
		kv.Add(key, string(value))

		pos = end + 1
	}

	return kv, nil
}

// Serialize renders the KVLM to canonical bytes: each header as
// "key SP value" with newlines in the value turned into continuation lines,
// then a blank line, then the message verbatim.
func (kv *KVLM) Serialize() []byte {
	var buf bytes.Buffer
	for _, p := range kv.Headers {
		buf.WriteString(p.Key)
		buf.WriteByte(' ')
		buf.WriteString(string(bytes.ReplaceAll([]byte(p.Value), []byte("\n"), []byte("\n "))))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(kv.Message)
	return buf.Bytes()
}
