// Where: internal/domain/attr/attribute.go
// What: DynamoDB typed attribute representation and its JSON wire form.
// Why: Keep the put-item wire format exact (S, BOOL, N, M, L) and deterministic.
package attr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Tag names the DynamoDB attribute type.
type Tag string

const (
	TagS    Tag = "S"
	TagBOOL Tag = "BOOL"
	TagN    Tag = "N"
	TagM    Tag = "M"
	TagL    Tag = "L"
)

// Attribute is a single typed attribute. Only the field matching Tag is meaningful.
type Attribute struct {
	Tag  Tag
	S    string
	BOOL bool
	N    string
	M    map[string]Attribute
	L    []Attribute
}

var errMalformedAttribute = errors.New("malformed attribute")

func (a Attribute) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a Attribute) writeJSON(buf *bytes.Buffer) error {
	buf.WriteString(`{"`)
	buf.WriteString(string(a.Tag))
	buf.WriteString(`":`)
	switch a.Tag {
	case TagS:
		writeString(buf, a.S)
	case TagN:
		writeString(buf, a.N)
	case TagBOOL:
		if a.BOOL {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case TagM:
		if err := writeFields(buf, a.M); err != nil {
			return err
		}
	case TagL:
		buf.WriteByte('[')
		for i, item := range a.L {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("%w: unknown tag %q", errMalformedAttribute, a.Tag)
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("%w: expected exactly one type tag, got %d", errMalformedAttribute, len(raw))
	}
	for tag, body := range raw {
		out := Attribute{Tag: Tag(tag)}
		var err error
		switch out.Tag {
		case TagS:
			err = json.Unmarshal(body, &out.S)
		case TagN:
			err = json.Unmarshal(body, &out.N)
		case TagBOOL:
			err = json.Unmarshal(body, &out.BOOL)
		case TagM:
			out.M = map[string]Attribute{}
			err = json.Unmarshal(body, &out.M)
		case TagL:
			out.L = []Attribute{}
			err = json.Unmarshal(body, &out.L)
		default:
			err = fmt.Errorf("%w: unknown tag %q", errMalformedAttribute, tag)
		}
		if err != nil {
			return err
		}
		*a = out
	}
	return nil
}

// MarshalRecord renders an encoded record as a JSON object with sorted keys.
func MarshalRecord(record map[string]Attribute) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeFields(&buf, record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFields(buf *bytes.Buffer, fields map[string]Attribute) error {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, key)
		buf.WriteByte(':')
		if err := fields[key].writeJSON(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
