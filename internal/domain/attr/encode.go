// Where: internal/domain/attr/encode.go
// What: Encoding of Values into typed attributes and the reverse decode.
// Why: Application records are stored through the DynamoDB typed attribute format.
package attr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrUnsupportedKind = errors.New("unsupported attribute kind")

// Encode maps a Value to its typed attribute.
func Encode(v Value) (Attribute, error) {
	return encodeAt("", v)
}

// EncodeRecord encodes every field of a record.
func EncodeRecord(record map[string]Value) (map[string]Attribute, error) {
	out := make(map[string]Attribute, len(record))
	for _, key := range sortedKeys(record) {
		encoded, err := encodeAt(key, record[key])
		if err != nil {
			return nil, err
		}
		out[key] = encoded
	}
	return out, nil
}

func encodeAt(path string, v Value) (Attribute, error) {
	switch val := v.(type) {
	case String:
		return Attribute{Tag: TagS, S: string(val)}, nil
	case Bool:
		return Attribute{Tag: TagBOOL, BOOL: bool(val)}, nil
	case Number:
		if val.bad || val.text == "" {
			return Attribute{}, fmt.Errorf("%w at %s: invalid number %q", ErrUnsupportedKind, displayPath(path), val.text)
		}
		return Attribute{Tag: TagN, N: val.text}, nil
	case Map:
		fields := make(map[string]Attribute, len(val))
		for _, key := range sortedKeys(val) {
			encoded, err := encodeAt(joinPath(path, key), val[key])
			if err != nil {
				return Attribute{}, err
			}
			fields[key] = encoded
		}
		return Attribute{Tag: TagM, M: fields}, nil
	case List:
		items := make([]Attribute, 0, len(val))
		for i, item := range val {
			encoded, err := encodeAt(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return Attribute{}, err
			}
			items = append(items, encoded)
		}
		return Attribute{Tag: TagL, L: items}, nil
	default:
		return Attribute{}, fmt.Errorf("%w at %s: %T", ErrUnsupportedKind, displayPath(path), v)
	}
}

// Decode maps a typed attribute back to a Value.
func Decode(a Attribute) (Value, error) {
	switch a.Tag {
	case TagS:
		return String(a.S), nil
	case TagBOOL:
		return Bool(a.BOOL), nil
	case TagN:
		n := NumberText(a.N)
		if n.bad {
			return nil, fmt.Errorf("%w: invalid number %q", ErrUnsupportedKind, a.N)
		}
		return n, nil
	case TagM:
		out := make(Map, len(a.M))
		for key, field := range a.M {
			decoded, err := Decode(field)
			if err != nil {
				return nil, err
			}
			out[key] = decoded
		}
		return out, nil
	case TagL:
		out := make(List, 0, len(a.L))
		for _, item := range a.L {
			decoded, err := Decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, decoded)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: tag %q", ErrUnsupportedKind, a.Tag)
	}
}

// FromAny converts decoded JSON or YAML data into a Value.
// Numbers should be decoded with json.Decoder.UseNumber to keep their text.
func FromAny(v any) (Value, error) {
	return fromAnyAt("", v)
}

func fromAnyAt(path string, v any) (Value, error) {
	switch val := v.(type) {
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		return NumberText(val.String()), nil
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint32:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case map[string]any:
		out := make(Map, len(val))
		for key, field := range val {
			converted, err := fromAnyAt(joinPath(path, key), field)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make(List, 0, len(val))
		for i, item := range val {
			converted, err := fromAnyAt(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w at %s: null", ErrUnsupportedKind, displayPath(path))
	default:
		return nil, fmt.Errorf("%w at %s: %T", ErrUnsupportedKind, displayPath(path), v)
	}
}

// ToAny converts a Value into plain Go data suitable for json.Marshal.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Bool:
		return bool(val)
	case Number:
		return json.Number(val.text)
	case Map:
		out := make(map[string]any, len(val))
		for key, field := range val {
			out[key] = ToAny(field)
		}
		return out
	case List:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, ToAny(item))
		}
		return out
	default:
		return nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
