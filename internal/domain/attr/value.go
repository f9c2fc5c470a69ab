// Where: internal/domain/attr/value.go
// What: Tagged union of values accepted by the attribute codec.
// Why: Make every encodable kind explicit so unsupported inputs fail at the type level.
package attr

import (
	"math"
	"regexp"
	"strconv"
)

// Value is one of String, Bool, Number, Map or List.
type Value interface {
	isValue()
}

type String string

type Bool bool

// Number holds the decimal text of a numeric value.
type Number struct {
	text string
	bad  bool
}

type Map map[string]Value

type List []Value

func (String) isValue() {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (Map) isValue()    {}
func (List) isValue()   {}

// Int returns a Number rendered as base-10 integer text.
func Int(v int64) Number {
	return Number{text: strconv.FormatInt(v, 10)}
}

// Float returns a Number rendered as the shortest round-trip decimal.
// NaN and infinities are rejected when encoded.
func Float(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{text: strconv.FormatFloat(v, 'g', -1, 64), bad: true}
	}
	return Number{text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// decimalText is the JSON number grammar: no NaN, infinities, hex or leading plus.
var decimalText = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// NumberText wraps decimal text that is already canonical, such as a json.Number.
func NumberText(text string) Number {
	if !decimalText.MatchString(text) {
		return Number{text: text, bad: true}
	}
	return Number{text: text}
}

// Text returns the decimal text.
func (n Number) Text() string {
	return n.text
}
