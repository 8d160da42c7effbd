package codec

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// String accepts any text. The empty string is its default.
var String = NewWithDefault(
	func(s string) (string, error) { return s, nil },
	func(s string) string { return s },
	WeightAny,
	func(s string) bool { return s == "" },
)

// Int accepts signed decimal integers.
var Int = New(
	func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, invalid("integer", s)
		}
		return n, nil
	},
	strconv.Itoa,
	WeightInteger,
)

// PositiveInt accepts decimal integers greater than zero, such as element
// and changeset ids.
var PositiveInt = New(
	func(s string) (int, error) {
		if s == "" || s[0] == '+' || s[0] == '-' {
			return 0, invalid("positive integer", s)
		}
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, invalid("positive integer", s)
		}
		return n, nil
	},
	strconv.Itoa,
	WeightPositive,
)

// Float accepts finite decimal numbers.
var Float = New(
	func(s string) (float64, error) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, invalid("number", s)
		}
		return f, nil
	},
	func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
	WeightNumber,
)

// Flag is a boolean switch. A bare key (?local) and the usual truthy words
// decode to true; false is the default and never written to the URL.
var Flag = NewWithDefault(
	func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "", "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return false, invalid("flag", s)
	},
	func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	},
	WeightAny,
	func(b bool) bool { return !b },
)

// UUID accepts RFC 4122 UUIDs and decodes them to uuid.UUID.
var UUID = New(
	func(s string) (uuid.UUID, error) {
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, invalid("uuid", s)
		}
		return id, nil
	},
	uuid.UUID.String,
	WeightUUID,
)

// Enum accepts exactly one of the given words.
func Enum(values ...string) Codec {
	allowed := slices.Clone(values)
	return New(
		func(s string) (string, error) {
			if !slices.Contains(allowed, s) {
				return "", fmt.Errorf("%w: %q is not one of %s", ErrInvalid, s, strings.Join(allowed, "|"))
			}
			return s, nil
		},
		func(s string) string { return s },
		WeightEnum,
	)
}

// Strings is bound to repeated query keys (?tag=a&tag=b) and decodes them to
// a []string. An empty slice is the default.
var Strings MultiCodec = stringsCodec{}

type stringsCodec struct{}

func (stringsCodec) Decode(raw string) (any, error) {
	return []string{raw}, nil
}

func (stringsCodec) DecodeAll(raw []string) (any, error) {
	return slices.Clone(raw), nil
}

func (c stringsCodec) Encode(value any) (string, error) {
	all, err := c.EncodeAll(value)
	if err != nil {
		return "", err
	}
	return strings.Join(all, ","), nil
}

func (stringsCodec) EncodeAll(value any) ([]string, error) {
	v, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("%w: got %T, want []string", ErrTypeMismatch, value)
	}
	return slices.Clone(v), nil
}

func (stringsCodec) Specificity() int {
	return WeightAny
}

func (stringsCodec) IsDefault(value any) bool {
	v, ok := value.([]string)
	return ok && len(v) == 0
}
