package codec

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrInvalid reports a raw string the codec does not accept.
	ErrInvalid = errors.New("codec: invalid value")

	// ErrTypeMismatch reports a value of the wrong Go type passed to Encode.
	ErrTypeMismatch = errors.New("codec: unexpected value type")
)

// Specificity weights used by the built-in codecs. Higher ranks first.
const (
	WeightAny      = 0
	WeightNumber   = 10
	WeightInteger  = 20
	WeightPositive = 30
	WeightEnum     = 40
	WeightUUID     = 50
)

// Codec converts between a URL string and a typed value.
type Codec interface {
	// Decode parses the already unescaped raw text.
	Decode(raw string) (any, error)

	// Encode formats a value previously produced by Decode (or of the same type).
	// The result is escaped by the caller.
	Encode(value any) (string, error)

	// Specificity is the weight used to rank competing path parameters.
	Specificity() int
}

// MultiCodec is implemented by codecs bound to repeated query keys.
// The query decoder hands them every raw value instead of the first one.
type MultiCodec interface {
	Codec
	DecodeAll(raw []string) (any, error)
	EncodeAll(value any) ([]string, error)
}

// Defaulter is implemented by codecs whose default value is left out of the
// query string entirely.
type Defaulter interface {
	IsDefault(value any) bool
}

// typed adapts a pair of typed functions to Codec.
type typed[T any] struct {
	decode    func(string) (T, error)
	encode    func(T) string
	weight    int
	isDefault func(T) bool
}

// New builds a Codec from a typed decode/encode pair.
func New[T any](decode func(string) (T, error), encode func(T) string, weight int) Codec {
	return &typed[T]{decode: decode, encode: encode, weight: weight}
}

// NewWithDefault is like New, but values for which isDefault returns true are
// omitted when a query string is encoded.
func NewWithDefault[T any](decode func(string) (T, error), encode func(T) string, weight int, isDefault func(T) bool) Codec {
	return &typed[T]{decode: decode, encode: encode, weight: weight, isDefault: isDefault}
}

func (c *typed[T]) Decode(raw string) (any, error) {
	v, err := c.decode(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *typed[T]) Encode(value any) (string, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return "", fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, value, zero)
	}
	return c.encode(v), nil
}

func (c *typed[T]) Specificity() int {
	return c.weight
}

func (c *typed[T]) IsDefault(value any) bool {
	if c.isDefault == nil {
		return false
	}
	v, ok := value.(T)
	return ok && c.isDefault(v)
}

// IsDefault reports whether value should be omitted from a query string
// encoded with c. Nil is always omitted.
func IsDefault(c Codec, value any) bool {
	if value == nil {
		return true
	}
	if d, ok := c.(Defaulter); ok {
		return d.IsDefault(value)
	}
	return false
}

// invalid wraps ErrInvalid with the offending text.
func invalid(kind, raw string) error {
	return fmt.Errorf("%w: %q is not a valid %s", ErrInvalid, raw, kind)
}
