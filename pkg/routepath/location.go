// Package routepath parses and splits the locations the router works on.
//
// A Location is what a browser exposes as location.pathname, .search and
// .hash. Search and Hash keep their leading "?" and "#" so that
// Pathname+Search+Hash always reproduces the original text.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Location parsing errors.
var (
	ErrInvalidPath          = errors.New("routepath: invalid path")
	ErrBackslashInPath      = errors.New("routepath: path contains backslash")
	ErrNullByteInPath       = errors.New("routepath: path contains null byte")
	ErrInvalidPercentEscape = errors.New("routepath: invalid percent escape sequence")
)

// Location is a parsed in-app location.
type Location struct {
	Pathname string
	Search   string
	Hash     string
}

// Parse splits an origin-relative location ("/path?query#hash").
//
// Absolute URLs, protocol-relative URLs ("//host/...") and paths containing
// a backslash, a NUL byte or a malformed percent escape are rejected; they
// usually mean a hostile or broken client.
func Parse(raw string) (Location, error) {
	if raw == "" {
		return Location{Pathname: "/"}, nil
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return Location{}, ErrInvalidPath
	}

	var loc Location
	rest, hash, hasHash := strings.Cut(raw, "#")
	if hasHash {
		loc.Hash = "#" + hash
	}
	pathname, search, hasSearch := strings.Cut(rest, "?")
	if hasSearch {
		loc.Search = "?" + search
	}

	if strings.Contains(pathname, "\\") {
		return Location{}, ErrBackslashInPath
	}
	if strings.Contains(pathname, "\x00") || strings.Contains(strings.ToUpper(pathname), "%00") {
		return Location{}, ErrNullByteInPath
	}
	if err := ValidatePercentEscapes(pathname); err != nil {
		return Location{}, err
	}

	loc.Pathname = pathname
	return loc, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(raw string) Location {
	loc, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// Path returns the pathname and search string, without the hash.
func (l Location) Path() string {
	return l.Pathname + l.Search
}

// String returns the full location.
func (l Location) String() string {
	return l.Pathname + l.Search + l.Hash
}

// Query parses the search string into raw, multi-valued parameters.
// Pairs with malformed escapes are dropped.
func (l Location) Query() url.Values {
	values, _ := url.ParseQuery(strings.TrimPrefix(l.Search, "?"))
	if values == nil {
		values = url.Values{}
	}
	return values
}

// Join builds a location from a pathname, an encoded query (without "?")
// and a hash (with or without "#").
func Join(pathname, query, hash string) string {
	var b strings.Builder
	b.WriteString(pathname)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if hash != "" && hash != "#" {
		if !strings.HasPrefix(hash, "#") {
			b.WriteByte('#')
		}
		b.WriteString(hash)
	}
	return b.String()
}

// TrimTrailingSlash removes trailing slashes, except for the root path.
func TrimTrailingSlash(pathname string) string {
	trimmed := strings.TrimRight(pathname, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// Split returns the raw (still escaped) segments of a pathname after
// trimming trailing slashes. The root path has no segments. Empty segments
// ("/a//b") are kept so they can fail to match.
func Split(pathname string) []string {
	pathname = TrimTrailingSlash(pathname)
	if pathname == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(pathname, "/"), "/")
}

// UnescapeLiteral percent-decodes a segment compared against a literal
// template token.
func UnescapeLiteral(segment string) (string, error) {
	s, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	return s, nil
}

// UnescapeParam percent- and plus-decodes a segment handed to a codec.
func UnescapeParam(segment string) (string, error) {
	s, err := url.QueryUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	return s, nil
}

// EscapeParam escapes an encoded parameter value for use as a segment.
// "+" is escaped too, since UnescapeParam reads it as a space.
func EscapeParam(value string) string {
	return strings.ReplaceAll(url.PathEscape(value), "+", "%2B")
}

// ValidatePercentEscapes checks that every "%" starts a %XX escape.
func ValidatePercentEscapes(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
