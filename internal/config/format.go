package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/maproute/internal/errors"
)

// Format is the encoding of a route table.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.CodeConfigFormat).WithDetail(fmt.Sprintf("cannot tell the format of %q", name))
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(name string, data []byte, c *Config) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return parseError(name, data, err, yamlErrorLine(err), 0)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	if err := doc.Decode(c); err != nil {
		return parseError(name, data, err, yamlErrorLine(err), 0)
	}
	if routes := mappingValue(doc.Content[0], "routes"); routes != nil && routes.Kind == yaml.SequenceNode {
		for i, item := range routes.Content {
			if i < len(c.Routes) {
				c.Routes[i].Line, c.Routes[i].Column = item.Line, item.Column
			}
		}
	}
	return nil
}

// yamlErrorLine extracts the first line number yaml.v3 reports in err.
func yamlErrorLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// mappingValue returns the value node stored under key in a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func decodeJSON(name string, data []byte, c *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		line, col := 0, 0
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syn):
			line, col = position(data, syn.Offset)
		case stderrors.As(err, &typ):
			line, col = position(data, typ.Offset)
		}
		return parseError(name, data, err, line, col)
	}
	routeLines(data, c.Routes)
	return nil
}

// routeLines records, for JSON tables, the line of each route's "id" key.
func routeLines(data []byte, routes []RouteConfig) {
	for i := range routes {
		needle := []byte(strconv.Quote(routes[i].ID))
		off := 0
		for {
			j := bytes.Index(data[off:], []byte(`"id"`))
			if j < 0 {
				break
			}
			k := off + j + len(`"id"`)
			rest := bytes.TrimLeft(data[k:], " \t\r\n:")
			if bytes.HasPrefix(rest, needle) {
				routes[i].Line, routes[i].Column = position(data, int64(off+j))
				break
			}
			off = k
		}
	}
}

// position converts a byte offset to a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset < 0 || offset > int64(len(data)) {
		return 0, 0
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

func parseError(name string, data []byte, err error, line, col int) error {
	e := errors.New(errors.CodeConfigParse).Wrap(err)
	if line > 0 {
		e.WithSource(name, data, line, col)
	} else {
		e.WithDetail(name)
	}
	return e
}
