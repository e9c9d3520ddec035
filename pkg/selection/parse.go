package selection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned when a selection document is valid but its root
// is not an object.
var ErrNotObject = errors.New("selection must be an object")

// SyntaxError describes malformed JSON input with a 1-based position.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// ParseJSON parses a JSON object, keeping the key order of every nested object.
func ParseJSON(data []byte) (*Object, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// ParseValue parses any JSON value into the selection value universe.
func ParseValue(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, jsonSyntaxError(data)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		o := New()
		r.ForEach(func(key, value gjson.Result) bool {
			o.Set(key.String(), fromResult(value))
			return true
		})
		return o
	case r.IsArray():
		items := r.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromResult(item)
		}
		return out
	}
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return r.Float()
	case gjson.String:
		return r.String()
	default:
		return nil
	}
}

// jsonSyntaxError locates the first syntax error using the standard decoder,
// which reports a byte offset gjson does not.
func jsonSyntaxError(data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return &SyntaxError{Line: 1, Column: 1, Msg: err.Error()}
	}
	offset := int(syntaxErr.Offset)
	if offset > len(data) {
		offset = len(data)
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	column := offset - bytes.LastIndexByte(before, '\n') - 1
	if column < 1 {
		column = 1
	}
	return &SyntaxError{Line: line, Column: column, Msg: syntaxErr.Error()}
}

// ParseYAML parses a YAML mapping, keeping key order.
func ParseYAML(data []byte) (*Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return New(), nil
	}
	v, err := fromNode(doc.Content[0])
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		o := New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			o.Set(n.Content[i].Value, v)
		}
		return o, nil
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Normalize(v), nil
	}
}

// Parse picks the YAML parser for .yaml/.yml files and JSON otherwise.
func Parse(data []byte, filename string) (*Object, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}
