package query

import (
	"fmt"
	"time"

	"github.com/samwightt/querydoc/pkg/selection"
)

// Unpack locates the result at path inside a raw response and converts the
// DateTime fields the document selected into time.Time values. The document
// must be the one the request was built from, before Transform. data is not
// modified; a missing result yields nil.
func Unpack(doc *Document, path []string, data any) (any, error) {
	result, ok := selection.Lookup(data, path)
	if !ok || result == nil {
		return nil, nil
	}
	switch result.(type) {
	case *selection.Object, []any:
	default:
		return result, nil
	}

	field, err := GetField(doc, path)
	if err != nil {
		return nil, err
	}
	return mapDates(field, result), nil
}

// GetField follows path from the document root through field children.
func GetField(doc *Document, path []string) (*Field, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrFieldNotFound)
	}

	var pointer *Field
	for _, c := range doc.Children {
		if c.Name == path[0] {
			pointer = c
			break
		}
	}
	if pointer == nil {
		return nil, fmt.Errorf("%w: could not find field %s in document", ErrFieldNotFound, path[0])
	}

	for _, name := range path[1:] {
		if pointer.Children == nil {
			return nil, fmt.Errorf("%w: can't get children for field %s with child %s", ErrFieldNotFound, pointer.Name, name)
		}
		var next *Field
		for _, c := range pointer.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: can't find child %s of field %s", ErrFieldNotFound, name, pointer.Name)
		}
		pointer = next
	}
	return pointer, nil
}

func mapDates(field *Field, data any) any {
	switch v := data.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = mapDates(field, item)
		}
		return out
	case *selection.Object:
		out := v.Without()
		for _, child := range field.Children {
			if child.SchemaField == nil || child.SchemaField.OutputType == nil {
				continue
			}
			value, ok := out.Get(child.Name)
			if !ok {
				continue
			}
			switch {
			case child.SchemaField.OutputType.Type.Name == "DateTime":
				out.Set(child.Name, toDate(value))
			case child.Children != nil:
				out.Set(child.Name, mapDates(child, value))
			}
		}
		return out
	}
	return data
}

func toDate(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = toDate(item)
		}
		return out
	case string:
		if v == "" {
			return v
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return v
		}
		return t
	}
	return value
}
