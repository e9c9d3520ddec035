package query

import (
	"bytes"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// QueryDocument parses the rendered document with the GraphQL query parser.
func (d *Document) QueryDocument() (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: d.Type, Input: d.String()})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Format renders the document through the GraphQL formatter, which prints
// one argument per line and normalizes spacing.
func (d *Document) Format() (string, error) {
	doc, err := d.QueryDocument()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatQueryDocument(doc)
	return buf.String(), nil
}
