package query

import (
	"errors"

	"github.com/samwightt/querydoc/pkg/dmmf"
)

var (
	// ErrUnsupportedSchema is returned by MakeDocument when the schema has a
	// shape the builder cannot handle, such as a list argument with several
	// candidate types.
	ErrUnsupportedSchema = errors.New("unsupported schema")

	// ErrFieldNotFound is returned by GetField and Unpack when a path does not
	// match the document.
	ErrFieldNotFound = errors.New("field not found")
)

// FieldErrorKind tags a FieldError.
type FieldErrorKind string

const (
	InvalidFieldName FieldErrorKind = "invalidFieldName"
	InvalidFieldType FieldErrorKind = "invalidFieldType"
	EmptySelect      FieldErrorKind = "emptySelect"
	EmptyInclude     FieldErrorKind = "emptyInclude"
	NoTrueSelect     FieldErrorKind = "noTrueSelect"
	IncludeAndSelect FieldErrorKind = "includeAndSelect"
)

// ArgErrorKind tags an ArgError.
type ArgErrorKind string

const (
	InvalidName     ArgErrorKind = "invalidName"
	InvalidType     ArgErrorKind = "invalidType"
	MissingArg      ArgErrorKind = "missingArg"
	NeedsAtLeastOne ArgErrorKind = "atLeastOne"
	NeedsAtMostOne  ArgErrorKind = "atMostOne"
)

// FieldError describes a problem with a selected field. Which members are set
// depends on Kind.
type FieldError struct {
	Kind            FieldErrorKind `json:"type"`
	ModelName       string         `json:"modelName,omitempty"`
	ProvidedName    string         `json:"providedName,omitempty"`
	FieldName       string         `json:"fieldName,omitempty"`
	ProvidedValue   any            `json:"providedValue,omitempty"`
	DidYouMean      string         `json:"didYouMean,omitempty"`
	IsInclude       bool           `json:"isInclude,omitempty"`
	IsIncludeScalar bool           `json:"isIncludeScalar,omitempty"`

	// OutputType is the type an unknown field was looked up on.
	OutputType *dmmf.OutputType `json:"-"`
	// Field is the relation a select or include statement belongs to.
	Field *dmmf.SchemaField `json:"-"`
}

// RequiredType lists what an argument would have accepted, and the candidate
// the value was checked against last.
type RequiredType struct {
	InputType   dmmf.InputTypeRefs
	BestFitting *dmmf.InputTypeRef
}

// ArgError describes a problem with an argument. Which members are set depends
// on Kind.
type ArgError struct {
	Kind            ArgErrorKind `json:"type"`
	ArgName         string       `json:"argName,omitempty"`
	ProvidedName    string       `json:"providedName,omitempty"`
	ProvidedValue   any          `json:"providedValue,omitempty"`
	DidYouMeanField string       `json:"didYouMeanField,omitempty"`
	DidYouMeanArg   string       `json:"didYouMeanArg,omitempty"`
	MissingName     string       `json:"missingName,omitempty"`
	ProvidedKeys    []string     `json:"providedKeys,omitempty"`
	AtLeastOne      bool         `json:"atLeastOne,omitempty"`
	AtMostOne       bool         `json:"atMostOne,omitempty"`
	TypeName        string       `json:"typeName,omitempty"`

	OriginalType *dmmf.InputType  `json:"-"`
	OutputType   *dmmf.OutputType `json:"-"`
	InputType    *dmmf.InputType  `json:"-"`
	RequiredType *RequiredType    `json:"-"`
	MissingArg   *dmmf.SchemaArg  `json:"-"`
}

// FieldErrorEntry is a FieldError together with the selection path leading
// to it.
type FieldErrorEntry struct {
	Path  []string    `json:"path"`
	Error *FieldError `json:"error"`
}

// ArgErrorEntry is an ArgError together with the selection path leading to it.
type ArgErrorEntry struct {
	Path  []string  `json:"path"`
	Error *ArgError `json:"error"`
}

func prefixFieldErrors(prefix []string, entries []FieldErrorEntry) []FieldErrorEntry {
	for i := range entries {
		entries[i].Path = append(append([]string(nil), prefix...), entries[i].Path...)
	}
	return entries
}

func prefixArgErrors(prefix []string, entries []ArgErrorEntry) []ArgErrorEntry {
	for i := range entries {
		entries[i].Path = append(append([]string(nil), prefix...), entries[i].Path...)
	}
	return entries
}
