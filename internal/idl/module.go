package idl

import "strings"

// Module is the parsed content of one TDL source file. All nodes are
// immutable after parsing; Name and Exports.TemplatePath are the only fields
// filled in afterwards, from the file's logical name.
type Module struct {
	Name        string
	Exports     Exports
	Imports     []Import
	TypeDecls   []TypeDecl
	Annotations []Annotation
}

// Exports names the target-language packages a module generates into. Both
// package names are mandatory dotted identifier sequences. TemplatePath is
// not part of the surface syntax.
type Exports struct {
	ScalaPackage string
	PursPackage  string
	TemplatePath string
}

// Import names another module to depend on. No resolution or cycle checking
// happens at this layer.
type Import string

type TypeDecl struct {
	Name        string
	Body        TopType
	Annotations []Annotation
}

// TopType is the right-hand side of a type declaration.
type TopType interface {
	topType()
}

// TypeAlias declares a name for a plain type expression.
type TypeAlias struct {
	Type Type
}

type Record struct {
	Props []RecordProp
}

// Sum is a closed enumeration of case names. Variant order is meaningful
// downstream and a sum always has at least one variant.
type Sum struct {
	Variants []string
}

// Wrap is a single-field value wrapper around one type expression.
type Wrap struct {
	Type Type
}

func (TypeAlias) topType() {}
func (Record) topType()    {}
func (Sum) topType()       {}
func (Wrap) topType()      {}

// Type is a primitive, array, optional, or named reference, recursively
// composable.
type Type interface {
	typeExpression()
}

type Primitive struct {
	Kind PrimitiveKind
}

// Ref is a named type reference with the source position of its first
// character, so semantic errors can point at exact lines and columns.
type Ref struct {
	Pos    Location
	Target TypeReference
}

type Array struct {
	Elem Type
}

// Option is the parsed form of Maybe<T>.
type Option struct {
	Elem Type
}

func (Primitive) typeExpression() {}
func (Ref) typeExpression()       {}
func (Array) typeExpression()     {}
func (Option) typeExpression()    {}

// TypeReference is a dotted reference such as Other.Thing. Qualifier is the
// dotted module prefix, empty for a bare local name.
type TypeReference struct {
	Qualifier string
	Name      string
}

func (r TypeReference) String() string {
	if r.Qualifier == "" {
		return r.Name
	}
	return r.Qualifier + "." + r.Name
}

type RecordProp struct {
	Name        string
	Type        Type
	Annotations []Annotation
}

type PrimitiveKind uint8

const (
	PrimitiveBoolean PrimitiveKind = iota
	PrimitiveInt
	PrimitiveDecimal
	PrimitiveString
	// Reserved for downstream generators; the grammar has no surface syntax
	// for these yet and lexes the words as plain type references.
	PrimitiveDate
	PrimitiveDateTime
	PrimitiveTime
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveBoolean:
		return "Boolean"
	case PrimitiveInt:
		return "Int"
	case PrimitiveDecimal:
		return "Decimal"
	case PrimitiveString:
		return "String"
	case PrimitiveDate:
		return "Date"
	case PrimitiveDateTime:
		return "DateTime"
	case PrimitiveTime:
		return "Time"
	default:
		return "Unknown"
	}
}

// Annotation is a bracketed free-form decoration: <name param param="text">.
type Annotation struct {
	Name   string
	Pos    Location
	Params []AnnotationParam
}

// AnnotationParam is one annotation parameter. Value is nil when the
// parameter has no '=' clause.
type AnnotationParam struct {
	Name  string
	Pos   Location
	Value *string
}

// Source pairs a file path with the module parsed from it.
type Source struct {
	Path   string
	Module *Module
}

// LogicalName derives a module's logical name from its file path by
// stripping the directory and the given extension.
func LogicalName(path string, ext string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ext)
}
