// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

package tdl

import (
	"fmt"
	"strings"

	"gopkg.tdl.dev/tdlc/internal/idl"
)

// Render writes a module back out as TDL source in a canonical layout: the
// export header first, then imports, then module annotations, then one
// section per type declaration, with a blank line between sections. Parsing
// the output yields a module equivalent to the input.
func Render(module *idl.Module) string {
	sections := make([]string, 0, 3+len(module.TypeDecls))

	header := "scala: " + module.Exports.ScalaPackage + "\npurs: " + module.Exports.PursPackage
	sections = append(sections, header)

	if len(module.Imports) > 0 {
		lines := make([]string, 0, len(module.Imports))
		for _, imp := range module.Imports {
			lines = append(lines, "import "+string(imp))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(module.Annotations) > 0 {
		lines := make([]string, 0, len(module.Annotations))
		for _, ann := range module.Annotations {
			lines = append(lines, renderAnnotation(ann))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	for _, decl := range module.TypeDecls {
		sections = append(sections, renderTypeDecl(decl))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func renderTypeDecl(decl idl.TypeDecl) string {
	var b strings.Builder
	_, _ = b.WriteString("type ")
	_, _ = b.WriteString(decl.Name)
	_, _ = b.WriteString(" : ")
	_, _ = b.WriteString(renderTopType(decl.Body))
	for _, ann := range decl.Annotations {
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(renderAnnotation(ann))
	}
	return b.String()
}

func renderTopType(body idl.TopType) string {
	switch t := body.(type) {
	case idl.TypeAlias:
		return RenderType(t.Type)
	case idl.Record:
		if len(t.Props) == 0 {
			return "{}"
		}
		props := make([]string, 0, len(t.Props))
		for _, prop := range t.Props {
			props = append(props, renderRecordProp(prop))
		}
		return "{ " + strings.Join(props, ", ") + " }"
	case idl.Sum:
		return "[" + strings.Join(t.Variants, " | ") + "]"
	case idl.Wrap:
		return "wrap " + RenderType(t.Type)
	default:
		return fmt.Sprintf("<!unknown type body %T>", body)
	}
}

func renderRecordProp(prop idl.RecordProp) string {
	var b strings.Builder
	_, _ = b.WriteString(prop.Name)
	_, _ = b.WriteString(": ")
	_, _ = b.WriteString(RenderType(prop.Type))
	for _, ann := range prop.Annotations {
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(renderAnnotation(ann))
	}
	return b.String()
}

// RenderType writes a single type expression as TDL source.
func RenderType(typ idl.Type) string {
	switch t := typ.(type) {
	case idl.Primitive:
		return t.Kind.String()
	case idl.Array:
		return "Array<" + RenderType(t.Elem) + ">"
	case idl.Option:
		return "Maybe<" + RenderType(t.Elem) + ">"
	case idl.Ref:
		return t.Target.String()
	default:
		return fmt.Sprintf("<!unknown type expression %T>", typ)
	}
}

func renderAnnotation(ann idl.Annotation) string {
	var b strings.Builder
	_, _ = b.WriteString("<")
	_, _ = b.WriteString(ann.Name)
	for _, param := range ann.Params {
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(param.Name)
		if param.Value != nil {
			_, _ = b.WriteString("=\"")
			_, _ = b.WriteString(escapeText(*param.Value))
			_, _ = b.WriteString("\"")
		}
	}
	_, _ = b.WriteString(">")
	return b.String()
}

func escapeText(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		switch r {
		case '\\':
			_, _ = b.WriteString(`\\`)
		case '"':
			_, _ = b.WriteString(`\"`)
		case '\n':
			_, _ = b.WriteString(`\n`)
		case '\t':
			_, _ = b.WriteString(`\t`)
		case '\r':
			_, _ = b.WriteString(`\r`)
		default:
			_, _ = b.WriteRune(r)
		}
	}
	return b.String()
}
