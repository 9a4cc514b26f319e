// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

package tdl

import (
	"context"
	"fmt"
	"strings"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/idl"
	"gopkg.tdl.dev/tdlc/internal/iter"
)

const (
	parserTDLLookahead = 8
)

// ParserTDL is a recursive descent parser for the TDL syntax. Errors are
// accumulated in the reporter rather than stopping at the first problem.
type ParserTDL struct {
	reporter exc.Reporter
}

func NewParserTDL(reporter exc.Reporter) *ParserTDL {
	return &ParserTDL{reporter: reporter}
}

func (self *ParserTDL) PrepareParse(ctx context.Context, f idl.LexerFile) (*parserTDLTokens, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	// The grammar is whitespace insensitive so newlines and comments never
	// reach the productions.
	filtered := iter.NewIteratorFilter(ft, iter.FilterFunc[*idl.Token](func(ctx context.Context, t *idl.Token) bool {
		switch t.Type {
		case idl.TokenTypeComment, idl.TokenTypeNewline:
			return false
		default:
			return true
		}
	}))
	return &parserTDLTokens{
		reporter: self.reporter,
		ctx:      ctx,
		uri:      f.Path(ctx),
		tokens:   iter.NewLookahead(filtered, parserTDLLookahead),
	}, nil
}

// Parse runs the full grammar over a lexed file. On failure it returns the
// last reported exception; the reporter still holds the complete set.
func (self *ParserTDL) Parse(ctx context.Context, f idl.LexerFile) (*idl.Module, error) {
	pt, err := self.PrepareParse(ctx, f)
	if err != nil {
		return nil, err
	}
	mod := pt.parseModule()
	if mod == nil {
		reported := self.reporter.Reported()
		if len(reported) > 0 {
			return nil, reported[len(reported)-1]
		}
		return nil, exc.New(exc.Location{URI: f.Path(ctx)}, exc.CodeUnknownFatal, "parse failed without a reported cause")
	}
	return mod, nil
}

type parserTDLTokens struct {
	reporter exc.Reporter
	ctx      context.Context
	uri      string
	loc      idl.Location
	tokens   idl.Lookahead[*idl.Token]
}

func (p *parserTDLTokens) report(code string, message string) {
	_ = p.reporter.Report(exc.New(exc.Location{
		URI:      p.uri,
		Location: p.loc,
	}, code, message))
}

func (p *parserTDLTokens) advance() {
	maybeToken := p.tokens.Lookahead(p.ctx, 0)
	if maybeToken.IsPresent() {
		p.loc = maybeToken.Value().Span.End
	}
	_ = p.tokens.Next(p.ctx)
}

func (p *parserTDLTokens) peekN(n uint8) *idl.Token {
	maybeToken := p.tokens.Lookahead(p.ctx, n)
	if !maybeToken.IsPresent() {
		return nil
	}
	return maybeToken.Value()
}

func (p *parserTDLTokens) peek() *idl.Token {
	return p.peekN(0)
}

// reports an error if there is no current token, or the current token isn't
// of the expected type. advances on success
func (p *parserTDLTokens) expectOne(expectedType idl.TokenType) *idl.Token {
	return p.expectOneOf([]idl.TokenType{expectedType})
}

// reports an error if current token isn't one of the given expected types.
// advances on success
func (p *parserTDLTokens) expectOneOf(expectedTypes []idl.TokenType) *idl.Token {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting %v)", expectedTypes))
		return nil
	}
	for _, expectedType := range expectedTypes {
		if maybeToken.Type == expectedType {
			p.advance()
			return maybeToken
		}
	}
	p.report(exc.CodeSyntaxError, fmt.Sprintf("unexpected %s (expecting %v)", maybeToken.Value, expectedTypes))
	return nil
}

// generic application of parsing lists of zero or more comma-separated
// nodes, allowing an optional trailing comma
func applyOverCommaSeparatedList[N any](p *parserTDLTokens, tOpen idl.TokenType, parser func() *N, tClose idl.TokenType) []N {
	if p.expectOne(tOpen) == nil {
		return nil
	}
	values := []N{}

	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting a list of %T)", values))
		return nil
	}
	if maybeToken.Type != tClose {
		maybeValue := parser()
		if maybeValue == nil {
			return nil
		}
		values = append(values, *maybeValue)

		for {
			maybeToken = p.peek()
			if maybeToken == nil || maybeToken.Type != idl.TokenTypeComma {
				break
			}
			p.advance()
			maybeToken = p.peek()
			if maybeToken != nil && maybeToken.Type == tClose {
				break
			}
			maybeValue = parser()
			if maybeValue == nil {
				return nil
			}
			values = append(values, *maybeValue)
		}
	}
	if p.expectOne(tClose) == nil {
		return nil
	}
	return values
}

// module := exports import* (annotation | typedecl)*
func (p *parserTDLTokens) parseModule() *idl.Module {
	exports := p.parseExports()
	if exports == nil {
		return nil
	}
	mod := &idl.Module{Exports: *exports}

	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != idl.TokenTypeKeywordImport {
			break
		}
		imp := p.parseImport()
		if imp == nil {
			return nil
		}
		mod.Imports = append(mod.Imports, *imp)
	}

	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			break
		}
		switch maybeToken.Type {
		case idl.TokenTypeAngleOpen:
			ann := p.parseAnnotation()
			if ann == nil {
				return nil
			}
			mod.Annotations = append(mod.Annotations, *ann)
		case idl.TokenTypeKeywordType:
			decl := p.parseTypeDecl()
			if decl == nil {
				return nil
			}
			mod.TypeDecls = append(mod.TypeDecls, *decl)
		default:
			p.report(exc.CodeIncompleteParse, fmt.Sprintf("unexpected %s after the last declaration", maybeToken.Type))
			return nil
		}
	}
	return mod
}

// exports := 'scala' ':' package 'purs' ':' package
func (p *parserTDLTokens) parseExports() *idl.Exports {
	if p.expectOne(idl.TokenTypeKeywordScala) == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return nil
	}
	scalaPackage, ok := p.parsePackageName()
	if !ok {
		return nil
	}
	if p.expectOne(idl.TokenTypeKeywordPurs) == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return nil
	}
	pursPackage, ok := p.parsePackageName()
	if !ok {
		return nil
	}
	return &idl.Exports{
		ScalaPackage: scalaPackage,
		PursPackage:  pursPackage,
	}
}

// packageSegmentTypes lists every token type that may appear as a package
// name segment. Package names have no case or reserved-word constraints, so
// keyword tokens and digit-leading segments are accepted here and nowhere
// else.
var packageSegmentTypes = []idl.TokenType{
	idl.TokenTypeIdentifierLower,
	idl.TokenTypeIdentifierUpper,
	idl.TokenTypeIdentifierDigit,
	idl.TokenTypeKeywordScala,
	idl.TokenTypeKeywordPurs,
	idl.TokenTypeKeywordImport,
	idl.TokenTypeKeywordType,
	idl.TokenTypeKeywordWrap,
	idl.TokenTypeKeywordBoolean,
	idl.TokenTypeKeywordInt,
	idl.TokenTypeKeywordDecimal,
	idl.TokenTypeKeywordString,
	idl.TokenTypeKeywordArray,
	idl.TokenTypeKeywordMaybe,
}

// package := segment ('.' segment)*
func (p *parserTDLTokens) parsePackageName() (string, bool) {
	segment := p.expectOneOf(packageSegmentTypes)
	if segment == nil {
		return "", false
	}
	segments := []string{segment.Value}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != idl.TokenTypeDot {
			break
		}
		p.advance()
		segment = p.expectOneOf(packageSegmentTypes)
		if segment == nil {
			return "", false
		}
		segments = append(segments, segment.Value)
	}
	return strings.Join(segments, "."), true
}

// import := 'import' package
func (p *parserTDLTokens) parseImport() *idl.Import {
	if p.expectOne(idl.TokenTypeKeywordImport) == nil {
		return nil
	}
	name, ok := p.parsePackageName()
	if !ok {
		return nil
	}
	imp := idl.Import(name)
	return &imp
}

// typedecl := 'type' TypeName ':' toptype annotation*
func (p *parserTDLTokens) parseTypeDecl() *idl.TypeDecl {
	if p.expectOne(idl.TokenTypeKeywordType) == nil {
		return nil
	}
	name := p.expectOne(idl.TokenTypeIdentifierUpper)
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return nil
	}
	body := p.parseTopType()
	if body == nil {
		return nil
	}
	annotations, ok := p.parseAnnotations()
	if !ok {
		return nil
	}
	return &idl.TypeDecl{
		Name:        name.Value,
		Body:        body,
		Annotations: annotations,
	}
}

// toptype := record | sum | 'wrap' type | type
func (p *parserTDLTokens) parseTopType() idl.TopType {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a type body)")
		return nil
	}
	switch maybeToken.Type {
	case idl.TokenTypeCurlyOpen:
		props := applyOverCommaSeparatedList(p, idl.TokenTypeCurlyOpen, p.parseRecordProp, idl.TokenTypeCurlyClose)
		if props == nil {
			return nil
		}
		return idl.Record{Props: props}
	case idl.TokenTypeSquareOpen:
		sum := p.parseSum()
		if sum == nil {
			return nil
		}
		return *sum
	case idl.TokenTypeKeywordWrap:
		p.advance()
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		return idl.Wrap{Type: typ}
	default:
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		return idl.TypeAlias{Type: typ}
	}
}

// sum := '[' TypeName ('|' TypeName)* ']'
//
// Unlike records a sum may not be empty, so this doesn't reuse the
// comma-separated list helper.
func (p *parserTDLTokens) parseSum() *idl.Sum {
	if p.expectOne(idl.TokenTypeSquareOpen) == nil {
		return nil
	}
	variant := p.expectOne(idl.TokenTypeIdentifierUpper)
	if variant == nil {
		return nil
	}
	variants := []string{variant.Value}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != idl.TokenTypePipe {
			break
		}
		p.advance()
		variant = p.expectOne(idl.TokenTypeIdentifierUpper)
		if variant == nil {
			return nil
		}
		variants = append(variants, variant.Value)
	}
	if p.expectOne(idl.TokenTypeSquareClose) == nil {
		return nil
	}
	return &idl.Sum{Variants: variants}
}

// prop := identifier ':' type annotation*
func (p *parserTDLTokens) parseRecordProp() *idl.RecordProp {
	name := p.expectOne(idl.TokenTypeIdentifierLower)
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return nil
	}
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	annotations, ok := p.parseAnnotations()
	if !ok {
		return nil
	}
	return &idl.RecordProp{
		Name:        name.Value,
		Type:        typ,
		Annotations: annotations,
	}
}

// type := primitive | 'Array' '<' type '>' | 'Maybe' '<' type '>' | ref
func (p *parserTDLTokens) parseType() idl.Type {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a type expression)")
		return nil
	}
	switch maybeToken.Type {
	case idl.TokenTypeKeywordBoolean:
		p.advance()
		return idl.Primitive{Kind: idl.PrimitiveBoolean}
	case idl.TokenTypeKeywordInt:
		p.advance()
		return idl.Primitive{Kind: idl.PrimitiveInt}
	case idl.TokenTypeKeywordDecimal:
		p.advance()
		return idl.Primitive{Kind: idl.PrimitiveDecimal}
	case idl.TokenTypeKeywordString:
		p.advance()
		return idl.Primitive{Kind: idl.PrimitiveString}
	case idl.TokenTypeKeywordArray:
		p.advance()
		elem := p.parseTypeArgument()
		if elem == nil {
			return nil
		}
		return idl.Array{Elem: elem}
	case idl.TokenTypeKeywordMaybe:
		p.advance()
		elem := p.parseTypeArgument()
		if elem == nil {
			return nil
		}
		return idl.Option{Elem: elem}
	case idl.TokenTypeIdentifierUpper:
		return p.parseTypeRef()
	default:
		p.report(exc.CodeSyntaxError, fmt.Sprintf("unexpected %s (expecting a type expression)", maybeToken.Value))
		return nil
	}
}

// typeargument := '<' type '>'
func (p *parserTDLTokens) parseTypeArgument() idl.Type {
	if p.expectOne(idl.TokenTypeAngleOpen) == nil {
		return nil
	}
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeAngleClose) == nil {
		return nil
	}
	return elem
}

// ref := TypeName ('.' TypeName)*
//
// The final segment is the referenced type name, everything before it is the
// module qualifier.
func (p *parserTDLTokens) parseTypeRef() idl.Type {
	first := p.expectOne(idl.TokenTypeIdentifierUpper)
	if first == nil {
		return nil
	}
	segments := []string{first.Value}
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != idl.TokenTypeDot {
			break
		}
		p.advance()
		segment := p.expectOne(idl.TokenTypeIdentifierUpper)
		if segment == nil {
			return nil
		}
		segments = append(segments, segment.Value)
	}
	return idl.Ref{
		Pos: first.Span.Start,
		Target: idl.TypeReference{
			Qualifier: strings.Join(segments[:len(segments)-1], "."),
			Name:      segments[len(segments)-1],
		},
	}
}

func (p *parserTDLTokens) parseAnnotations() ([]idl.Annotation, bool) {
	var annotations []idl.Annotation
	for {
		maybeToken := p.peek()
		if maybeToken == nil || maybeToken.Type != idl.TokenTypeAngleOpen {
			return annotations, true
		}
		ann := p.parseAnnotation()
		if ann == nil {
			return nil, false
		}
		annotations = append(annotations, *ann)
	}
}

// annotation := '<' identifier (identifier ('=' text)?)* '>'
func (p *parserTDLTokens) parseAnnotation() *idl.Annotation {
	open := p.expectOne(idl.TokenTypeAngleOpen)
	if open == nil {
		return nil
	}
	name := p.expectOne(idl.TokenTypeIdentifierLower)
	if name == nil {
		return nil
	}
	ann := &idl.Annotation{
		Name: name.Value,
		Pos:  open.Span.Start,
	}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting '>' to close an annotation)")
			return nil
		}
		if maybeToken.Type == idl.TokenTypeAngleClose {
			p.advance()
			return ann
		}
		paramName := p.expectOne(idl.TokenTypeIdentifierLower)
		if paramName == nil {
			return nil
		}
		param := idl.AnnotationParam{
			Name: paramName.Value,
			Pos:  paramName.Span.Start,
		}
		if maybeEqual := p.peek(); maybeEqual != nil && maybeEqual.Type == idl.TokenTypeEqual {
			p.advance()
			text := p.expectOne(idl.TokenTypeText)
			if text == nil {
				return nil
			}
			value := text.Value
			param.Value = &value
		}
		ann.Params = append(ann.Params, param)
	}
}
