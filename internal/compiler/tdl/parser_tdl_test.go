// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

package tdl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/fs"
	"gopkg.tdl.dev/tdlc/internal/idl"
)

func newTestParser(t *testing.T, input string) (*parserTDLTokens, exc.Reporter) {
	t.Helper()
	ctx := context.Background()
	reporter := exc.NewReporter(nil)
	f := fs.NewFileString("/test"+fs.FileExt, input, idl.FileKindTDL)
	lexer := NewLexerTDL(reporter)
	lf, err := lexer.Lex(ctx, f)
	require.NoError(t, err)
	parser := NewParserTDL(reporter)
	pt, err := parser.PrepareParse(ctx, lf)
	require.NoError(t, err)
	return pt, reporter
}

func strptr(v string) *string {
	return &v
}

func TestParser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		parser   func(p *parserTDLTokens) any
		expected any
	}{
		{
			name:   "exports",
			input:  "scala: com.example.api purs: Com.Example.Api",
			parser: func(p *parserTDLTokens) any { return p.parseExports() },
			expected: &idl.Exports{
				ScalaPackage: "com.example.api",
				PursPackage:  "Com.Example.Api",
			},
		},
		{
			name:   "reserved word package segments",
			input:  "scala: com.type.example purs: org.wrap.api",
			parser: func(p *parserTDLTokens) any { return p.parseExports() },
			expected: &idl.Exports{
				ScalaPackage: "com.type.example",
				PursPackage:  "org.wrap.api",
			},
		},
		{
			name:   "digit leading package segments",
			input:  "scala: com.v2.x purs: a.1.b",
			parser: func(p *parserTDLTokens) any { return p.parseExports() },
			expected: &idl.Exports{
				ScalaPackage: "com.v2.x",
				PursPackage:  "a.1.b",
			},
		},
		{
			name:     "exports missing purs",
			input:    "scala: com.example.api",
			parser:   func(p *parserTDLTokens) any { return p.parseExports() },
			expected: (*idl.Exports)(nil),
		},
		{
			name:     "exports in wrong order",
			input:    "purs: Com.Example scala: com.example",
			parser:   func(p *parserTDLTokens) any { return p.parseExports() },
			expected: (*idl.Exports)(nil),
		},
		{
			name:   "import",
			input:  "import Other",
			parser: func(p *parserTDLTokens) any { return p.parseImport() },
			expected: func() *idl.Import {
				imp := idl.Import("Other")
				return &imp
			}(),
		},
		{
			name:   "type alias of a primitive",
			input:  "type UserId : String",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "UserId",
				Body: idl.TypeAlias{Type: idl.Primitive{Kind: idl.PrimitiveString}},
			},
		},
		{
			name:     "type name must be uppercase",
			input:    "type userId : String",
			parser:   func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: (*idl.TypeDecl)(nil),
		},
		{
			name:   "record",
			input:  "type User : { id: Int, name: String }",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "User",
				Body: idl.Record{Props: []idl.RecordProp{
					{Name: "id", Type: idl.Primitive{Kind: idl.PrimitiveInt}},
					{Name: "name", Type: idl.Primitive{Kind: idl.PrimitiveString}},
				}},
			},
		},
		{
			name:   "empty record",
			input:  "type Empty : {}",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "Empty",
				Body: idl.Record{Props: []idl.RecordProp{}},
			},
		},
		{
			name:   "record with trailing comma",
			input:  "type User : { id: Int, }",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "User",
				Body: idl.Record{Props: []idl.RecordProp{
					{Name: "id", Type: idl.Primitive{Kind: idl.PrimitiveInt}},
				}},
			},
		},
		{
			name:   "sum",
			input:  "type Color : [Red | Green | Blue]",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "Color",
				Body: idl.Sum{Variants: []string{"Red", "Green", "Blue"}},
			},
		},
		{
			name:     "sum must not be empty",
			input:    "type Bad : []",
			parser:   func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: (*idl.TypeDecl)(nil),
		},
		{
			name:   "single variant sum",
			input:  "type Unit : [Unit]",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "Unit",
				Body: idl.Sum{Variants: []string{"Unit"}},
			},
		},
		{
			name:   "wrap",
			input:  "type Email : wrap String",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "Email",
				Body: idl.Wrap{Type: idl.Primitive{Kind: idl.PrimitiveString}},
			},
		},
		{
			name:   "nested type arguments",
			input:  "type Tags : Array<Maybe<Tag>>",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "Tags",
				Body: idl.TypeAlias{Type: idl.Array{Elem: idl.Option{Elem: idl.Ref{
					Pos:    idl.Location{Line: 1, Column: 25, Offset: 24},
					Target: idl.TypeReference{Name: "Tag"},
				}}}},
			},
		},
		{
			name:   "qualified reference",
			input:  "Other.Thing.Deep",
			parser: func(p *parserTDLTokens) any { return p.parseType() },
			expected: idl.Ref{
				Pos:    idl.Location{Line: 1, Column: 1, Offset: 0},
				Target: idl.TypeReference{Qualifier: "Other.Thing", Name: "Deep"},
			},
		},
		{
			name:   "prop annotations",
			input:  `type User : { id: Int <required scope="db"> }`,
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "User",
				Body: idl.Record{Props: []idl.RecordProp{
					{
						Name: "id",
						Type: idl.Primitive{Kind: idl.PrimitiveInt},
						Annotations: []idl.Annotation{
							{
								Name: "required",
								Pos:  idl.Location{Line: 1, Column: 23, Offset: 22},
								Params: []idl.AnnotationParam{
									{
										Name:  "scope",
										Pos:   idl.Location{Line: 1, Column: 33, Offset: 32},
										Value: strptr("db"),
									},
								},
							},
						},
					},
				}},
			},
		},
		{
			name:   "declaration annotation",
			input:  "type Foo : Int <deprecated>",
			parser: func(p *parserTDLTokens) any { return p.parseTypeDecl() },
			expected: &idl.TypeDecl{
				Name: "Foo",
				Body: idl.TypeAlias{Type: idl.Primitive{Kind: idl.PrimitiveInt}},
				Annotations: []idl.Annotation{
					{
						Name: "deprecated",
						Pos:  idl.Location{Line: 1, Column: 16, Offset: 15},
					},
				},
			},
		},
		{
			name:   "annotation with flag params",
			input:  "<codec json msgpack>",
			parser: func(p *parserTDLTokens) any { return p.parseAnnotation() },
			expected: &idl.Annotation{
				Name: "codec",
				Pos:  idl.Location{Line: 1, Column: 1, Offset: 0},
				Params: []idl.AnnotationParam{
					{Name: "json", Pos: idl.Location{Line: 1, Column: 8, Offset: 7}},
					{Name: "msgpack", Pos: idl.Location{Line: 1, Column: 13, Offset: 12}},
				},
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p, _ := newTestParser(t, testCase.input)
			require.Equal(t, testCase.expected, testCase.parser(p))
		})
	}
}

func TestParserModule(t *testing.T) {
	t.Parallel()

	input := `scala: com.example.users
purs: Com.Example.Users

import Common
import Auth.Session

<module owner="identity-team">

// The stable identifier for a user.
type UserId : wrap String

type User : {
  id: UserId,
  name: String,
  roles: Array<Common.Role>,
  email: Maybe<String> <pii>,
}

type Status : [Active | Suspended | Deleted]
`

	p, reporter := newTestParser(t, input)
	mod := p.parseModule()
	require.NotNil(t, mod, "reported: %v", reporter.Reported())
	require.Empty(t, reporter.Reported())

	require.Equal(t, idl.Exports{
		ScalaPackage: "com.example.users",
		PursPackage:  "Com.Example.Users",
	}, mod.Exports)
	require.Equal(t, []idl.Import{"Common", "Auth.Session"}, mod.Imports)

	require.Len(t, mod.Annotations, 1)
	require.Equal(t, "module", mod.Annotations[0].Name)
	require.Len(t, mod.Annotations[0].Params, 1)
	require.Equal(t, "owner", mod.Annotations[0].Params[0].Name)
	require.Equal(t, "identity-team", *mod.Annotations[0].Params[0].Value)

	require.Len(t, mod.TypeDecls, 3)
	require.Equal(t, "UserId", mod.TypeDecls[0].Name)
	require.Equal(t, idl.Wrap{Type: idl.Primitive{Kind: idl.PrimitiveString}}, mod.TypeDecls[0].Body)

	require.Equal(t, "User", mod.TypeDecls[1].Name)
	user, ok := mod.TypeDecls[1].Body.(idl.Record)
	require.True(t, ok)
	require.Len(t, user.Props, 4)
	require.Equal(t, "id", user.Props[0].Name)
	require.Equal(t, "roles", user.Props[2].Name)
	require.Equal(t, idl.Array{Elem: idl.Ref{
		Pos:    idl.Location{Line: 15, Column: 16, Offset: 240},
		Target: idl.TypeReference{Qualifier: "Common", Name: "Role"},
	}}, user.Props[2].Type)
	require.Len(t, user.Props[3].Annotations, 1)
	require.Equal(t, "pii", user.Props[3].Annotations[0].Name)

	require.Equal(t, "Status", mod.TypeDecls[2].Name)
	require.Equal(t, idl.Sum{Variants: []string{"Active", "Suspended", "Deleted"}}, mod.TypeDecls[2].Body)
}

func TestParserErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{
			name:  "trailing input after declarations",
			input: "scala: a purs: B\ntype Foo : Int\n}",
			code:  exc.CodeIncompleteParse,
		},
		{
			name:  "missing export header",
			input: "type Foo : Int",
			code:  exc.CodeSyntaxError,
		},
		{
			name:  "truncated record",
			input: "scala: a purs: B\ntype Foo : { id: Int",
			code:  exc.CodeUnexpectedEOF,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p, reporter := newTestParser(t, testCase.input)
			require.Nil(t, p.parseModule())
			reported := reporter.Reported()
			require.NotEmpty(t, reported)
			require.Equal(t, testCase.code, reported[len(reported)-1].Code())
		})
	}
}
