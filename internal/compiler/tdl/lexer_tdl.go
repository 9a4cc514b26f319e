// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

package tdl

import (
	"context"
	"strings"
	"unicode"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/idl"
	"gopkg.tdl.dev/tdlc/internal/iter"
	"gopkg.tdl.dev/tdlc/internal/optional"
)

const (
	lexerTDLLookahead = 2
)

var keywords = map[string]idl.TokenType{
	"scala":   idl.TokenTypeKeywordScala,
	"purs":    idl.TokenTypeKeywordPurs,
	"import":  idl.TokenTypeKeywordImport,
	"type":    idl.TokenTypeKeywordType,
	"wrap":    idl.TokenTypeKeywordWrap,
	"Boolean": idl.TokenTypeKeywordBoolean,
	"Int":     idl.TokenTypeKeywordInt,
	"Decimal": idl.TokenTypeKeywordDecimal,
	"String":  idl.TokenTypeKeywordString,
	"Array":   idl.TokenTypeKeywordArray,
	"Maybe":   idl.TokenTypeKeywordMaybe,
}

// LexerTDL implements a tokenizer for the TDL syntax.
type LexerTDL struct {
	reporter exc.Reporter
}

func NewLexerTDL(reporter exc.Reporter) *LexerTDL {
	return &LexerTDL{reporter: reporter}
}

func (self *LexerTDL) Lex(ctx context.Context, f idl.File) (idl.LexerFile, error) {
	return &lexerFileTDL{
		File:     f,
		reporter: self.reporter,
	}, nil
}

type lexerFileTDL struct {
	idl.File
	reporter exc.Reporter
}

func (self *lexerFileTDL) Tokens(ctx context.Context) (idl.Iterator[*idl.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBody(ctx, b), lexerTDLLookahead)
	return &lexerFileTDLTokens{
		uri:        self.File.Path(ctx),
		body:       points,
		reporter:   self.reporter,
		line:       1,
		col:        0,
		offset:     -1,
		nextOffset: 0,
	}, nil
}

type lexerFileTDLTokens struct {
	uri        string
	body       idl.Lookahead[idl.CodePoint]
	reporter   exc.Reporter
	line       int32
	col        int32
	offset     int64
	nextOffset int64
}

func (self *lexerFileTDLTokens) Next(ctx context.Context) optional.Optional[*idl.Token] {
	for point := self.next(ctx); point.IsPresent(); point = self.next(ctx) {
		r := rune(point.Value())
		switch r {
		case 0x00:
			return optional.None[*idl.Token]() // Treat null byte as EOF as it's not allowed.
		case 0x0009, 0x0020:
			continue // Generally ignore space and tab.
		case '\n':
			return self.newLineToken("\n")
		case '\r':
			if n := self.body.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '\n' {
				_ = self.next(ctx)
				return self.newLineToken("\r\n")
			}
			return self.newLineToken("\r")
		case '/':
			n := self.body.Lookahead(ctx, 1)
			if !n.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeLexError, "unexpected '/' at end of input"))
				return optional.None[*idl.Token]()
			}
			switch n.Value() {
			case '/':
				_ = self.next(ctx)
				return self.readCommentLine(ctx)
			case '*':
				_ = self.next(ctx)
				return self.readCommentBlock(ctx)
			default:
				_ = self.reporter.Report(self.exc(exc.CodeLexError, "unexpected '/' (expecting '//' or '/*')"))
				return optional.None[*idl.Token]()
			}
		case '"':
			return self.readText(ctx)
		case '{':
			return self.punct(idl.TokenTypeCurlyOpen, "{")
		case '}':
			return self.punct(idl.TokenTypeCurlyClose, "}")
		case '[':
			return self.punct(idl.TokenTypeSquareOpen, "[")
		case ']':
			return self.punct(idl.TokenTypeSquareClose, "]")
		case '<':
			return self.punct(idl.TokenTypeAngleOpen, "<")
		case '>':
			return self.punct(idl.TokenTypeAngleClose, ">")
		case ':':
			return self.punct(idl.TokenTypeColon, ":")
		case '=':
			return self.punct(idl.TokenTypeEqual, "=")
		case '|':
			return self.punct(idl.TokenTypePipe, "|")
		case ',':
			return self.punct(idl.TokenTypeComma, ",")
		case '.':
			return self.punct(idl.TokenTypeDot, ".")
		default:
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				tok := self.readWord(ctx, string(r))
				if !tok.IsPresent() {
					return optional.None[*idl.Token]()
				}
				t := tok.Value()
				if kw, ok := keywords[t.Value]; ok {
					t.Type = kw
				} else if unicode.IsDigit(r) {
					t.Type = idl.TokenTypeIdentifierDigit
				} else if unicode.IsUpper(r) {
					t.Type = idl.TokenTypeIdentifierUpper
				} else {
					t.Type = idl.TokenTypeIdentifierLower
				}
				return optional.Some(t)
			}
			_ = self.reporter.Report(self.exc(exc.CodeLexError, "unrecognized character "+string(r)))
			return optional.None[*idl.Token]()
		}
	}
	return optional.None[*idl.Token]()
}

// readWord scans the remainder of an identifier or reserved word. Only
// letters and digits continue a word; the leading rune decides which
// identifier class the token belongs to. The span start is captured up
// front so multi-byte letters don't skew the column arithmetic.
func (self *lexerFileTDLTokens) readWord(ctx context.Context, prefix string) optional.Optional[*idl.Token] {
	var builder strings.Builder
	_, _ = builder.WriteString(prefix)
	startLine := self.line
	startCol := self.col
	startOffset := self.offset
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			break
		}
		if unicode.IsLetter(rune(n.Value())) || unicode.IsDigit(rune(n.Value())) {
			_ = self.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
			continue
		}
		break
	}
	t := newToken(startLine, startCol, startOffset, self.line, self.col, self.offset, idl.TokenTypeUnknown, builder.String())
	return optional.Some(t)
}

func (self *lexerFileTDLTokens) readCommentLine(ctx context.Context) optional.Optional[*idl.Token] {
	var builder strings.Builder
	startLine := self.line
	startCol := self.col - 1
	startOffset := self.offset - 1
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() || n.Value() == '\n' || n.Value() == '\r' {
			t := newToken(startLine, startCol, startOffset, self.line, self.col, self.offset, idl.TokenTypeComment, builder.String())
			return optional.Some(t)
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
}

func (self *lexerFileTDLTokens) readCommentBlock(ctx context.Context) optional.Optional[*idl.Token] {
	var builder strings.Builder
	startLine := self.line
	startCol := self.col - 1
	startOffset := self.offset - 1
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading comment block"))
			return optional.None[*idl.Token]()
		}
		switch n.Value() {
		case '\n':
			_ = self.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
			self.newLine()
		case '\r':
			_ = self.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
			nn := self.body.Lookahead(ctx, 1)
			if nn.IsPresent() && nn.Value() == '\n' {
				_ = self.next(ctx)
				_, _ = builder.WriteRune(rune(nn.Value()))
			}
			self.newLine()
		case '*':
			nn := self.body.Lookahead(ctx, 2)
			if nn.IsPresent() && nn.Value() == '/' {
				_ = self.next(ctx)
				_ = self.next(ctx)
				t := newToken(startLine, startCol, startOffset, self.line, self.col, self.offset, idl.TokenTypeComment, builder.String())
				return optional.Some(t)
			}
			_ = self.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
		default:
			_ = self.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
		}
	}
}

// readText scans a double-quoted text literal with C-style escapes. The
// token value holds the decoded content; the span covers the quotes.
func (self *lexerFileTDLTokens) readText(ctx context.Context) optional.Optional[*idl.Token] {
	var builder strings.Builder
	startLine := self.line
	startCol := self.col
	startOffset := self.offset
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading text literal"))
			return optional.None[*idl.Token]()
		}
		switch n.Value() {
		case '\n', '\r':
			_ = self.reporter.Report(self.exc(exc.CodeLexError, "newline in text literal"))
			return optional.None[*idl.Token]()
		case '"':
			_ = self.next(ctx)
			t := newToken(startLine, startCol, startOffset, self.line, self.col, self.offset, idl.TokenTypeText, builder.String())
			return optional.Some(t)
		case '\\':
			_ = self.next(ctx)
			nn := self.body.Lookahead(ctx, 1)
			if !nn.IsPresent() {
				_ = self.reporter.Report(self.exc(exc.CodeUnexpectedEOF, "EOF while reading text literal"))
				return optional.None[*idl.Token]()
			}
			switch nn.Value() {
			case '"':
				_, _ = builder.WriteRune('"')
			case '\\':
				_, _ = builder.WriteRune('\\')
			case 'n':
				_, _ = builder.WriteRune('\n')
			case 't':
				_, _ = builder.WriteRune('\t')
			case 'r':
				_, _ = builder.WriteRune('\r')
			default:
				_ = self.reporter.Report(self.exc(exc.CodeLexError, "unsupported escape \\"+string(rune(nn.Value()))))
				return optional.None[*idl.Token]()
			}
			_ = self.next(ctx)
		default:
			_ = self.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
		}
	}
}

func (self *lexerFileTDLTokens) punct(kind idl.TokenType, value string) optional.Optional[*idl.Token] {
	t := newTokenLineSpan(self.line, self.col, self.offset, 1, kind, value)
	return optional.Some(t)
}

func (self *lexerFileTDLTokens) next(ctx context.Context) optional.Optional[idl.CodePoint] {
	n := self.body.Next(ctx)
	if n.IsPresent() {
		self.addCol(rune(n.Value()))
	}
	return n
}

func (self *lexerFileTDLTokens) exc(code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: self.uri, Location: idl.Location{Line: self.line, Column: self.col, Offset: self.offset}}, code, message)
}

func (self *lexerFileTDLTokens) newLine() {
	self.line = self.line + 1
	self.col = 0
}

func (self *lexerFileTDLTokens) newLineToken(v string) optional.Optional[*idl.Token] {
	size := int32(len(v))
	t := newToken(self.line, self.col-size+1, self.offset-int64(size)+1, self.line, self.col, self.offset, idl.TokenTypeNewline, v)
	self.newLine()
	return optional.Some(t)
}

func (self *lexerFileTDLTokens) addCol(r rune) {
	self.col = self.col + 1
	self.offset = self.nextOffset
	self.nextOffset = self.nextOffset + int64(len(string(r)))
}

func (self *lexerFileTDLTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}

// newTokenLineSpan builds a token that ends at the given line/col/offset and
// spans size characters backwards on the same line.
func newTokenLineSpan(line int32, col int32, offset int64, size int, kind idl.TokenType, value string) *idl.Token {
	return &idl.Token{
		Span: idl.Span{
			Start: idl.Location{
				Line:   line,
				Column: col - int32(size) + 1,
				Offset: offset - int64(size) + 1,
			},
			End: idl.Location{
				Line:   line,
				Column: col,
				Offset: offset,
			},
		},
		Type:  kind,
		Value: value,
	}
}

func newToken(startLine int32, startCol int32, startOffset int64, endLine int32, endCol int32, endOffset int64, kind idl.TokenType, value string) *idl.Token {
	return &idl.Token{
		Span: idl.Span{
			Start: idl.Location{
				Line:   startLine,
				Column: startCol,
				Offset: startOffset,
			},
			End: idl.Location{
				Line:   endLine,
				Column: endCol,
				Offset: endOffset,
			},
		},
		Type:  kind,
		Value: value,
	}
}
