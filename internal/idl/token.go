package idl

import "fmt"

// Location is a position in a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

// Span covers a token from its first character to its last, inclusive.
type Span struct {
	Start Location
	End   Location
}

type Token struct {
	Span  Span
	Type  TokenType
	Value string
}

type TokenType uint16

const (
	TokenTypeUnknown TokenType = iota
	// TokenTypeIdentifierLower starts with a lowercase letter and names
	// fields and annotations.
	TokenTypeIdentifierLower
	// TokenTypeIdentifierUpper starts with an uppercase letter and names
	// modules and types.
	TokenTypeIdentifierUpper
	// TokenTypeIdentifierDigit starts with a digit and is only valid as a
	// package name segment.
	TokenTypeIdentifierDigit
	TokenTypeText
	TokenTypeComment
	TokenTypeNewline
	TokenTypeCurlyOpen
	TokenTypeCurlyClose
	TokenTypeSquareOpen
	TokenTypeSquareClose
	TokenTypeAngleOpen
	TokenTypeAngleClose
	TokenTypeColon
	TokenTypeEqual
	TokenTypePipe
	TokenTypeComma
	TokenTypeDot
	TokenTypeKeywordScala
	TokenTypeKeywordPurs
	TokenTypeKeywordImport
	TokenTypeKeywordType
	TokenTypeKeywordWrap
	TokenTypeKeywordBoolean
	TokenTypeKeywordInt
	TokenTypeKeywordDecimal
	TokenTypeKeywordString
	TokenTypeKeywordArray
	TokenTypeKeywordMaybe
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeIdentifierLower:
		return "identifier"
	case TokenTypeIdentifierUpper:
		return "type name"
	case TokenTypeIdentifierDigit:
		return "digit-leading identifier"
	case TokenTypeText:
		return "text literal"
	case TokenTypeComment:
		return "comment"
	case TokenTypeNewline:
		return "newline"
	case TokenTypeCurlyOpen:
		return "'{'"
	case TokenTypeCurlyClose:
		return "'}'"
	case TokenTypeSquareOpen:
		return "'['"
	case TokenTypeSquareClose:
		return "']'"
	case TokenTypeAngleOpen:
		return "'<'"
	case TokenTypeAngleClose:
		return "'>'"
	case TokenTypeColon:
		return "':'"
	case TokenTypeEqual:
		return "'='"
	case TokenTypePipe:
		return "'|'"
	case TokenTypeComma:
		return "','"
	case TokenTypeDot:
		return "'.'"
	case TokenTypeKeywordScala:
		return "'scala'"
	case TokenTypeKeywordPurs:
		return "'purs'"
	case TokenTypeKeywordImport:
		return "'import'"
	case TokenTypeKeywordType:
		return "'type'"
	case TokenTypeKeywordWrap:
		return "'wrap'"
	case TokenTypeKeywordBoolean:
		return "'Boolean'"
	case TokenTypeKeywordInt:
		return "'Int'"
	case TokenTypeKeywordDecimal:
		return "'Decimal'"
	case TokenTypeKeywordString:
		return "'String'"
	case TokenTypeKeywordArray:
		return "'Array'"
	case TokenTypeKeywordMaybe:
		return "'Maybe'"
	default:
		return fmt.Sprintf("unknown-token-%d", uint16(t))
	}
}
