// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

package tdl

import (
	"context"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/fs"
	"gopkg.tdl.dev/tdlc/internal/idl"
)

// CheckRoundTrip verifies that a module survives a render and reparse cycle:
// the module is rendered, the output is parsed with a fresh reporter, and
// the reparsed module is rendered again. The check passes when both renders
// are identical. Imports are carried over from the input module because the
// reparsed module has no logical name to resolve them against.
func CheckRoundTrip(ctx context.Context, module *idl.Module) (bool, error) {
	first := Render(module)

	reporter := exc.NewReporter(nil)
	lexer := NewLexerTDL(reporter)
	parser := NewParserTDL(reporter)

	name := module.Name
	if name == "" {
		name = "roundtrip"
	}
	f := fs.NewFileString(name+fs.FileExt, first, idl.FileKindTDL)
	lf, err := lexer.Lex(ctx, f)
	if err != nil {
		return false, err
	}
	reparsed, err := parser.Parse(ctx, lf)
	if err != nil {
		return false, err
	}
	reparsed.Imports = append([]idl.Import(nil), module.Imports...)

	second := Render(reparsed)
	return first == second, nil
}
