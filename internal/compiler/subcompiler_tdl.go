package compiler

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"gopkg.tdl.dev/tdlc/internal/compiler/tdl"
	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/fs"
	"gopkg.tdl.dev/tdlc/internal/idl"
)

type SubCompilerTDL struct{}

func (self *SubCompilerTDL) CompileFile(ctx context.Context, r exc.Reporter, file idl.File, dumpTokens bool, dumpTree bool) (*idl.Module, error) {
	var lexer idl.Lexer = tdl.NewLexerTDL(r)
	var parser idl.Parser = tdl.NewParserTDL(r)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	if dumpTokens {
		if err = dumpFileTokens(ctx, lf); err != nil {
			return nil, err
		}
		// The dump consumed the token stream so the parse needs a fresh one.
		lf, err = lexer.Lex(ctx, file)
		if err != nil {
			return nil, err
		}
	}
	mod, err := parser.Parse(ctx, lf)
	if err != nil {
		return nil, err
	}
	name := idl.LogicalName(file.Path(ctx), fs.FileExt)
	mod.Name = name
	mod.Exports.TemplatePath = name + ".tpl"
	if dumpTree {
		spew.Dump(mod)
	}
	return mod, nil
}

func dumpFileTokens(ctx context.Context, lf idl.LexerFile) error {
	tokens, err := lf.Tokens(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tokens.Close(ctx)
	}()
	for token := tokens.Next(ctx); token.IsPresent(); token = tokens.Next(ctx) {
		fmt.Printf("%-24s", token.Value().Type)
		if token.Value().Type != idl.TokenTypeNewline {
			fmt.Printf("'%s'", token.Value().Value)
		}
		fmt.Println()
	}
	return nil
}
