package compiler

import (
	"context"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/idl"
)

type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file idl.File, dumpTokens bool, dumpTree bool) (*idl.Module, error)
}

func DefaultSubCompilers() map[idl.FileKind]SubCompiler {
	return map[idl.FileKind]SubCompiler{
		idl.FileKindTDL: &SubCompilerTDL{},
	}
}
