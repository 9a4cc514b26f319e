package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"gopkg.tdl.dev/tdlc/internal/compiler"
	"gopkg.tdl.dev/tdlc/internal/compiler/tdl"
	"gopkg.tdl.dev/tdlc/internal/fs"
	"gopkg.tdl.dev/tdlc/internal/idl"
	"gopkg.tdl.dev/tdlc/internal/project"
)

type opts struct {
	Roots         []string
	Check         bool
	Format        bool
	DescriptorOut string
	DumpTokens    bool
	DumpTree      bool
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	fileLabel  = color.New(color.Bold)
)

func fatal(format string, args ...any) {
	_, _ = errorLabel.Fprint(os.Stderr, "error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("tdlc", pflag.PanicOnError)
	flags.StringSliceVar(&op.Roots, "root", nil, "Root search paths for modules and imports.")
	flags.BoolVar(&op.Check, "check", false, "Verify that each module renders and reparses to the same source.")
	flags.BoolVar(&op.Format, "format", false, "Print the canonical rendering of each module to STDOUT.")
	flags.StringVar(&op.DescriptorOut, "descriptor-out", "", "Write a descriptor snapshot of the compiled modules to FILE.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream as it is processed.")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Output the parse tree after parsing.")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	manifest, found, err := project.Load(".")
	if err != nil {
		fatal("%s", err)
	}

	roots := op.Roots
	if found {
		roots = append(roots, manifest.SourceRoots()...)
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}

	dfs, err := compiler.NewDefaultFS(os.LookupEnv)
	if err != nil {
		fatal("%s", err)
	}
	mf := make(fs.FileSystemMulti, 0, len(roots)+1)
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			fatal("%s", errAbs)
		}
		rf, errRoot := fs.NewFileSystemLocal(absRoot)
		if errRoot != nil {
			fatal("%s", errRoot)
		}
		mf = append(mf, rf)
	}
	mf = append(mf, dfs)

	if len(targets) == 0 {
		// With no explicit targets compile every module under the first root
		// that contains any.
		targets = []string{"/"}
	}

	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(mf),
	)
	if err != nil {
		fatal("%s", err)
	}

	out, err := c.Compile(ctx, &idl.CompileRequest{
		Files:      targets,
		DumpTokens: op.DumpTokens,
		DumpTree:   op.DumpTree,
	})
	if err != nil {
		_, _ = errorLabel.Fprintln(os.Stderr, "compilation failed")
		fmt.Fprintln(os.Stderr, compiler.FormatError(err))
		os.Exit(1)
	}

	if op.Check {
		failed := false
		for _, source := range out.Image.Sources {
			ok, errCheck := tdl.CheckRoundTrip(ctx, source.Module)
			if errCheck != nil {
				fatal("%s: %s", source.Path, errCheck)
			}
			if !ok {
				failed = true
				_, _ = fileLabel.Fprint(os.Stderr, source.Path)
				fmt.Fprintln(os.Stderr, ": rendering is not stable under reparse")
			}
		}
		if failed {
			os.Exit(1)
		}
	}

	if op.Format {
		for x, source := range out.Image.Sources {
			if len(out.Image.Sources) > 1 {
				if x > 0 {
					fmt.Println()
				}
				_, _ = fileLabel.Printf("// %s\n", source.Path)
			}
			fmt.Print(tdl.Render(source.Module))
		}
	}

	if op.DescriptorOut != "" {
		d := compiler.NewDescriptor(out.Image)
		if errDesc := compiler.WriteDescriptor(op.DescriptorOut, d); errDesc != nil {
			fatal("%s", errDesc)
		}
	}

	if !op.Format {
		fmt.Printf("compiled %d modules\n", len(out.Image.Sources))
	}
}
