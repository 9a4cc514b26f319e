package compiler

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/idl"
)

type Option func(c *compiler) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithMaxConcurrency(max int) Option {
	return func(c *compiler) error {
		c.MaxConcurrency = max
		return nil
	}
}

func New(opts ...Option) (idl.Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers()
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	MaxConcurrency int
	Reporter       exc.Reporter
	SubCompilers   map[idl.FileKind]SubCompiler
}

func (self *compiler) Compile(ctx context.Context, req *idl.CompileRequest) (*idl.CompileResponse, error) {
	targets := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		targets = append(targets, self.targetURI(ctx, f))
	}
	files := make([]idl.File, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		in, err := self.FS.Open(ctx, target)
		if err != nil {
			return nil, err
		}
		for _, inf := range in {
			if inf.Kind(ctx) == idl.FileKindNone {
				continue
			}
			if seen[inf.Path(ctx)] {
				continue
			}
			seen[inf.Path(ctx)] = true
			files = append(files, inf)
		}
	}

	// Files compile in parallel but the image preserves the target order so
	// the output is deterministic.
	sources := make([]*idl.Source, len(files))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(self.MaxConcurrency)
	for x, file := range files {
		x := x
		file := file
		group.Go(func() error {
			mod, err := self.compileFile(gctx, file, req.DumpTokens, req.DumpTree)
			if err != nil {
				return err
			}
			if mod != nil {
				sources[x] = &idl.Source{
					Path:   file.Path(gctx),
					Module: mod,
				}
			}
			return nil
		})
	}
	waitErr := group.Wait()

	final := &idl.Image{}
	for _, source := range sources {
		if source != nil {
			final.Sources = append(final.Sources, source)
		}
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return &idl.CompileResponse{Image: final}, MultiException(caught)
	}
	if waitErr != nil {
		return &idl.CompileResponse{Image: final}, waitErr
	}
	return &idl.CompileResponse{Image: final}, nil
}

func (self *compiler) compileFile(ctx context.Context, file idl.File, dumpTokens bool, dumpTree bool) (*idl.Module, error) {
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, "Unsupported file format")
		return nil, self.Reporter.Report(e)
	}
	return sc.CompileFile(ctx, self.Reporter, file, dumpTokens, dumpTree)
}

func (self *compiler) targetURI(ctx context.Context, target string) string {
	// The compiler allows targets to be any valid URI or file path. When
	// the target is a file path or a file URI then we convert the paths to
	// an absolute form in order to work with the local implementation of
	// the FileSystem interface. All non-file URIs are left as-is with the
	// expectation that they will be handled by some other implementation.
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return target
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
