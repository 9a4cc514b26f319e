package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"gopkg.tdl.dev/tdlc/internal/idl"
)

// descriptorVersion is bumped whenever the descriptor schema changes in a
// way old readers cannot handle.
const descriptorVersion = 1

// Descriptor is a compact snapshot of a compiled image, written next to the
// generated output so downstream tooling can consume module metadata without
// reparsing TDL sources.
type Descriptor struct {
	Version int                `msgpack:"version"`
	Modules []ModuleDescriptor `msgpack:"modules"`
}

type ModuleDescriptor struct {
	Name         string   `msgpack:"name"`
	Path         string   `msgpack:"path"`
	ScalaPackage string   `msgpack:"scala_package"`
	PursPackage  string   `msgpack:"purs_package"`
	TemplatePath string   `msgpack:"template_path"`
	Imports      []string `msgpack:"imports"`
	Types        []string `msgpack:"types"`
	References   []string `msgpack:"references"`
}

func NewDescriptor(image *idl.Image) *Descriptor {
	d := &Descriptor{
		Version: descriptorVersion,
		Modules: make([]ModuleDescriptor, 0, len(image.Sources)),
	}
	for _, source := range image.Sources {
		mod := source.Module
		md := ModuleDescriptor{
			Name:         mod.Name,
			Path:         source.Path,
			ScalaPackage: mod.Exports.ScalaPackage,
			PursPackage:  mod.Exports.PursPackage,
			TemplatePath: mod.Exports.TemplatePath,
		}
		for _, imp := range mod.Imports {
			md.Imports = append(md.Imports, string(imp))
		}
		refs := make(map[string]bool)
		for _, decl := range mod.TypeDecls {
			md.Types = append(md.Types, decl.Name)
		}
		idl.WalkTypes(mod, func(typ idl.Type) {
			if ref, ok := typ.(idl.Ref); ok {
				name := ref.Target.String()
				if !refs[name] {
					refs[name] = true
					md.References = append(md.References, name)
				}
			}
		})
		d.Modules = append(d.Modules, md)
	}
	return d
}

// WriteDescriptor writes the descriptor through a temp file and rename so a
// concurrent reader never observes a partial descriptor.
func WriteDescriptor(path string, d *Descriptor) error {
	b, err := msgpack.Marshal(d)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, os.ModeDir|0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ReadDescriptor(path string) (*Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{}
	if err = msgpack.Unmarshal(b, d); err != nil {
		return nil, err
	}
	if d.Version != descriptorVersion {
		return nil, fmt.Errorf("unsupported descriptor version %d (expecting %d)", d.Version, descriptorVersion)
	}
	return d, nil
}
