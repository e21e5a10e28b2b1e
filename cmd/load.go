package cmd

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/document"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/ilec"
	"github.com/cottand/ilec/ir"
)

// program is every module given on the command line, compiled in order
type program struct {
	fset       *token.FileSet
	modules    []*ir.Module
	interfaces map[string]*ast.ModuleInterface
}

// compile reads the module documents at paths, which may be folders of documents, and the interface documents at imports,
// and compiles the modules in the order they are given
func compile(paths, imports []string, cfg ilec.Configuration) (*program, error) {
	p := &program{fset: token.NewFileSet(), interfaces: make(map[string]*ast.ModuleInterface)}
	for _, at := range imports {
		content, err := os.ReadFile(at)
		if err != nil {
			return nil, fmt.Errorf("could not read interface: %w", err)
		}
		iface, err := document.DecodeInterface(p.fset, at, content)
		if err != nil {
			return nil, p.explain(err)
		}
		p.interfaces[iface.Path] = iface
	}

	paths, err := expand(paths)
	if err != nil {
		return nil, err
	}
	units := make([]ilec.Unit, 0, len(paths))
	for _, at := range paths {
		content, err := os.ReadFile(at)
		if err != nil {
			return nil, fmt.Errorf("could not read module: %w", err)
		}
		m, err := document.DecodeModule(p.fset, at, content)
		if err != nil {
			return nil, p.explain(err)
		}
		units = append(units, ilec.Unit{Module: m.Module, Imports: m.ImportPaths})
	}

	modules, err := ilec.Build(units, p.interfaces, cfg)
	if err != nil {
		return nil, p.explain(err)
	}
	p.modules = modules
	return p, nil
}

// expand replaces every folder in paths by the module documents in it, in name order
func expand(paths []string) ([]string, error) {
	var out []string
	for _, at := range paths {
		stat, err := os.Stat(at)
		if err != nil {
			return nil, fmt.Errorf("could not stat target: %w", err)
		}
		if !stat.IsDir() {
			out = append(out, at)
			continue
		}
		entries, err := os.ReadDir(at)
		if err != nil {
			return nil, fmt.Errorf("could not read folder: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".interface.yaml") {
				out = append(out, filepath.Join(at, entry.Name()))
			}
		}
	}
	return out, nil
}

// explain renders compile errors with their position in the documents they come from
func (p *program) explain(err error) error {
	if ileErr, ok := ilerr.As(err); ok {
		return fmt.Errorf("errors found during compilation:\n%s", ilerr.FormatWithPosition(ileErr, p.fset))
	}
	return fmt.Errorf("could not compile: %w", err)
}
