// Package document reads modules and module interfaces from YAML documents, and writes interfaces back.
//
// A module document looks like
//
//	path: app/main
//	imports: [core/list]
//	exports: [add]
//	types:
//	  Point:
//	    record: {x: Number, y: Number}
//	definitions:
//	  add:
//	    arguments: [x, y]
//	    body: {add: [x, y]}
//	  main: {apply: [add, 1, 2]}
//
// Definitions and record fields keep the order they are written in.
package document

import (
	"bytes"
	"fmt"
	"go/token"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/util"
)

type moduleDocument struct {
	Path        string    `yaml:"path"`
	Imports     []string  `yaml:"imports"`
	Exports     []string  `yaml:"exports"`
	Types       yaml.Node `yaml:"types"`
	Definitions yaml.Node `yaml:"definitions"`
}

type interfaceDocument struct {
	Path      string    `yaml:"path"`
	Types     yaml.Node `yaml:"types"`
	Variables yaml.Node `yaml:"variables"`
}

// Module is a module read from a document.
// Its Imports are the paths of the modules it imports; their interfaces are
// up to the caller to provide.
type Module struct {
	*ast.Module
	ImportPaths []string
}

// DecodeModule reads the module document content, registering it in fset as filename
// so that compile errors can be located in it.
func DecodeModule(fset *token.FileSet, filename string, content []byte) (*Module, error) {
	var doc moduleDocument
	if err := decodeStrict(content, &doc); err != nil {
		return nil, errors.Wrapf(err, "could not decode module document %s", filename)
	}
	d := newDecoder(fset, filename, content)
	if doc.Path == "" {
		return nil, d.errorf(nil, "module document has no path")
	}

	typeDefinitions, err := d.typeDefinitions(&doc.Types)
	if err != nil {
		return nil, err
	}
	definitions, err := d.definitions(&doc.Definitions)
	if err != nil {
		return nil, err
	}
	return &Module{
		Module: &ast.Module{
			Path:            doc.Path,
			Exports:         doc.Exports,
			TypeDefinitions: typeDefinitions,
			Definitions:     definitions,
		},
		ImportPaths: doc.Imports,
	}, nil
}

// DecodeInterface reads an interface document, as written by EncodeInterface
func DecodeInterface(fset *token.FileSet, filename string, content []byte) (*ast.ModuleInterface, error) {
	var doc interfaceDocument
	if err := decodeStrict(content, &doc); err != nil {
		return nil, errors.Wrapf(err, "could not decode interface document %s", filename)
	}
	d := newDecoder(fset, filename, content)
	i := ast.NewModuleInterface(doc.Path)
	for _, def := range entries(&doc.Types) {
		t, err := d.typ(def.Snd, def.Fst.Value)
		if err != nil {
			return nil, err
		}
		i.Types[def.Fst.Value] = t
	}
	for _, def := range entries(&doc.Variables) {
		t, err := d.typ(def.Snd, "")
		if err != nil {
			return nil, err
		}
		i.Variables[def.Fst.Value] = t
	}
	return i, nil
}

// EncodeInterface writes i as a document, with names in order
func EncodeInterface(i *ast.ModuleInterface) ([]byte, error) {
	doc := interfaceDocument{
		Path:      i.Path,
		Types:     yaml.Node{Kind: yaml.MappingNode},
		Variables: yaml.Node{Kind: yaml.MappingNode},
	}
	for _, name := range util.SortedKeys(i.Types) {
		doc.Types.Content = append(doc.Types.Content, scalar(name), typeNode(i.Types[name], name))
	}
	for _, name := range util.SortedKeys(i.Variables) {
		doc.Variables.Content = append(doc.Variables.Content, scalar(name), typeNode(i.Variables[name], ""))
	}
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrapf(err, "could not encode interface of %s", i.Path)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeStrict(content []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	return dec.Decode(out)
}

type decoder struct {
	file *token.File
}

func newDecoder(fset *token.FileSet, filename string, content []byte) *decoder {
	file := fset.AddFile(filename, -1, len(content))
	file.SetLinesForContent(content)
	return &decoder{file: file}
}

// at locates n in the document. Nodes without a position are located at the start of the file.
func (d *decoder) at(n *yaml.Node) source.Range {
	if n == nil || n.Line < 1 || n.Line > d.file.LineCount() {
		return source.Range{PosStart: token.Pos(d.file.Base()), PosEnd: token.Pos(d.file.Base())}
	}
	pos := d.file.LineStart(n.Line) + token.Pos(n.Column-1)
	return source.Range{PosStart: pos, PosEnd: pos}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return ilerr.New(ilerr.NewSyntax{Positioner: d.at(n), Message: fmt.Sprintf(format, args...)})
}

// entries returns the key-value pairs of a mapping node, in order.
// Anything but a mapping has no entries.
func entries(n *yaml.Node) []util.Pair[*yaml.Node, *yaml.Node] {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([]util.Pair[*yaml.Node, *yaml.Node], 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, util.NewPair(n.Content[i], n.Content[i+1]))
	}
	return pairs
}

// fields returns the values of a mapping node by key, and fails on keys other than allowed
func (d *decoder) fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping with keys %v", allowed)
	}
	out := make(map[string]*yaml.Node, len(allowed))
outer:
	for _, entry := range entries(n) {
		for _, key := range allowed {
			if entry.Fst.Value == key {
				out[key] = entry.Snd
				continue outer
			}
		}
		return nil, d.errorf(entry.Fst, "unexpected key '%s', expected one of %v", entry.Fst.Value, allowed)
	}
	return out, nil
}

func (d *decoder) name(n *yaml.Node) (string, error) {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" || n.Value == "" {
		return "", d.errorf(n, "expected a name")
	}
	return n.Value, nil
}

func (d *decoder) names(n *yaml.Node) ([]string, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of names")
	}
	return util.MapSliceErr(n.Content, d.name)
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
