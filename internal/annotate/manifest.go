// Package annotate applies tokenized metacommands from a YAML manifest to a
// fresh documentation tree and reports the resulting node states.
package annotate

import (
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

// Manifest lists the nodes to annotate. It is what a comment tokenizer
// produces: each node with its metacommands in source order.
type Manifest struct {
	Nodes []NodeSpec `yaml:"nodes"`
}

// NodeSpec describes one node and the commands found in its comment.
type NodeSpec struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Subtype  string        `yaml:"subtype,omitempty"`
	File     string        `yaml:"file,omitempty"`
	Commands []CommandSpec `yaml:"commands,omitempty"`
	Links    []LinkSpec    `yaml:"links,omitempty"`
}

// CommandSpec is one (command, argument) pair with its source line.
type CommandSpec struct {
	Command string `yaml:"command"`
	Arg     string `yaml:"arg,omitempty"`
	Line    int    `yaml:"line,omitempty"`
}

// LinkSpec is a navigation link argument such as "{next.html}{Next}".
type LinkSpec struct {
	Type string `yaml:"type"`
	Arg  string `yaml:"arg"`
}

// ReadManifest decodes and validates a manifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to decode annotate manifest").Build()
	}
	for i, n := range m.Nodes {
		if _, err := n.build(); err != nil {
			return nil, errors.ValidationError(err.Error()).WithContext("node_index", i).Build()
		}
		for _, l := range n.Links {
			if _, ok := doctree.ParseLinkType(l.Type); !ok {
				return nil, errors.ValidationError(fmt.Sprintf("node %q: unknown link type %q", n.Name, l.Type)).Build()
			}
		}
	}
	return &m, nil
}

func (n NodeSpec) location(line int) diag.Location {
	return diag.Location{File: n.File, Line: line}
}

// build creates the tree node n describes.
func (n NodeSpec) build() (doctree.Node, error) {
	if n.Name == "" {
		return nil, stderrors.New("node name is required")
	}
	kind, ok := doctree.ParseKind(n.Kind)
	if !ok {
		return nil, fmt.Errorf("node %q: unknown kind %q", n.Name, n.Kind)
	}
	switch kind {
	case doctree.KindPage:
		subtype := doctree.SubtypePage
		if n.Subtype != "" {
			if subtype, ok = doctree.ParseSubtype(n.Subtype); !ok {
				return nil, fmt.Errorf("node %q: unknown subtype %q", n.Name, n.Subtype)
			}
		}
		return doctree.NewPage(n.Name, subtype), nil
	case doctree.KindQmlClass:
		return doctree.NewQmlClass(n.Name), nil
	default:
		if n.Subtype != "" {
			return nil, fmt.Errorf("node %q: subtype is only valid for pages", n.Name)
		}
		return doctree.NewNode(kind, n.Name), nil
	}
}
