package annotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/metacommand"
)

// Report is the annotated state of every manifest node.
type Report struct {
	RunID       string              `yaml:"run_id"`
	Nodes       []NodeState         `yaml:"nodes"`
	Groups      map[string][]string `yaml:"groups,omitempty"`
	QmlModules  map[string][]string `yaml:"qml_modules,omitempty"`
	Unhandled   []string            `yaml:"unhandled,omitempty"`
	Diagnostics []string            `yaml:"diagnostics,omitempty"`
}

// NodeState is one node after its commands were applied.
type NodeState struct {
	Name           string            `yaml:"name"`
	Kind           string            `yaml:"kind"`
	Status         string            `yaml:"status"`
	Access         string            `yaml:"access"`
	ThreadSafeness string            `yaml:"threadsafeness"`
	Module         string            `yaml:"module,omitempty"`
	QmlModule      string            `yaml:"qml_module,omitempty"`
	Since          string            `yaml:"since,omitempty"`
	Keywords       []string          `yaml:"keywords,omitempty"`
	Title          string            `yaml:"title,omitempty"`
	Subtitle       string            `yaml:"subtitle,omitempty"`
	Links          map[string]string `yaml:"links,omitempty"`
}

// Annotator applies manifests through an interpreter.
type Annotator struct {
	interpreter *metacommand.Interpreter
	collector   *diag.Collector
	logger      *slog.Logger
}

// New returns an annotator. Warnings raised by the interpreter must reach
// collector for them to appear in the report.
func New(in *metacommand.Interpreter, collector *diag.Collector, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{interpreter: in, collector: collector, logger: logger}
}

// Apply builds every node of m, applies its commands in order and returns
// the report together with the populated tree.
func (a *Annotator) Apply(ctx context.Context, m *Manifest) (*Report, *doctree.Tree, error) {
	tree := doctree.NewTree()
	report := &Report{RunID: a.interpreter.Run().ID.String()}

	nodes := make([]doctree.Node, 0, len(m.Nodes))
	for _, spec := range m.Nodes {
		node, err := spec.build()
		if err != nil {
			return nil, nil, errors.ValidationError(err.Error()).Build()
		}
		nodes = append(nodes, node)

		for _, c := range spec.Commands {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			if !a.interpreter.Apply(ctx, spec.location(c.Line), c.Command, c.Arg, node, tree) {
				a.logger.Debug("Not a common metacommand", logfields.Command(c.Command), logfields.Node(spec.Name))
				report.Unhandled = append(report.Unhandled, spec.location(c.Line).String()+": \\"+c.Command)
			}
		}
		for _, l := range spec.Links {
			linkType, ok := doctree.ParseLinkType(l.Type)
			if !ok {
				return nil, nil, errors.ValidationError(fmt.Sprintf("node %q: unknown link type %q", spec.Name, l.Type)).Build()
			}
			metacommand.SetLink(node, linkType, l.Arg)
		}
	}

	for _, n := range nodes {
		report.Nodes = append(report.Nodes, stateOf(n))
	}
	report.Groups = membership(tree.GroupNames(), tree.Group)
	report.QmlModules = membership(tree.QmlModuleNames(), tree.QmlModule)
	if a.collector != nil {
		for _, d := range a.collector.Diagnostics() {
			report.Diagnostics = append(report.Diagnostics, d.String())
		}
	}
	return report, tree, nil
}

// Write encodes the report as YAML.
func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode annotate report").Build()
	}
	return enc.Close()
}

func stateOf(n doctree.Node) NodeState {
	s := NodeState{
		Name:           n.Name(),
		Kind:           n.Kind().String(),
		Status:         n.Status().String(),
		Access:         n.Access().String(),
		ThreadSafeness: n.ThreadSafeness().String(),
		Module:         n.ModuleName(),
		QmlModule:      n.QmlModuleIdentifier(),
		Since:          n.Since(),
		Keywords:       n.PageKeywords(),
	}
	if page, ok := doctree.AsPage(n); ok {
		s.Title = page.Title()
		s.Subtitle = page.Subtitle()
	}
	if links := n.Links(); len(links) > 0 {
		s.Links = make(map[string]string, len(links))
		for t, l := range links {
			s.Links[t.String()] = l.Target + " (" + l.Description + ")"
		}
	}
	return s
}

func membership(names []string, members func(string) []doctree.Node) map[string][]string {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string][]string, len(names))
	for _, name := range names {
		for _, n := range members(name) {
			out[name] = append(out[name], n.Name())
		}
	}
	return out
}
