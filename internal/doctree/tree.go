package doctree

import (
	"path/filepath"
	"slices"
	"sort"

	"git.home.luguber.info/inful/docparse/internal/util/sets"
)

type membership map[string]*sets.Ordered[Node]

func (m membership) add(name string, n Node) {
	s, ok := m[name]
	if !ok {
		s = sets.NewOrdered[Node]()
		m[name] = s
	}
	s.Add(n)
}

func (m membership) members(name string) []Node {
	if s, ok := m[name]; ok {
		return s.Values()
	}
	return nil
}

func (m membership) names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tree owns the group, public group and QML module memberships built while
// parsing. A node may belong to several groups; adding it twice to the same
// group is a no-op.
type Tree struct {
	groups       membership
	publicGroups membership
	qmlModules   membership
	files        []*PageNode
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		groups:       make(membership),
		publicGroups: make(membership),
		qmlModules:   make(membership),
	}
}

// AddToGroup adds n to the group called name.
func (t *Tree) AddToGroup(n Node, name string) {
	t.groups.add(name, n)
}

// AddToPublicGroup adds n to the public group called name. Public group
// members are also members of the plain group.
func (t *Tree) AddToPublicGroup(n Node, name string) {
	t.publicGroups.add(name, n)
	t.AddToGroup(n, name)
}

// AddToQmlModule adds n to the QML module called name.
func (t *Tree) AddToQmlModule(n Node, name string) {
	t.qmlModules.add(name, n)
}

// Group returns the members of a group in insertion order.
func (t *Tree) Group(name string) []Node { return t.groups.members(name) }

// PublicGroup returns the members of a public group in insertion order.
func (t *Tree) PublicGroup(name string) []Node { return t.publicGroups.members(name) }

// QmlModule returns the members of a QML module in insertion order.
func (t *Tree) QmlModule(name string) []Node { return t.qmlModules.members(name) }

// GroupNames returns every group name, sorted.
func (t *Tree) GroupNames() []string { return t.groups.names() }

// QmlModuleNames returns every QML module name, sorted.
func (t *Tree) QmlModuleNames() []string { return t.qmlModules.names() }

// GroupsOf returns the sorted names of the groups n belongs to.
func (t *Tree) GroupsOf(n Node) []string {
	var out []string
	for name, s := range t.groups {
		if s.Has(n) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// AddFile records a parsed file as a file page named after its base name and
// returns it. Header files get SubtypeHeaderFile.
func (t *Tree) AddFile(path string, header bool) *PageNode {
	subtype := SubtypeFile
	if header {
		subtype = SubtypeHeaderFile
	}
	page := NewPage(filepath.Base(path), subtype)
	t.files = append(t.files, page)
	return page
}

// Files returns the file pages in the order they were added.
func (t *Tree) Files() []*PageNode {
	return slices.Clone(t.files)
}
