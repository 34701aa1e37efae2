// Package doctree holds the in-memory documentation model that parser
// plugins populate and metacommands annotate.
package doctree

import (
	"maps"
	"strings"

	"git.home.luguber.info/inful/docparse/internal/util/sets"
)

// Node is the mutation and query surface shared by every node variant.
// Variant-specific operations are reached through AsPage and AsQmlClass.
type Node interface {
	Name() string
	Kind() Kind

	Status() Status
	SetStatus(Status)
	Access() Access
	SetAccess(Access)
	ThreadSafeness() ThreadSafeness
	SetThreadSafeness(ThreadSafeness)

	ModuleName() string
	SetModuleName(string)
	QmlModuleName() string
	QmlModuleVersion() string
	QmlModuleIdentifier() string
	SetQmlModuleName(string)

	Since() string
	SetSince(string)
	PageKeywords() []string
	AddPageKeywords(string)

	Link(LinkType) (Link, bool)
	Links() map[LinkType]Link
	SetLink(t LinkType, target, description string)
}

// BaseNode implements Node. Code entities use it directly; page and QML
// variants embed it.
type BaseNode struct {
	name             string
	kind             Kind
	status           Status
	access           Access
	threadSafeness   ThreadSafeness
	moduleName       string
	qmlModuleName    string
	qmlModuleVersion string
	since            string
	keywords         *sets.Ordered[string]
	links            map[LinkType]Link
}

// NewNode returns a code-entity node.
func NewNode(kind Kind, name string) *BaseNode {
	return &BaseNode{name: name, kind: kind}
}

func (n *BaseNode) Name() string { return n.name }
func (n *BaseNode) Kind() Kind   { return n.kind }

func (n *BaseNode) Status() Status     { return n.status }
func (n *BaseNode) SetStatus(s Status) { n.status = s }
func (n *BaseNode) Access() Access     { return n.access }
func (n *BaseNode) SetAccess(a Access) { n.access = a }

func (n *BaseNode) ThreadSafeness() ThreadSafeness     { return n.threadSafeness }
func (n *BaseNode) SetThreadSafeness(t ThreadSafeness) { n.threadSafeness = t }

func (n *BaseNode) ModuleName() string       { return n.moduleName }
func (n *BaseNode) SetModuleName(m string)   { n.moduleName = m }
func (n *BaseNode) QmlModuleName() string    { return n.qmlModuleName }
func (n *BaseNode) QmlModuleVersion() string { return n.qmlModuleVersion }

// SetQmlModuleName takes the "<Module> <version>" argument of \inqmlmodule.
// The version is optional.
func (n *BaseNode) SetQmlModuleName(arg string) {
	fields := strings.Fields(arg)
	n.qmlModuleName, n.qmlModuleVersion = "", ""
	if len(fields) > 0 {
		n.qmlModuleName = fields[0]
	}
	if len(fields) > 1 {
		n.qmlModuleVersion = fields[1]
	}
}

// QmlModuleIdentifier is the module name followed by the major version,
// "QtQuick 2.0" gives "QtQuick2".
func (n *BaseNode) QmlModuleIdentifier() string {
	major, _, _ := strings.Cut(n.qmlModuleVersion, ".")
	return n.qmlModuleName + major
}

func (n *BaseNode) Since() string     { return n.since }
func (n *BaseNode) SetSince(s string) { n.since = s }

// PageKeywords returns the keywords in the order they were first added.
func (n *BaseNode) PageKeywords() []string {
	if n.keywords == nil {
		return nil
	}
	return n.keywords.Values()
}

// AddPageKeywords records a keyword; repeats are ignored.
func (n *BaseNode) AddPageKeywords(k string) {
	if n.keywords == nil {
		n.keywords = sets.NewOrdered[string]()
	}
	n.keywords.Add(k)
}

func (n *BaseNode) Link(t LinkType) (Link, bool) {
	l, ok := n.links[t]
	return l, ok
}

func (n *BaseNode) Links() map[LinkType]Link {
	return maps.Clone(n.links)
}

func (n *BaseNode) SetLink(t LinkType, target, description string) {
	if n.links == nil {
		n.links = make(map[LinkType]Link)
	}
	n.links[t] = Link{Target: target, Description: description}
}

// PageNode is a standalone documentation page.
type PageNode struct {
	BaseNode
	subtype  Subtype
	title    string
	subtitle string
}

// NewPage returns a page-like node.
func NewPage(name string, subtype Subtype) *PageNode {
	return &PageNode{BaseNode: BaseNode{name: name, kind: KindPage}, subtype: subtype}
}

func (p *PageNode) Subtype() Subtype     { return p.subtype }
func (p *PageNode) Title() string        { return p.title }
func (p *PageNode) SetTitle(t string)    { p.title = t }
func (p *PageNode) Subtitle() string     { return p.subtitle }
func (p *PageNode) SetSubtitle(s string) { p.subtitle = s }
func (p *PageNode) IsExample() bool      { return p.subtype == SubtypeExample }

// QmlClassNode documents a QML type.
type QmlClassNode struct {
	BaseNode
}

// NewQmlClass returns a QML-class-like node.
func NewQmlClass(name string) *QmlClassNode {
	return &QmlClassNode{BaseNode: BaseNode{name: name, kind: KindQmlClass}}
}

// AsPage reports whether n is page-like and returns it as such.
func AsPage(n Node) (*PageNode, bool) {
	p, ok := n.(*PageNode)
	return p, ok && p != nil
}

// AsQmlClass reports whether n is QML-class-like and returns it as such.
func AsQmlClass(n Node) (*QmlClassNode, bool) {
	q, ok := n.(*QmlClassNode)
	return q, ok && q != nil
}
