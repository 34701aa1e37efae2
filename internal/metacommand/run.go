package metacommand

import (
	"context"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/titleindex"
)

// Run is the state of one documentation run: the settings read from
// configuration and the lookups that metacommands populate.
type Run struct {
	ID           uuid.UUID
	ShowInternal bool

	titles     titleindex.Index
	examples   map[string]*doctree.PageNode
	qmlClasses map[string]*doctree.QmlClassNode
}

// NewRun starts a run backed by titles. A nil index is replaced by an
// in-memory one.
func NewRun(showInternal bool, titles titleindex.Index) *Run {
	if titles == nil {
		titles = titleindex.NewMemoryIndex()
	}
	return &Run{
		ID:           uuid.New(),
		ShowInternal: showInternal,
		titles:       titles,
		examples:     make(map[string]*doctree.PageNode),
		qmlClasses:   make(map[string]*doctree.QmlClassNode),
	}
}

// TitleFromName returns the title recorded for the page called name, or ""
// if there is none.
func (r *Run) TitleFromName(ctx context.Context, name string) (string, error) {
	title, _, err := r.titles.Title(ctx, name)
	return title, err
}

// Titles returns the underlying title index.
func (r *Run) Titles() titleindex.Index { return r.titles }

// Example returns the example page registered under title.
func (r *Run) Example(title string) (*doctree.PageNode, bool) {
	p, ok := r.examples[title]
	return p, ok
}

// Examples returns the number of registered example pages.
func (r *Run) Examples() int { return len(r.examples) }

// QmlClass returns the QML type registered under "<moduleIdentifier>::<name>".
func (r *Run) QmlClass(key string) (*doctree.QmlClassNode, bool) {
	q, ok := r.qmlClasses[key]
	return q, ok
}

// QmlClassKey builds the lookup key used by QmlClass.
func QmlClassKey(moduleIdentifier, name string) string {
	return moduleIdentifier + "::" + name
}

// Close releases the title index.
func (r *Run) Close() error {
	return r.titles.Close()
}
