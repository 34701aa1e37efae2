package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddToGroupIsIdempotent(t *testing.T) {
	tree := NewTree()
	n := NewNode(KindClass, "QTcpSocket")

	tree.AddToGroup(n, "network")
	tree.AddToGroup(n, "network")

	assert.Equal(t, []Node{n}, tree.Group("network"))
}

func TestGroupsKeepInsertionOrder(t *testing.T) {
	tree := NewTree()
	a := NewNode(KindClass, "B")
	b := NewNode(KindClass, "A")

	tree.AddToGroup(a, "tools")
	tree.AddToGroup(b, "tools")
	tree.AddToGroup(a, "io")

	assert.Equal(t, []Node{a, b}, tree.Group("tools"))
	assert.Equal(t, []string{"io", "tools"}, tree.GroupNames())
	assert.Equal(t, []string{"io", "tools"}, tree.GroupsOf(a))
	assert.Nil(t, tree.Group("missing"))
}

func TestPublicGroupAlsoJoinsGroup(t *testing.T) {
	tree := NewTree()
	n := NewNode(KindClass, "QFile")

	tree.AddToPublicGroup(n, "io")

	assert.Equal(t, []Node{n}, tree.PublicGroup("io"))
	assert.Equal(t, []Node{n}, tree.Group("io"))
}

func TestQmlModuleMembership(t *testing.T) {
	tree := NewTree()
	item := NewQmlClass("Item")
	tree.AddToQmlModule(item, "QtQuick 2")
	tree.AddToQmlModule(item, "QtQuick 2")

	assert.Equal(t, []Node{item}, tree.QmlModule("QtQuick 2"))
	assert.Equal(t, []string{"QtQuick 2"}, tree.QmlModuleNames())
}

func TestAddFile(t *testing.T) {
	tree := NewTree()
	h := tree.AddFile("/repo/src/corelib/qstring.h", true)
	c := tree.AddFile("/repo/src/corelib/qstring.cpp", false)

	assert.Equal(t, "qstring.h", h.Name())
	assert.Equal(t, SubtypeHeaderFile, h.Subtype())
	assert.Equal(t, SubtypeFile, c.Subtype())
	assert.Equal(t, []*PageNode{h, c}, tree.Files())
}
