package metacommand

import (
	"context"
	"slices"

	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
)

// Command names a metacommand as written after the backslash.
type Command string

const (
	CommandCompat        Command = "compat"
	CommandDeprecated    Command = "deprecated"
	CommandInGroup       Command = "ingroup"
	CommandInPublicGroup Command = "inpublicgroup"
	CommandInModule      Command = "inmodule"
	CommandInQmlModule   Command = "inqmlmodule"
	CommandMainClass     Command = "mainclass"
	CommandObsolete      Command = "obsolete"
	CommandNonReentrant  Command = "nonreentrant"
	CommandPreliminary   Command = "preliminary"
	CommandInternal      Command = "internal"
	CommandReentrant     Command = "reentrant"
	CommandSince         Command = "since"
	CommandPageKeywords  Command = "pagekeywords"
	CommandSubtitle      Command = "subtitle"
	CommandThreadSafe    Command = "threadsafe"
	CommandTitle         Command = "title"
)

// request carries one metacommand occurrence to its handler.
type request struct {
	ctx     context.Context
	loc     diag.Location
	command Command
	arg     string
	node    doctree.Node
	tree    *doctree.Tree
}

type handler func(in *Interpreter, r request)

// setStatus returns a handler that unconditionally sets the status.
func setStatus(s doctree.Status) handler {
	return func(_ *Interpreter, r request) { r.node.SetStatus(s) }
}

// setThreadSafeness returns a handler that sets the thread-safety class.
func setThreadSafeness(ts doctree.ThreadSafeness) handler {
	return func(_ *Interpreter, r request) { r.node.SetThreadSafeness(ts) }
}

// commonCommands is the dispatch table for the metacommands every language
// shares.
var commonCommands = map[Command]handler{
	CommandCompat:        (*Interpreter).compat,
	CommandDeprecated:    setStatus(doctree.StatusDeprecated),
	CommandInGroup:       func(_ *Interpreter, r request) { r.tree.AddToGroup(r.node, r.arg) },
	CommandInPublicGroup: func(_ *Interpreter, r request) { r.tree.AddToPublicGroup(r.node, r.arg) },
	CommandInModule:      func(_ *Interpreter, r request) { r.node.SetModuleName(r.arg) },
	CommandInQmlModule:   (*Interpreter).inQmlModule,
	CommandMainClass:     setStatus(doctree.StatusMain),
	CommandObsolete:      obsolete,
	CommandNonReentrant:  setThreadSafeness(doctree.NonReentrant),
	CommandPreliminary:   setStatus(doctree.StatusPreliminary),
	CommandInternal:      (*Interpreter).internal,
	CommandReentrant:     setThreadSafeness(doctree.Reentrant),
	CommandSince:         func(_ *Interpreter, r request) { r.node.SetSince(r.arg) },
	CommandPageKeywords:  func(_ *Interpreter, r request) { r.node.AddPageKeywords(r.arg) },
	CommandSubtitle:      (*Interpreter).subtitle,
	CommandThreadSafe:    setThreadSafeness(doctree.ThreadSafe),
	CommandTitle:         (*Interpreter).title,
}

// Commands returns the recognized metacommands, sorted by name.
func Commands() []Command {
	out := make([]Command, 0, len(commonCommands))
	for c := range commonCommands {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// IsCommand reports whether name is a recognized metacommand.
func IsCommand(name string) bool {
	_, ok := commonCommands[Command(name)]
	return ok
}

// obsolete never overrides a Compat status.
func obsolete(_ *Interpreter, r request) {
	if r.node.Status() != doctree.StatusCompat {
		r.node.SetStatus(doctree.StatusObsolete)
	}
}
