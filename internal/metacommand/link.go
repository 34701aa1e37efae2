package metacommand

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docparse/internal/doctree"
)

// bracedLink matches "{target}" optionally followed by "{description}".
var bracedLink = regexp.MustCompile(`^\{([^{}]*)\}(?:\{([^{}]*)\})?$`)

// ExtractLink splits a link argument into its target and description. Every
// input yields a result:
//
//	{a}{b}              -> a, b
//	{a}                 -> a, a
//	page.html Some Desc -> page.html, Some Desc
//	anything else       -> arg, arg
func ExtractLink(arg string) (target, description string) {
	if m := bracedLink.FindStringSubmatch(arg); m != nil {
		target, description = m[1], m[2]
		if description == "" {
			description = target
		}
		return target, description
	}

	if strings.Contains(arg, ".html") {
		if before, after, ok := strings.Cut(arg, " "); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return arg, arg
}

// SetLink stores the link described by arg on node under linkType.
func SetLink(node doctree.Node, linkType doctree.LinkType, arg string) {
	target, description := ExtractLink(arg)
	node.SetLink(linkType, target, description)
}
