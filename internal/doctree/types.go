package doctree

// Status is the documentation status of a node. Later metacommands overwrite
// earlier ones, except that Obsolete never replaces Compat.
type Status int

const (
	StatusNone Status = iota
	StatusMain
	StatusCompat
	StatusDeprecated
	StatusObsolete
	StatusPreliminary
	StatusInternal
)

var statusNames = [...]string{
	StatusNone:        "none",
	StatusMain:        "main",
	StatusCompat:      "compat",
	StatusDeprecated:  "deprecated",
	StatusObsolete:    "obsolete",
	StatusPreliminary: "preliminary",
	StatusInternal:    "internal",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Access is the visibility of a node in generated documentation.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// ThreadSafeness classifies how a documented entity may be used from threads.
type ThreadSafeness int

const (
	ThreadSafeUnspecified ThreadSafeness = iota
	NonReentrant
	Reentrant
	ThreadSafe
)

func (t ThreadSafeness) String() string {
	switch t {
	case ThreadSafeUnspecified:
		return "unspecified"
	case NonReentrant:
		return "nonreentrant"
	case Reentrant:
		return "reentrant"
	case ThreadSafe:
		return "threadsafe"
	default:
		return "unknown"
	}
}

// LinkType keys the navigation links a page can carry.
type LinkType int

const (
	LinkStart LinkType = iota
	LinkNext
	LinkPrevious
	LinkContents
	LinkIndex
)

func (l LinkType) String() string {
	switch l {
	case LinkStart:
		return "start"
	case LinkNext:
		return "next"
	case LinkPrevious:
		return "previous"
	case LinkContents:
		return "contents"
	case LinkIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Link is a resolved (target, description) pair.
type Link struct {
	Target      string
	Description string
}

// Kind is the node variant.
type Kind int

const (
	KindNamespace Kind = iota
	KindClass
	KindFunction
	KindProperty
	KindVariable
	KindEnum
	KindPage
	KindQmlClass
)

func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindProperty:
		return "property"
	case KindVariable:
		return "variable"
	case KindEnum:
		return "enum"
	case KindPage:
		return "page"
	case KindQmlClass:
		return "qmlclass"
	default:
		return "unknown"
	}
}

// Subtype distinguishes page-like nodes.
type Subtype int

const (
	SubtypePage Subtype = iota
	SubtypeExample
	SubtypeFile
	SubtypeHeaderFile
	SubtypeGroup
	SubtypeModule
	SubtypeQmlModule
	SubtypeExternalPage
)

func (s Subtype) String() string {
	switch s {
	case SubtypePage:
		return "page"
	case SubtypeExample:
		return "example"
	case SubtypeFile:
		return "file"
	case SubtypeHeaderFile:
		return "headerfile"
	case SubtypeGroup:
		return "group"
	case SubtypeModule:
		return "module"
	case SubtypeQmlModule:
		return "qmlmodule"
	case SubtypeExternalPage:
		return "externalpage"
	default:
		return "unknown"
	}
}

// ParseKind maps a lower-case kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k := KindNamespace; k <= KindQmlClass; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// ParseSubtype maps a lower-case subtype name back to its Subtype.
func ParseSubtype(s string) (Subtype, bool) {
	for st := SubtypePage; st <= SubtypeExternalPage; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// ParseLinkType maps a lower-case link type name back to its LinkType.
func ParseLinkType(s string) (LinkType, bool) {
	for l := LinkStart; l <= LinkIndex; l++ {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}
