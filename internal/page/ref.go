package page

import (
	"fmt"

	"github.com/notcome/lmtabstack/internal/ids"
)

// RefKind selects which part of a page a value patch targets.
type RefKind int

const (
	ContentRef RefKind = iota
	WrapperRef
	ElementRef
	MorphingRef
)

// Ref addresses a page's content view, its wrapper, one of its transition
// elements, or one of its morphing views.
type Ref struct {
	Kind     RefKind
	Page     ids.PageID
	Element  ids.TransitionElementID
	Morphing ids.MorphingViewID
}

func Content(p ids.PageID) Ref { return Ref{Kind: ContentRef, Page: p} }
func Wrapper(p ids.PageID) Ref { return Ref{Kind: WrapperRef, Page: p} }

func Element(p ids.PageID, e ids.TransitionElementID) Ref {
	return Ref{Kind: ElementRef, Page: p, Element: e}
}

func Morphing(p ids.PageID, m ids.MorphingViewID) Ref {
	return Ref{Kind: MorphingRef, Page: p, Morphing: m}
}

// Prefix is the keyPath prefix shared by every ref of page p.
func Prefix(p ids.PageID) string { return "page:" + p.String() + "/" }

// KeyPath is the backend keyPath prefix for this ref.
func (r Ref) KeyPath() string {
	switch r.Kind {
	case WrapperRef:
		return Prefix(r.Page) + "wrapper"
	case ElementRef:
		return Prefix(r.Page) + "element:" + r.Element.String()
	case MorphingRef:
		return Prefix(r.Page) + "morphing:" + r.Morphing.String()
	}
	return Prefix(r.Page) + "content"
}

func (r Ref) String() string { return r.KeyPath() }

func (k RefKind) String() string {
	switch k {
	case ContentRef:
		return "content"
	case WrapperRef:
		return "wrapper"
	case ElementRef:
		return "element"
	case MorphingRef:
		return "morphing"
	}
	return fmt.Sprintf("ref(%d)", int(k))
}
