package navigation

import (
	"github.com/vango-dev/maproute/pkg/routepath"
)

// Port is the boundary to the browser: its History API, the popstate event
// and anchor click interception.
type Port interface {
	// Origin returns the scheme and host of the page, e.g.
	// "https://www.openstreetmap.org".
	Origin() string

	// Location returns the current location of the page.
	Location() routepath.Location

	// PushPath adds a history entry for url and makes it current.
	PushPath(url string) error

	// ReplacePath replaces the current history entry with url.
	ReplacePath(url string) error

	// NotifyHashChange raises a hashchange event for listeners outside the
	// router.
	NotifyHashChange(oldURL, newURL string)

	// OnPopNavigation registers the handler for back/forward navigation.
	// A nil handler unregisters.
	OnPopNavigation(fn func(routepath.Location))

	// OnLinkIntercept registers the handler for anchor clicks. The handler
	// reports whether it took over the click; if not, the browser performs
	// its default action. A nil handler unregisters.
	OnLinkIntercept(fn func(LinkClick) bool)
}

// Historian is implemented by ports that can move through history on their
// own.
type Historian interface {
	Back()
	Forward()
}

// LinkClick describes a click on an anchor element.
type LinkClick struct {
	// Href is the resolved href of the anchor. It may be absolute or
	// origin-relative.
	Href string `json:"href"`

	// Button is the mouse button, 0 for the primary button.
	Button int `json:"button"`

	Alt   bool `json:"alt,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Meta  bool `json:"meta,omitempty"`
	Shift bool `json:"shift,omitempty"`

	// DefaultPrevented is set when another handler already cancelled the
	// click.
	DefaultPrevented bool `json:"defaultPrevented,omitempty"`

	// Target is the anchor's target attribute.
	Target string `json:"target,omitempty"`

	// Download is set when the anchor has a download attribute.
	Download bool `json:"download,omitempty"`
}

// plain reports whether the click would navigate the current browsing
// context.
func (c LinkClick) plain() bool {
	if c.Button != 0 || c.Alt || c.Ctrl || c.Meta || c.Shift {
		return false
	}
	if c.DefaultPrevented || c.Download {
		return false
	}
	return c.Target == "" || c.Target == "_self"
}
