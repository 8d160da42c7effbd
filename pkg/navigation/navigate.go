package navigation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/routepath"
)

// Href builds the URL of route id without navigating.
func (c *Controller) Href(id string, in router.Input) (string, error) {
	return c.router.Href(id, in)
}

// Navigate pushes a history entry for route id and applies it. It reports
// false when id is unknown, the built URL matches no route or the port
// rejects the write; the failure is logged and reported to the observer.
func (c *Controller) Navigate(id string, in router.Input) bool {
	return c.navigate(id, in, WritePush) == nil
}

// Replace is like Navigate but replaces the current history entry.
func (c *Controller) Replace(id string, in router.Input) bool {
	return c.navigate(id, in, WriteReplace) == nil
}

// MustNavigate is like Navigate but panics on failure. It is meant for
// navigations the application knows to be valid.
func (c *Controller) MustNavigate(id string, in router.Input) {
	if err := c.navigate(id, in, WritePush); err != nil {
		panic(err)
	}
}

// MustReplace is like Replace but panics on failure.
func (c *Controller) MustReplace(id string, in router.Input) {
	if err := c.navigate(id, in, WriteReplace); err != nil {
		panic(err)
	}
}

// NavigateURL pushes an origin-relative URL and applies it.
func (c *Controller) NavigateURL(href string) bool {
	return c.navigateURL(href, WritePush) == nil
}

// Back moves back in history when the port supports it.
func (c *Controller) Back() bool {
	h, ok := c.port.(Historian)
	if ok {
		h.Back()
	}
	return ok
}

// Forward moves forward in history when the port supports it.
func (c *Controller) Forward() bool {
	h, ok := c.port.(Historian)
	if ok {
		h.Forward()
	}
	return ok
}

func (c *Controller) navigate(id string, in router.Input, kind WriteKind) error {
	href, err := c.router.Href(id, in)
	if err != nil {
		c.logger.Warn("navigation: cannot build href", "route", id, "error", err)
		c.fail(id, router.ReasonNavigation, err)
		return err
	}
	return c.navigateURL(href, kind)
}

// navigateURL writes href to history and applies it. Only a change of
// pathname or search re-applies the route; a change of the hash alone raises
// a hashchange notification instead.
func (c *Controller) navigateURL(href string, kind WriteKind) error {
	loc, err := routepath.Parse(href)
	if err != nil {
		c.logger.Warn("navigation: invalid url", "url", href, "error", err)
		c.fail(href, router.ReasonNavigation, err)
		return err
	}
	res, err := c.router.Resolve(loc, router.ReasonNavigation)
	if err != nil {
		c.logger.Warn("navigation: no route", "url", href, "error", err)
		c.fail(href, router.ReasonNavigation, err)
		return err
	}

	if kind == WriteReplace {
		err = c.port.ReplacePath(href)
	} else {
		err = c.port.PushPath(href)
	}
	if err != nil {
		c.logger.Error("navigation: history write failed", "url", href, "kind", kind, "error", err)
		c.fail(href, router.ReasonNavigation, err)
		return fmt.Errorf("navigation: %s %s: %w", kind, href, err)
	}
	c.observer.HistoryWritten(Write{Kind: kind, URL: href})

	prev := c.location
	if loc.Path() != prev.Path() {
		c.commit(res)
		return nil
	}
	c.location = loc
	if loc.Hash != prev.Hash {
		c.port.NotifyHashChange(c.absolute(prev), c.absolute(loc))
	}
	return nil
}

// handlePop applies a location reached through back/forward navigation.
// A pop that only changes the hash does not re-apply the route. A location
// that matches no route is logged and the previous route stays active.
func (c *Controller) handlePop(loc routepath.Location) {
	if loc.Path() == c.location.Path() {
		c.location = loc
		return
	}
	res, err := c.router.Resolve(loc, router.ReasonPopState)
	if err != nil {
		c.logger.Error("navigation: pop navigation to unroutable location",
			"url", loc.String(),
			"error", err)
		c.fail(loc.String(), router.ReasonPopState, err)
		return
	}
	c.commit(res)
}

// HandleLinkClick takes over a plain click on a same-origin link to a
// routable location and reports whether it did. Links to the current
// pathname and search are left to the browser, which only updates the hash.
func (c *Controller) HandleLinkClick(click LinkClick) bool {
	if !click.plain() {
		return false
	}
	loc, ok := c.sameOrigin(click.Href)
	if !ok || loc.Path() == c.location.Path() {
		return false
	}
	if _, matched := c.router.Match(loc.Pathname); !matched {
		return false
	}
	return c.navigateURL(loc.String(), WritePush) == nil
}

// sameOrigin converts href to an in-app location when it points at the
// port's origin.
func (c *Controller) sameOrigin(href string) (routepath.Location, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return routepath.Location{}, false
	}
	if u.Scheme != "" || u.Host != "" {
		origin, err := url.Parse(c.port.Origin())
		if err != nil || u.Scheme != origin.Scheme || u.Host != origin.Host {
			return routepath.Location{}, false
		}
	}
	if u.Opaque != "" || u.User != nil {
		return routepath.Location{}, false
	}

	path, query := u.EscapedPath(), u.RawQuery
	if path == "" && u.Host == "" {
		// "#frag" and "?q" are relative to the current document.
		path = c.location.Pathname
		if query == "" && !u.ForceQuery {
			query = strings.TrimPrefix(c.location.Search, "?")
		}
	}
	if path == "" {
		path = "/"
	}
	raw := routepath.Join(path, query, u.EscapedFragment())
	loc, err := routepath.Parse(raw)
	if err != nil {
		return routepath.Location{}, false
	}
	return loc, true
}

func (c *Controller) absolute(loc routepath.Location) string {
	return c.port.Origin() + loc.String()
}
