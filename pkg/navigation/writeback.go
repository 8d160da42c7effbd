package navigation

import (
	"github.com/vango-dev/maproute/pkg/reactive"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/routepath"
)

// syncURL is the write-back effect. It depends on the active route, the
// query bag and every query cell in it, and writes the URL when the query
// values differ from those of the last application.
func (c *Controller) syncURL() {
	active := c.route.Get()
	values := c.query.Get().Values()

	if active == nil || c.closed || c.state != StateIdle {
		return
	}
	if reactive.Equal(values, c.applied) {
		return
	}
	c.writeQuery(active, values)
}

// writeQuery replaces the current history entry with the URL of the active
// route carrying values, and applies it.
func (c *Controller) writeQuery(active *Active, values map[string]any) {
	c.state = StateWriting
	defer func() { c.state = StateIdle }()

	path, err := c.desiredPath(active, values)
	if err != nil {
		c.logger.Warn("navigation: cannot write query",
			"route", active.Route.ID(),
			"error", err)
		c.fail(c.location.String(), router.ReasonNavigation, err)
		return
	}
	if path == c.location.Path() {
		c.applied = values
		return
	}

	c.rt.Untracked(func() {
		_ = c.navigateURL(path+c.location.Hash, WriteReplace)
	})
}

// desiredPath builds the pathname and search of the active template with
// the current parameters and values.
func (c *Controller) desiredPath(active *Active, values map[string]any) (string, error) {
	path, err := active.Variant.Build(c.params.Peek().Peek())
	if err != nil {
		return "", err
	}
	query, err := active.Route.EncodeQuery(values)
	if err != nil {
		return "", err
	}
	return routepath.Join(path, query, ""), nil
}
