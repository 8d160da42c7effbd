package telemetry

import "github.com/vango-dev/maproute/pkg/navigation"

// Multi returns an observer forwarding every event to each of observers in
// order. Nil observers are skipped.
func Multi(observers ...navigation.Observer) navigation.Observer {
	var list multi
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multi []navigation.Observer

func (m multi) RouteApplied(a navigation.Applied) {
	for _, o := range m {
		o.RouteApplied(a)
	}
}

func (m multi) NavigationFailed(f navigation.Failure) {
	for _, o := range m {
		o.NavigationFailed(f)
	}
}

func (m multi) HistoryWritten(w navigation.Write) {
	for _, o := range m {
		o.HistoryWritten(w)
	}
}
