package navigation

import (
	"time"

	"github.com/vango-dev/maproute/pkg/router"
)

// WriteKind tells a history push from a replace.
type WriteKind string

const (
	WritePush    WriteKind = "push"
	WriteReplace WriteKind = "replace"
)

// Applied describes one route application.
type Applied struct {
	Context  *router.RouteContext
	Route    string
	Template string
	Start    time.Time
	Duration time.Duration

	// ParamsReplaced and QueryReplaced are set when the bag of cells was
	// replaced instead of updated in place.
	ParamsReplaced bool
	QueryReplaced  bool

	// QueryErr is the query decode failure, if any. The route was applied
	// with an empty query.
	QueryErr error
}

// Failure describes a navigation that was not applied.
type Failure struct {
	URL    string
	Reason router.LoadReason
	Err    error
}

// Write describes a history write.
type Write struct {
	Kind WriteKind
	URL  string
}

// Observer receives navigation events. Methods are called synchronously on
// the controller's goroutine and must not call back into the controller.
type Observer interface {
	RouteApplied(Applied)
	NavigationFailed(Failure)
	HistoryWritten(Write)
}

// NopObserver ignores every event. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) RouteApplied(Applied)     {}
func (NopObserver) NavigationFailed(Failure) {}
func (NopObserver) HistoryWritten(Write)     {}
