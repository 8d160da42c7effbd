package wsport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/maproute/pkg/navigation"
	"github.com/vango-dev/maproute/pkg/routepath"
)

var (
	// ErrClosed is returned when an operation is attempted on a closed port.
	ErrClosed = errors.New("wsport: port closed")

	// ErrHandshake is returned when the first frame is not a valid hello.
	ErrHandshake = errors.New("wsport: invalid hello")
)

// Port is a navigation.Port backed by a WebSocket connection.
type Port struct {
	conn   *websocket.Conn
	config Config
	logger *slog.Logger
	origin string

	mu       sync.Mutex // guards location and writes to conn
	location routepath.Location

	onPop   func(routepath.Location)
	onClick func(navigation.LinkClick) bool

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ navigation.Port = (*Port)(nil)
)

// Accept upgrades the request and waits for the client's hello frame,
// which carries the page URL. The origin of the page defaults to the
// request's Origin header.
func Accept(w http.ResponseWriter, r *http.Request, config Config, logger *slog.Logger) (*Port, error) {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("wsport: upgrade: %w", err)
	}
	conn.SetReadLimit(config.MaxMessageSize)

	p := &Port{
		conn:   conn,
		config: config,
		logger: logger,
		origin: requestOrigin(r),
		tasks:  make(chan func()),
		done:   make(chan struct{}),
	}
	if err := p.handshake(); err != nil {
		p.sendError(err)
		p.Close()
		return nil, err
	}
	return p, nil
}

func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (p *Port) handshake() error {
	p.conn.SetReadDeadline(time.Now().Add(p.config.HandshakeTimeout))
	_, msg, err := p.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("wsport: read hello: %w", err)
	}
	f, err := DecodeFrame(msg)
	if err != nil || f.Type != TypeHello {
		return ErrHandshake
	}
	if f.Origin != "" {
		p.origin = strings.TrimSuffix(f.Origin, "/")
	}
	loc, err := p.parse(f.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	p.location = loc
	return nil
}

// parse turns a URL sent by the client into a location. Absolute URLs must
// point at the port's origin.
func (p *Port) parse(raw string) (routepath.Location, error) {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return routepath.Parse(raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return routepath.Location{}, err
	}
	origin, err := url.Parse(p.origin)
	if err != nil {
		return routepath.Location{}, err
	}
	if u.Scheme != origin.Scheme || u.Host != origin.Host {
		return routepath.Location{}, fmt.Errorf("wsport: %q is not on origin %q", raw, p.origin)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return routepath.Parse(routepath.Join(path, u.RawQuery, u.EscapedFragment()))
}

// Origin implements navigation.Port.
func (p *Port) Origin() string {
	return p.origin
}

// Location implements navigation.Port.
func (p *Port) Location() routepath.Location {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

// PushPath implements navigation.Port.
func (p *Port) PushPath(url string) error {
	return p.writeHistory(TypePush, url)
}

// ReplacePath implements navigation.Port.
func (p *Port) ReplacePath(url string) error {
	return p.writeHistory(TypeReplace, url)
}

func (p *Port) writeHistory(kind, raw string) error {
	loc, err := routepath.Parse(raw)
	if err != nil {
		return err
	}
	if err := p.send(Frame{Type: kind, URL: raw}); err != nil {
		return err
	}
	p.mu.Lock()
	p.location = loc
	p.mu.Unlock()
	return nil
}

// NotifyHashChange implements navigation.Port.
func (p *Port) NotifyHashChange(oldURL, newURL string) {
	if err := p.send(Frame{Type: TypeHashChange, Old: oldURL, New: newURL}); err != nil {
		p.logger.Warn("wsport: hashchange not sent", "error", err)
	}
}

// OnPopNavigation implements navigation.Port.
func (p *Port) OnPopNavigation(fn func(routepath.Location)) {
	p.onPop = fn
}

// OnLinkIntercept implements navigation.Port.
func (p *Port) OnLinkIntercept(fn func(navigation.LinkClick) bool) {
	p.onClick = fn
}

// Run reads and handles client frames until the connection closes, ctx is
// done or Close is called. Handlers registered on the port and functions
// passed to Do run on the calling goroutine.
func (p *Port) Run(ctx context.Context) error {
	defer p.Close()

	frames := make(chan Frame)
	errc := make(chan error, 1)
	go p.readLoop(frames, errc)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case err := <-errc:
			return err
		case f := <-frames:
			p.dispatch(f)
		case task := <-p.tasks:
			task()
		}
	}
}

func (p *Port) readLoop(frames chan<- Frame, errc chan<- error) {
	for {
		p.conn.SetReadDeadline(time.Now().Add(p.config.ReadTimeout))
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				p.logger.Error("wsport: read error", "error", err)
				errc <- err
				return
			}
			p.logger.Debug("wsport: connection closed", "error", err)
			errc <- nil
			return
		}

		f, err := DecodeFrame(msg)
		if err != nil {
			p.logger.Error("wsport: frame decode error", "error", err)
			continue
		}
		select {
		case frames <- f:
		case <-p.done:
			return
		}
	}
}

func (p *Port) dispatch(f Frame) {
	switch f.Type {
	case TypePopState:
		loc, err := p.parse(f.URL)
		if err != nil {
			p.logger.Warn("wsport: invalid popstate url", "url", f.URL, "error", err)
			return
		}
		p.mu.Lock()
		p.location = loc
		p.mu.Unlock()
		if p.onPop != nil {
			p.onPop(loc)
		}

	case TypeClick:
		handled := false
		if f.Click != nil && p.onClick != nil {
			handled = p.onClick(*f.Click)
		}
		if err := p.send(Frame{Type: TypeClickResult, Seq: f.Seq, Handled: handled}); err != nil {
			p.logger.Warn("wsport: click result not sent", "error", err)
		}

	case TypePing:
		if err := p.send(Frame{Type: TypePong}); err != nil {
			p.logger.Debug("wsport: pong not sent", "error", err)
		}

	default:
		p.logger.Warn("wsport: unknown frame type", "type", f.Type)
	}
}

// Do runs fn on the goroutine running Run and waits for it to return.
// It must not be called from that goroutine.
func (p *Port) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case p.tasks <- task:
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Port) send(f Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	p.conn.SetWriteDeadline(time.Now().Add(p.config.WriteTimeout))
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("wsport: write %s: %w", f.Type, err)
	}
	return nil
}

func (p *Port) sendError(err error) {
	if serr := p.send(Frame{Type: TypeError, Error: err.Error()}); serr != nil {
		p.logger.Debug("wsport: error frame not sent", "error", serr)
	}
}

// Close closes the connection. It is safe to call more than once.
func (p *Port) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		close(p.done)
		p.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		p.mu.Unlock()
		p.conn.Close()
	})
	return nil
}

// Done is closed when the port closes.
func (p *Port) Done() <-chan struct{} {
	return p.done
}
