package wsport

import (
	"github.com/goccy/go-json"

	"github.com/vango-dev/maproute/pkg/navigation"
)

// Frame types.
const (
	TypeHello       = "hello"
	TypePopState    = "popstate"
	TypeClick       = "click"
	TypePing        = "ping"
	TypePush        = "push"
	TypeReplace     = "replace"
	TypeHashChange  = "hashchange"
	TypeClickResult = "click-result"
	TypePong        = "pong"
	TypeError       = "error"
)

// Frame is one message in either direction.
type Frame struct {
	Type    string                `json:"type"`
	URL     string                `json:"url,omitempty"`
	Origin  string                `json:"origin,omitempty"`
	Old     string                `json:"old,omitempty"`
	New     string                `json:"new,omitempty"`
	Seq     uint64                `json:"seq,omitempty"`
	Click   *navigation.LinkClick `json:"click,omitempty"`
	Handled bool                  `json:"handled,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Encode returns the JSON encoding of f.
func (f Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFrame parses a JSON frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}
