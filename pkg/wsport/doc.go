// Package wsport implements navigation.Port over a WebSocket.
//
// A small script in the page forwards popstate events and anchor clicks to
// the server and performs the history writes the server sends back. Every
// message is one JSON frame:
//
//	client → server  {"type":"hello","url":"https://example.org/node/1","origin":"https://example.org"}
//	                 {"type":"popstate","url":"/node/1"}
//	                 {"type":"click","seq":3,"click":{"href":"/way/5","button":0}}
//	                 {"type":"ping"}
//	server → client  {"type":"push","url":"/way/5"}
//	                 {"type":"replace","url":"/search?q=cafe"}
//	                 {"type":"hashchange","old":"...","new":"..."}
//	                 {"type":"click-result","seq":3,"handled":true}
//	                 {"type":"pong"}
//	                 {"type":"error","error":"..."}
//
// Frames are handled one at a time on the goroutine running Port.Run, which
// is also where the navigation controller runs. Code on other goroutines
// reaches the controller through Port.Do.
package wsport
