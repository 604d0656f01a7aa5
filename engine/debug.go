package engine

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/tidwall/match"

	"github.com/cwbudde/jsvm/internal/treeinterp"
)

// DebugMessage is the host-visible rendering of a `__debug()` checkpoint
// (§4.8: "control-flow state tag, variable map, call-stack frame
// descriptors, origin"). It's a package-local alias so callers never need
// to import internal/treeinterp directly.
type DebugMessage = treeinterp.DebugMessage

// ReadDebug receives the next queued debug message, blocking until one
// arrives or the engine is disposed (ok=false once the closed channel
// drains empty) (§6: "read debug messages from an asynchronous queue").
func (e *Engine) ReadDebug() (DebugMessage, bool) {
	msg, ok := <-e.debug
	return msg, ok
}

// TryReadDebug receives the next queued debug message without blocking,
// returning ok=false if none is currently queued.
func (e *Engine) TryReadDebug() (DebugMessage, bool) {
	select {
	case msg, ok := <-e.debug:
		return msg, ok
	default:
		return DebugMessage{}, false
	}
}

// SubscribeDebug returns a channel of debug messages whose Origin matches
// pattern, a `tidwall/match` glob (`*` and `?` only) evaluated
// against each message's file+range origin string. The returned channel is
// closed when the engine's underlying debug channel closes; messages that
// don't match pattern are dropped, not buffered elsewhere.
func (e *Engine) SubscribeDebug(pattern string) <-chan DebugMessage {
	out := make(chan DebugMessage)
	go func() {
		defer close(out)
		for msg := range e.debug {
			if match.Match(msg.Origin, pattern) {
				out <- msg
			}
		}
	}()
	return out
}

// PrettyDebug renders a debug message's shallow variable snapshot with
// `kr/pretty`'s `%# v` formatting, i.e. as a Go-syntax map literal.
func PrettyDebug(msg DebugMessage) string {
	return fmt.Sprintf("%# v", pretty.Formatter(msg.Variables))
}
