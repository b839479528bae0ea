package sse

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Event types written on watch streams.
const (
	// EventTypeConnected is the first event of every stream.
	EventTypeConnected = "connected"
	// EventTypeChange carries a new projection for the watched key.
	EventTypeChange = "change"
	// EventTypeError reports a failure that ends the stream.
	EventTypeError = "error"
	// EventTypeDeleted tells the streams of a key that its data was deleted.
	EventTypeDeleted = "deleted"
	// EventTypeReset tells every stream that the whole cache was emptied.
	EventTypeReset = "reset"
)

// Event is one server-sent event.
type Event struct {
	Type string
	Data []byte
}

// WriteTo writes e in the text/event-stream framing. Multi-line data is
// split into one data field per line.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if e.Type != "" {
		fmt.Fprintf(&buf, "event: %s\n", e.Type)
	}
	for _, line := range bytes.Split(e.Data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// Broadcaster sends events to the clients whose ID matches a glob pattern.
type Broadcaster interface {
	BroadcastToPattern(pattern string, ev Event)
}

const watchPrefix = "watch:"

// WatchClientID returns a fresh client ID for a stream watching key, of the
// form "watch:<key>/<uuid>".
func WatchClientID(key string) string {
	return watchPrefix + key + "/" + uuid.NewString()
}

// WatchPattern matches the IDs WatchClientID hands out for key. An empty key
// matches the streams of every key without a slash, which is every key the
// watch route accepts. Glob metacharacters in key are escaped.
func WatchPattern(key string) string {
	if key == "" {
		return watchPrefix + "*/*"
	}
	return watchPrefix + globEscaper.Replace(key) + "/*"
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)
