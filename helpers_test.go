// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

// recordSink captures log records emitted by the code under test. Done
// events are emitted by bridge goroutines, so access is mutex-guarded.
type recordSink struct {
	mu      sync.Mutex
	records []slog.Record
}

// Len returns how many records the sink captured so far.
func (rs *recordSink) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.records)
}

// Messages returns the captured event names, in emission order.
func (rs *recordSink) Messages() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var messages []string
	for _, record := range rs.records {
		messages = append(messages, record.Message)
	}
	return messages
}

// newCapturingLogger returns a logger that captures all log records into the
// returned sink. The caller can inspect the sink after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *recordSink) {
	sink := &recordSink{}
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			sink.mu.Lock()
			defer sink.mu.Unlock()
			sink.records = append(sink.records, record)
			return nil
		},
	}
	return slog.New(handler), sink
}

// newMinimalConn returns a [*netstub.FuncConn] with LocalAddrFunc,
// RemoteAddrFunc, and a no-op CloseFunc set, the minimum needed by code
// that calls [safeconn.LocalAddr], [safeconn.RemoteAddr], and
// [safeconn.Network] while logging, and that releases superseded or
// dropped connections.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		CloseFunc:      func() error { return nil },
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 23333} },
	}
}

// newConnectedSocket returns a facade built from a default config that
// already adopted the given conn.
func newConnectedSocket(conn net.Conn, logger SLogger) *Socket {
	return NewSocketConn(NewConfig(), conn, logger)
}

// funcListener is a [net.Listener] whose behavior is provided by functions,
// in the netstub style.
type funcListener struct {
	// AcceptFunc provides the Accept behavior.
	AcceptFunc func() (net.Conn, error)

	// CloseFunc provides the Close behavior.
	CloseFunc func() error

	// AddrFunc provides the Addr behavior.
	AddrFunc func() net.Addr
}

var _ net.Listener = &funcListener{}

// Accept implements [net.Listener].
func (l *funcListener) Accept() (net.Conn, error) {
	return l.AcceptFunc()
}

// Close implements [net.Listener].
func (l *funcListener) Close() error {
	if l.CloseFunc != nil {
		return l.CloseFunc()
	}
	return nil
}

// Addr implements [net.Listener].
func (l *funcListener) Addr() net.Addr {
	if l.AddrFunc != nil {
		return l.AddrFunc()
	}
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 23333}
}
