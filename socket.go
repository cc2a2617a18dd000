// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bassosimone/safeconn"
)

// errNotConnected marks operations completed synchronously because the
// facade owns no connection. It only ever appears in log events; the
// caller observes the operation's neutral negative result.
var errNotConnected = errors.New("awaitnet: socket is not connected")

// Socket is a facade over one underlying socket handle that exposes
// future-returning operations with per-call timeout control.
//
// Each operation builds a fresh per-call context, launches a completion
// bridge that runs the underlying primitive, arms an independent timeout
// guard, and returns a [*Future] typed to the operation's result. Whichever
// of {underlying completion, deadline expiry} happens first resolves the
// future; the loser's write is discarded.
//
// A Socket supports exactly one pending operation at a time. There is no
// internal serialization or queue: issuing a second operation while one is
// outstanding is a caller error, not a managed race.
//
// The underlying handle is exclusively owned by its Socket. An accepted
// connection yields a new handle owned by a new Socket, sharing no mutable
// state with the listener.
//
// All exported fields are safe to modify after construction but before first
// use. Fields must not be mutated concurrently with operations.
type Socket struct {
	// Dialer dials outbound connections.
	//
	// Set by [NewSocket] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies absorbed errors for structured logging.
	//
	// Set by [NewSocket] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// ListenerFactory binds and listens on first Accept.
	//
	// Set by [NewSocket] from [Config.ListenerFactory].
	ListenerFactory ListenerFactory

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewSocket] to the user-provided logger.
	Logger SLogger

	// Network is the network to use (either "tcp" or "udp").
	//
	// Set by [NewSocket] to the user-provided value.
	Network string

	// Resolver maps hostnames to addresses for [Socket.ConnectHost].
	//
	// Set by [NewSocket] from [Config.Resolver].
	Resolver Resolver

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewSocket] from [Config.TimeNow].
	TimeNow func() time.Time

	// closeOnce makes [Socket.Close] idempotent.
	closeOnce sync.Once

	// connected mirrors whether conn is an established connection. It is
	// the observable state a firing timeout guard snapshots, so it must be
	// readable without taking mu.
	connected atomic.Bool

	// mu protects closed, conn, and listener.
	mu sync.Mutex

	// closed records that [Socket.Close] already ran, so a zombie
	// operation finishing afterwards must release its handle instead
	// of installing it.
	closed bool

	// conn is the underlying connection, nil when not connected.
	conn net.Conn

	// listener is the lazily-created listener, nil until the first Accept.
	listener net.Listener
}

// NewSocket returns a new [*Socket] that owns no handle yet.
//
// The cfg argument contains the common configuration for socket facades.
//
// The network argument must be either "tcp" or "udp".
//
// The logger argument is the [SLogger] to use for structured logging.
func NewSocket(cfg *Config, network string, logger SLogger) *Socket {
	return &Socket{
		Dialer:          cfg.Dialer,
		ErrClassifier:   cfg.ErrClassifier,
		ListenerFactory: cfg.ListenerFactory,
		Logger:          logger,
		Network:         network,
		Resolver:        cfg.Resolver,
		TimeNow:         cfg.TimeNow,
	}
}

// NewSocketConn returns a new [*Socket] that adopts an already-established
// connection. The facade takes exclusive ownership of conn.
func NewSocketConn(cfg *Config, conn net.Conn, logger SLogger) *Socket {
	s := NewSocket(cfg, safeconn.Network(conn), logger)
	s.adoptConn(conn)
	return s
}

// Connected reports whether the facade currently owns an established
// connection. This is also the state a timed-out Connect or Disconnect
// reports: the guard resolves with the value observed at expiry, not with
// a fixed constant.
func (s *Socket) Connected() bool {
	return s.connected.Load()
}

// Close releases the underlying handle and listener, if any.
//
// The first call performs the release; subsequent calls return
// [net.ErrClosed], consistent with Go's standard library behavior
// for closed connections.
func (s *Socket) Close() (err error) {
	err = net.ErrClosed
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		conn, listener := s.conn, s.listener
		s.conn, s.listener = nil, nil
		s.mu.Unlock()
		s.connected.Store(false)

		t0 := s.TimeNow()
		s.Logger.Info(
			"closeStart",
			slog.String("localAddr", safeconn.LocalAddr(conn)),
			slog.String("protocol", s.Network),
			slog.String("remoteAddr", safeconn.RemoteAddr(conn)),
			slog.Time("t", t0),
		)

		err = nil
		if conn != nil {
			err = conn.Close()
		}
		if listener != nil {
			if cerr := listener.Close(); err == nil {
				err = cerr
			}
		}

		s.Logger.Info(
			"closeDone",
			slog.Any("err", err),
			slog.String("errClass", s.ErrClassifier.Classify(err)),
			slog.String("protocol", s.Network),
			slog.Time("t0", t0),
			slog.Time("t", s.TimeNow()),
		)
	})
	return
}

// currentConn returns the connection this facade currently owns, or nil.
func (s *Socket) currentConn() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// adoptConn installs a freshly-established connection, wrapped so that
// per-I/O events are logged at Debug level.
//
// A connection arriving after [Socket.Close] ran belongs to a zombie
// operation and is released immediately: a disposed facade never flips
// back to connected. A connection superseding an already-installed one
// takes its place and the previous one is released.
func (s *Socket) adoptConn(conn net.Conn) {
	observed := s.observeConn(conn)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		observed.Close()
		return
	}
	previous := s.conn
	s.conn = observed
	s.mu.Unlock()
	s.connected.Store(true)
	if previous != nil {
		previous.Close()
	}
}

// dropConn forgets conn if it is still the current connection and marks the
// facade as disconnected. A connection installed by a later operation is
// left alone.
func (s *Socket) dropConn(conn net.Conn) {
	s.mu.Lock()
	current := s.conn == conn
	if current {
		s.conn = nil
	}
	s.mu.Unlock()
	if current {
		s.connected.Store(false)
	}
}

// newPeerSocket wraps an accepted connection into a fresh facade sharing
// this facade's collaborators but none of its mutable state.
func (s *Socket) newPeerSocket(conn net.Conn) *Socket {
	peer := &Socket{
		Dialer:          s.Dialer,
		ErrClassifier:   s.ErrClassifier,
		ListenerFactory: s.ListenerFactory,
		Logger:          s.Logger,
		Network:         s.Network,
		Resolver:        s.Resolver,
		TimeNow:         s.TimeNow,
	}
	peer.adoptConn(conn)
	return peer
}

// logTimeoutFired records that a guard released the caller of the given
// operation before the underlying primitive completed. The value attribute
// is the observable-state snapshot the caller received.
func (s *Socket) logTimeoutFired(kind opKind, callID string, timeout Timeout, t0 time.Time, value any) {
	duration, _ := timeout.Duration()
	s.Logger.Info(
		"timeoutFired",
		slog.String("callID", callID),
		slog.String("operation", kind.String()),
		slog.String("protocol", s.Network),
		slog.Duration("timeout", duration),
		slog.Any("value", value),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
