// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"log/slog"
	"time"

	"github.com/bassosimone/safeconn"
)

// Send transmits data on the current connection and returns a future that
// resolves to the number of bytes transferred, 0 on failure or timeout.
//
// The data slice is the caller's buffer passed through without copying; the
// caller must not mutate it until the future resolves. When the facade is
// not connected, the future resolves 0 synchronously. Write errors are
// absorbed: the future reports the bytes transferred before the failure,
// which is 0 when nothing went out.
func (s *Socket) Send(data []byte, timeout Timeout) *Future[int] {
	opctx := newOpContext[int](opSend, timeout)
	opctx.buffer = data
	t0 := s.TimeNow()
	conn := s.currentConn()
	s.logSendStart(opctx, t0)

	bridge := newCompletionBridge(opctx)
	if conn == nil {
		bridge.resolveNow(0)
		s.logSendDone(opctx, t0, 0, errNotConnected, true)
		return opctx.future
	}

	bridge.armGuard(
		func() int { return 0 },
		func(value int) {
			s.logTimeoutFired(opSend, opctx.callID, timeout, t0, value)
		},
	)
	bridge.start(
		func() (int, error) {
			count, err := conn.Write(opctx.buffer)
			return count, err
		},
		func(count int, err error, won bool) {
			s.logSendDone(opctx, t0, count, err, won)
		},
	)
	return opctx.future
}

// SendString UTF-8 encodes text and sends the bytes. The result is
// byte-identical to Send([]byte(text), timeout): Go string conversion is
// the UTF-8 encoding step.
func (s *Socket) SendString(text string, timeout Timeout) *Future[int] {
	return s.Send([]byte(text), timeout)
}

func (s *Socket) logSendStart(opctx *opContext[int], t0 time.Time) {
	duration, _ := opctx.timeout.Duration()
	s.Logger.Info(
		"sendStart",
		slog.String("callID", opctx.callID),
		slog.Int("count", len(opctx.buffer)),
		slog.String("localAddr", safeconn.LocalAddr(s.currentConn())),
		slog.String("protocol", s.Network),
		slog.String("remoteAddr", safeconn.RemoteAddr(s.currentConn())),
		slog.Duration("timeout", duration),
		slog.Time("t", t0),
	)
}

func (s *Socket) logSendDone(opctx *opContext[int], t0 time.Time, count int, err error, won bool) {
	s.Logger.Info(
		"sendDone",
		slog.String("callID", opctx.callID),
		slog.Int("count", count),
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("protocol", s.Network),
		slog.Bool("resolved", won),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
