// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/safeconn"
)

// observeConn wraps a connection the facade is about to adopt so that every
// read and write is logged at Debug level. Lifecycle events (the *Start and
// *Done pairs) stay at Info; this wrapper provides the byte-level detail
// underneath them. With the default discard logger the wrapper costs two
// no-op calls per I/O operation.
func (s *Socket) observeConn(conn net.Conn) net.Conn {
	return &observedConn{
		conn:     conn,
		laddr:    safeconn.LocalAddr(conn),
		protocol: safeconn.Network(conn),
		raddr:    safeconn.RemoteAddr(conn),
		sock:     s,
	}
}

// observedConn logs I/O on the underlying [net.Conn].
type observedConn struct {
	conn     net.Conn
	laddr    string
	protocol string
	raddr    string
	sock     *Socket
}

var _ net.Conn = &observedConn{}

// Read implements [net.Conn].
func (c *observedConn) Read(b []byte) (int, error) {
	count, err := c.conn.Read(b)
	c.logIO("read", count, err)
	return count, err
}

// Write implements [net.Conn].
func (c *observedConn) Write(b []byte) (int, error) {
	count, err := c.conn.Write(b)
	c.logIO("write", count, err)
	return count, err
}

func (c *observedConn) logIO(event string, count int, err error) {
	c.sock.Logger.Debug(
		event,
		slog.Int("count", count),
		slog.Any("err", err),
		slog.String("errClass", c.sock.ErrClassifier.Classify(err)),
		slog.String("localAddr", c.laddr),
		slog.String("protocol", c.protocol),
		slog.String("remoteAddr", c.raddr),
		slog.Time("t", c.sock.TimeNow()),
	)
}

// Close implements [net.Conn].
func (c *observedConn) Close() error {
	return c.conn.Close()
}

// LocalAddr implements [net.Conn].
func (c *observedConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr implements [net.Conn].
func (c *observedConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// SetDeadline implements [net.Conn].
func (c *observedConn) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// SetReadDeadline implements [net.Conn].
func (c *observedConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// SetWriteDeadline implements [net.Conn].
func (c *observedConn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}
