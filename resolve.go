// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"context"
	"errors"
	"log/slog"
	"net/netip"
	"time"
)

// Resolver abstracts the [*net.Resolver] behavior.
//
// By making [*Socket] depend on an abstract implementation we allow for
// unit testing and for using alternative resolvers.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// ErrNoAddresses is returned by [Socket.ConnectHost] when resolution
// succeeds but yields zero addresses.
var ErrNoAddresses = errors.New("awaitnet: hostname resolved to zero addresses")

// ConnectHost resolves host and dials the first resolved address on the
// given port; see [Socket.Connect] for the future's semantics.
//
// Resolution is the one place where failures escalate instead of being
// absorbed: with no address there is no endpoint to even start a connect
// on, so there is no meaningful neutral result to resolve the future with.
// A lookup error is returned as-is; a successful lookup with zero addresses
// returns [ErrNoAddresses]. The resolution itself runs synchronously on the
// caller's goroutine, bounded by ctx, before any future exists.
func (s *Socket) ConnectHost(ctx context.Context, host string, port uint16, timeout Timeout) (*Future[bool], error) {
	t0 := s.TimeNow()
	s.logLookupStart(host, t0)
	addrs, err := s.Resolver.LookupNetIP(ctx, "ip", host)
	if err == nil && len(addrs) == 0 {
		err = ErrNoAddresses
	}
	s.logLookupDone(host, t0, addrs, err)
	if err != nil {
		return nil, err
	}
	return s.Connect(ctx, netip.AddrPortFrom(addrs[0].Unmap(), port), timeout), nil
}

func (s *Socket) logLookupStart(host string, t0 time.Time) {
	s.Logger.Info(
		"lookupStart",
		slog.String("hostname", host),
		slog.Time("t", t0),
	)
}

func (s *Socket) logLookupDone(host string, t0 time.Time, addrs []netip.Addr, err error) {
	s.Logger.Info(
		"lookupDone",
		slog.Any("addresses", addrs),
		slog.Any("err", err),
		slog.String("errClass", s.ErrClassifier.Classify(err)),
		slog.String("hostname", host),
		slog.Time("t0", t0),
		slog.Time("t", s.TimeNow()),
	)
}
