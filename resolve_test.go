// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/bassosimone/netstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcResolver is a [Resolver] whose behavior is provided by a function.
type funcResolver func(ctx context.Context, network, host string) ([]netip.Addr, error)

// LookupNetIP implements [Resolver].
func (f funcResolver) LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	return f(ctx, network, host)
}

// ConnectHost resolves the hostname and dials the first address.
func TestConnectHost(t *testing.T) {
	var sawAddress string
	cfg := NewConfig()
	cfg.Resolver = funcResolver(func(ctx context.Context, network, host string) ([]netip.Addr, error) {
		assert.Equal(t, "ip", network)
		assert.Equal(t, "dns.google", host)
		return []netip.Addr{
			netip.MustParseAddr("8.8.8.8"),
			netip.MustParseAddr("8.8.4.4"),
		}, nil
	})
	cfg.Dialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			sawAddress = address
			return newMinimalConn(), nil
		},
	}
	sock := NewSocket(cfg, "tcp", DefaultSLogger())

	future, err := sock.ConnectHost(context.Background(), "dns.google", 443, NoTimeout)
	require.NoError(t, err)

	assert.True(t, future.Wait())
	assert.Equal(t, "8.8.8.8:443", sawAddress)
}

// Resolution failures escalate instead of resolving a neutral future.
func TestConnectHostResolutionFailures(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// resolver is the mock resolver to use.
		resolver funcResolver

		// wantErr is the error we expect, when known.
		wantErr error
	}{
		{
			name: "zero addresses",
			resolver: funcResolver(func(ctx context.Context, network, host string) ([]netip.Addr, error) {
				return nil, nil
			}),
			wantErr: ErrNoAddresses,
		},

		{
			name: "lookup error",
			resolver: funcResolver(func(ctx context.Context, network, host string) ([]netip.Addr, error) {
				return nil, errors.New("no such host")
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Resolver = tt.resolver
			sock := NewSocket(cfg, "tcp", DefaultSLogger())

			future, err := sock.ConnectHost(context.Background(), "dns.google", 443, NoTimeout)

			require.Error(t, err)
			assert.Nil(t, future)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// A mapped IPv4 address is unmapped before dialing.
func TestConnectHostUnmapsAddresses(t *testing.T) {
	var sawAddress string
	cfg := NewConfig()
	cfg.Resolver = funcResolver(func(ctx context.Context, network, host string) ([]netip.Addr, error) {
		return []netip.Addr{netip.MustParseAddr("::ffff:8.8.8.8")}, nil
	})
	cfg.Dialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			sawAddress = address
			return newMinimalConn(), nil
		},
	}
	sock := NewSocket(cfg, "tcp", DefaultSLogger())

	future, err := sock.ConnectHost(context.Background(), "dns.google", 443, NoTimeout)
	require.NoError(t, err)

	assert.True(t, future.Wait())
	assert.Equal(t, "8.8.8.8:443", sawAddress)
}

// ConnectHost emits lookupStart/lookupDone before the connect events.
func TestConnectHostLogging(t *testing.T) {
	logger, sink := newCapturingLogger()
	cfg := NewConfig()
	cfg.Resolver = funcResolver(func(ctx context.Context, network, host string) ([]netip.Addr, error) {
		return nil, nil
	})
	sock := NewSocket(cfg, "tcp", logger)

	_, err := sock.ConnectHost(context.Background(), "dns.google", 443, NoTimeout)
	require.ErrorIs(t, err, ErrNoAddresses)

	assert.Equal(t, []string{"lookupStart", "lookupDone"}, sink.Messages())
}
