//go:build unix

// SPDX-License-Identifier: GPL-3.0-or-later

// Package listenq creates TCP listeners with an explicit accept-queue depth.
//
// The standard library hardcodes the listen(2) backlog to the system
// maximum, so honoring a caller-supplied backlog requires creating the
// socket ourselves on platforms where we can.
package listenq

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"

	"golang.org/x/sys/unix"
)

// Listen binds a TCP listener to address and starts listening with the
// given backlog, passed straight to listen(2). The address must be a
// literal "ip:port" as formatted by [netip.AddrPort].
func Listen(ctx context.Context, network, address string, backlog int) (net.Listener, error) {
	switch network {
	case "tcp", "tcp4", "tcp6":
	default:
		return nil, fmt.Errorf("listenq: unsupported network %q", network)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoint, err := netip.ParseAddrPort(address)
	if err != nil {
		return nil, err
	}
	addr := endpoint.Addr().Unmap()

	domain := unix.AF_INET6
	if addr.Is4() {
		domain = unix.AF_INET
	}
	// SOCK_CLOEXEC at creation time: a separate fcntl would leave a
	// window where a concurrent fork/exec inherits the descriptor.
	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Bind(fd, sockaddr(addr, endpoint.Port())); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, err
	}

	// net.FileListener dups the descriptor, so close ours either way.
	file := os.NewFile(uintptr(fd), "listenq")
	defer file.Close()
	return net.FileListener(file)
}

// sockaddr converts a parsed address and port to the matching sockaddr.
func sockaddr(addr netip.Addr, port uint16) unix.Sockaddr {
	if addr.Is4() {
		return &unix.SockaddrInet4{Port: int(port), Addr: addr.As4()}
	}
	return &unix.SockaddrInet6{Port: int(port), Addr: addr.As16()}
}
