//go:build !unix

// SPDX-License-Identifier: GPL-3.0-or-later

// Package listenq creates TCP listeners with an explicit accept-queue depth.
//
// On this platform we cannot pass the backlog to listen(2) without
// reimplementing the runtime network poller, so the platform default
// applies and the backlog argument is accepted but not enforced.
package listenq

import (
	"context"
	"net"
)

// Listen binds a TCP listener to address. The backlog argument is ignored
// on this platform; the accept-queue depth is the system default.
func Listen(ctx context.Context, network, address string, backlog int) (net.Listener, error) {
	_ = backlog
	lc := net.ListenConfig{}
	return lc.Listen(ctx, network, address)
}
