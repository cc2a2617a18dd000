// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"net"
	"time"
)

// Config holds common configuration for socket facades.
//
// Pass this to [NewSocket] and [NewSocketConn] to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// Dialer is used by [Socket.Connect] and friends.
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies absorbed errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// ListenerFactory binds and listens for [Socket.Accept].
	//
	// Set by [NewConfig] to [DefaultListenerFactory].
	ListenerFactory ListenerFactory

	// Resolver maps hostnames to addresses for [Socket.ConnectHost].
	//
	// Set by [NewConfig] to [net.DefaultResolver].
	Resolver Resolver

	// TimeNow returns the current time (configurable for testing).
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialer:          &net.Dialer{},
		ErrClassifier:   DefaultErrClassifier,
		ListenerFactory: DefaultListenerFactory,
		Resolver:        net.DefaultResolver,
		TimeNow:         time.Now,
	}
}
