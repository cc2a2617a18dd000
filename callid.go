// SPDX-License-Identifier: GPL-3.0-or-later

package awaitnet

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewCallID returns a UUIDv7 identifying a single socket operation.
//
// Every operation issued through a [Socket] carries its own call ID, and all
// structured log events emitted for that operation (start, done, timeoutFired)
// include it under the callID attribute. This replaces the classic trick of
// smuggling a correlation token through an untyped "user data" slot on a
// completion event: the operation context owns its identity, no downcast needed.
//
// Being time-ordered, UUIDv7 call IDs also sort logs chronologically.
//
// This function panics if the system random number generator fails, which
// should only happen under extraordinary circumstances.
func NewCallID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
