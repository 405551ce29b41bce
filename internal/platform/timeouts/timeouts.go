// Package timeouts defines shared timeout constants used across the bridge.
// Centralizing these values prevents drift between the transport and host
// layers and makes the durations discoverable.
package timeouts

import "time"

// HostDial caps the wait time when connecting to the host shim socket.
const HostDial = 2 * time.Second

// HostCall caps the time allowed for a single host scripting call. The
// host executes calls synchronously on its UI thread, so slow calls are
// stuck calls.
const HostCall = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
