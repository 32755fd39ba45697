// Package event is safemode's in-process pub/sub bus. The mode manager
// publishes mode.updated when a new config snapshot is installed, and the
// permission checker publishes command.allowed, command.rejected, and
// tool.blocked as it gates tool calls; the HTTP server relays all of them
// to SSE clients.
//
// Delivery is asynchronous by default (one goroutine per subscriber call);
// PublishSync exists for tests and for subscribers that need ordering.
package event
