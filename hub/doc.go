// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub pushes live state to WebSocket clients.

# Connections

ServeWS upgrades a request and subscribes the connection to the shared
"watchalong" topic. The new client immediately receives one snapshot:

	{"movies": [...], "queue": [...]}

Messages sent by clients are read and discarded.

# Broadcasting

After a successful mutation, call Broadcast once:

	if err := h.Broadcast(ctx); err != nil {
		slog.Error("broadcast failed", "error", err)
	}

The hub rebuilds the snapshot from its SnapshotSource and queues it for every
subscribed client. Each client has its own write goroutine, so Broadcast never
waits on a socket. A client whose buffer is full is dropped.

# Lifecycle

	Connecting → Open → Closed

A client leaves the topic when its read loop ends (close frame, network
error, missed pong) or when the hub drops it. Close disconnects everyone.
*/
package hub
