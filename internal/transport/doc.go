// Package transport speaks STOMP over a WebSocket to the AnaLog watch endpoint.
//
// Connection owns the socket: it dials, performs the STOMP handshake, reads frames in
// a single goroutine and reconnects after a fixed delay whenever the socket drops.
// TopicSubscription keeps at most one topic subscription alive on top of it. Inbound
// MESSAGE frames are decoded and published on the event bus; nothing here touches the
// render queue directly.
package transport
