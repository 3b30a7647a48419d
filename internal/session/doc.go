// Package session ties one view of one log together.
//
// Controller holds the selection state (selected log, live, launching) and decides
// when to subscribe, resubscribe or unsubscribe. Session owns the transport, the
// render queue and the renderer and routes bus events to them. Both are driven by a
// single event loop: the bubbletea program or the headless tail loop.
package session
