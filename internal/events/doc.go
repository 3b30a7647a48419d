// Package events carries session lifecycle and tailing notifications between the
// transport goroutines and the event loop.
//
// Transport code publishes onto a Bus from any goroutine; the loop drains Bus.C and
// fans events out through a Router. Kind is a closed enumeration.
package events
