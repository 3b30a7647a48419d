// Package app is the composition root of analogtail.
//
// It loads the configuration (applying command line overrides), sets up logging and
// assembles a session.Session from the AnaLog HTTP client, the STOMP transport and
// the paced renderer. Three entry points share that assembly:
//
//   - Run: the interactive console (internal/ui), logging JSON lines to a file
//   - Tail: headless streaming of one log to stdout, notifications on stderr
//   - Choices: one-shot listing of the logs a server offers
//
// # Headless Loop
//
// Tail drives the session the way the console does, from a single goroutine:
//
//	for {
//		select {
//		case e := <-session.Events():   route the event (records, state changes)
//		case <-ticker.C:                renderer tick, print revealed records
//		case <-ctx.Done():              flush and stop
//		}
//	}
//
// The stream always counts as scrolled to the bottom, so every tick prints all pending
// records; composite records revealed by one tick come out in timestamp order. A server failure ends Tail with an error since nobody
// is there to resume the tracking.
//
// # Error Handling
//
// Configuration and option problems are returned before anything connects. Network
// trouble never is: the transport keeps reconnecting and the session reports it
// through events.
package app
