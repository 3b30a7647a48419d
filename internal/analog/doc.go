// Package analog holds the client-side model of an AnaLog server: log choices
// served over HTTP, the messages published on a watch topic and the helpers
// that translate between log ids, paths and display labels.
//
// Key types:
//   - Choice: one watchable log (plain file, container, node or composite)
//   - Batch: a decoded RECORD message; timestamped batches belong to composite logs
//   - Client: a minimal HTTP client for the /choices endpoint
//
// Decode classifies raw topic messages without rendering anything; Resolve
// matches the user's path against the server choices.
package analog
