// Package render buffers decoded record batches and paces them into the console.
//
// Queue keeps the output list (composite records ordered by timestamp) and the FIFO of
// records still hidden. Renderer is driven by the event loop on a fixed period: each
// tick evicts the oldest records of any kind that grew past its threshold, reveals all
// pending records and decides whether the view should follow the bottom.
package render
