// Package progress carries the events of a background scaffold job to a
// single observer.
//
// A Stream accepts log lines from the worker without ever blocking it: events
// are buffered in an unbounded queue and delivered in emission order on the
// Events channel. Exactly one completion event is delivered, always last, and
// the channel is closed right after it.
package progress
