// Package progress carries scrape lifecycle events from the coordinator to
// pluggable sinks. Every endpoint call is a run; each channel inside it emits
// FETCH_START and FETCH_DONE. A Hub buffers events on a background goroutine
// and flushes them in batches, so emitting never blocks a scrape.
package progress
