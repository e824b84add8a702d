// Package schedule holds the channel schedule domain: the types returned to API
// callers, the collaborator interfaces (fetch sessions, extraction, clock, ids),
// the bounded fan-out Coordinator, and the Service that the HTTP layer drives.
//
// Every endpoint call opens one fetch Session bounded by a single shared
// deadline. The Coordinator runs at most MaxParallel fetch+extract tasks at a
// time, writes each result into the slot of its originating channel, and
// degrades any failing channel to an empty show list so one bad page never
// affects its siblings.
package schedule
