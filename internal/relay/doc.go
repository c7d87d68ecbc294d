// Package relay implements the Relay Channel: a bounded, multi-producer,
// multi-consumer fan-out bus.
//
// The channel keeps the last N published values in a ring, each stamped with
// a sequence number. Publishers never wait on subscribers. Every subscriber
// reads through its own Cursor; a cursor that falls more than N values behind
// gets a Lagged signal carrying the exact number of values it missed and is
// moved to the oldest value still retained.
//
// Whether a lagging subscriber is tolerated or dropped is the caller's policy.
package relay
