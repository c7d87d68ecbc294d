// Package session binds client transports to the relay channel.
//
// A Session runs two directions for one connection:
//   - Inbound: transport → channel (every text frame is published)
//   - Outbound: channel → transport (every published message is sent)
//
// The directions fail independently but the session lives and dies as a
// whole: whichever direction stops first moves the session to Closing, the
// other is cancelled and the transport is aborted, then the session is Closed.
//
// The Hub is the registration point: it owns the shared channel, accepts
// transports, runs one Session per transport, and tracks them for shutdown
// and observability.
package session
