// Package connection implements the WebSocket transport for relay sessions.
//
// A Conn wraps a server-side gorilla/websocket connection:
//   - Upgrades inbound HTTP requests, with an optional origin allow-list
//   - Delivers text frames only; binary frames are skipped
//   - Serialises writes and bounds each one with a write deadline
//   - Pings the client and drops it when pongs stop arriving
//   - Aborts blocked reads and writes when closed
package connection
