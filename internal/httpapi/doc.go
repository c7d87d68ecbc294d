// Package httpapi is the HTTP surface of the OHS backend: the WebSocket relay
// endpoint, health and debug endpoints, localisation endpoints, the HTMX
// admin pages and the user API.
package httpapi
