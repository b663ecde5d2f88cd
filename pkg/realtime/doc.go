// Package realtime carries named events between board and chat clients over
// websockets.
//
// Every frame is a JSON text message of the form
//
//	{"event": "syncTask", "data": {...}}
//
// Clients implement [Channel]: [Client] dials a [Hub] with gorilla/websocket,
// and [Pipe] connects two in-process channels directly. A Hub groups
// connections into rooms and relays each frame to every other connection in
// the room through a [Broker], so several hub nodes can share rooms when the
// broker is backed by redis.
package realtime
