// Package sse streams store changes to HTTP clients as Server-Sent Events.
//
// A Hub tracks connected clients and closes them on shutdown. Each client
// owns a bounded event buffer; a slow client loses events rather than
// blocking the dispatcher that produced them.
//
//	hub := sse.NewHub()
//	defer hub.Close()
//	client := sse.NewClient(id, sse.WithKey(key))
//	sse.ServeSSE(hub, w, r, client, sse.StreamOptions{KeepAlive: 15 * time.Second})
package sse
