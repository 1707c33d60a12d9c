package sse

import (
	nethttp "net/http"

	"github.com/hashicorp/go-uuid"
)

// Handler returns an http.Handler that serves a broker's events as a
// text/event-stream. Each connection becomes one subscriber and
// receives a "connected" event first; the subscription ends when the
// client goes away or the subscriber is closed.
func Handler(broker *Broker) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		flusher, ok := w.(nethttp.Flusher)
		if !ok {
			nethttp.Error(w, "streaming unsupported", nethttp.StatusInternalServerError)
			return
		}

		id, err := uuid.GenerateUUID()
		if err != nil {
			nethttp.Error(w, "cannot allocate subscriber id", nethttp.StatusInternalServerError)
			return
		}

		sub := broker.Subscribe(id)
		defer broker.Unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(nethttp.StatusOK)

		w.Write(Event{Name: "connected", Data: "subscriber_id:" + id}.Encode())
		flusher.Flush()

		for {
			select {
			case event := <-sub.Events:
				if _, err := w.Write(event.Encode()); err != nil {
					return
				}
				flusher.Flush()
			case <-sub.Done():
				return
			case <-r.Context().Done():
				return
			}
		}
	})
}
