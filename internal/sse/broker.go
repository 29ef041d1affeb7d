// Package sse implements a Server-Sent Events broker that tells docs
// clients when content or navigation changed.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event represents an SSE event to broadcast. Version and Locale scope the
// event; empty values reach every client.
type Event struct {
	Type    string `json:"type"`
	Data    any    `json:"data"`
	Version string `json:"-"`
	Locale  string `json:"-"`
}

// ContentChange is the payload of a content.changed event.
type ContentChange struct {
	Kind    string `json:"kind"`
	Version string `json:"version,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Event types emitted by the broker.
const (
	TypeContentChanged = "content.changed"
	TypeNavUpdated     = "nav.updated"
)

// heartbeatInterval keeps idle connections open through proxies.
const heartbeatInterval = 30 * time.Second

// Filter restricts a subscription to one version and/or locale. The zero
// Filter receives everything.
type Filter struct {
	Version string
	Locale  string
}

func (f Filter) matches(version, locale string) bool {
	return (f.Version == "" || version == "" || f.Version == version) &&
		(f.Locale == "" || locale == "" || f.Locale == locale)
}

type subscription struct {
	ch     chan []byte
	filter Filter
}

type scope struct{ version, locale string }

// Broker manages SSE client connections and broadcasts events.
//
// A single event loop owns the client set, the event counter and the
// per-scope nav throttle. Public methods talk to it over channels.
type Broker struct {
	navMin time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	changeCh      chan ContentChange
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. navThrottle is the minimum gap between
// two nav.updated events for the same (version, locale).
func NewBroker(navThrottle time.Duration) *Broker {
	if navThrottle <= 0 {
		navThrottle = 2 * time.Second
	}

	b := &Broker{
		navMin:        navThrottle,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		changeCh:      make(chan ContentChange, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]Filter)
	lastNav := make(map[scope]time.Time)
	var seq uint64

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		seq++
		raw := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, event.Type, payload))

		for ch, f := range clients {
			if !f.matches(event.Version, event.Locale) {
				continue
			}
			select {
			case ch <- raw:
			default:
				// Slow client; drop rather than stall the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			clients[sub.ch] = sub.filter

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case change := <-b.changeCh:
			broadcast(Event{Type: TypeContentChanged, Data: change, Version: change.Version, Locale: change.Locale})

			sc := scope{change.Version, change.Locale}
			now := time.Now()
			if now.Sub(lastNav[sc]) >= b.navMin {
				lastNav[sc] = now
				broadcast(Event{
					Type:    TypeNavUpdated,
					Data:    map[string]string{"version": change.Version, "locale": change.Locale},
					Version: change.Version,
					Locale:  change.Locale,
				})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the event loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a client receiving the events that match f.
func (b *Broker) Subscribe(f Filter) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- subscription{ch: ch, filter: f}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to every client whose filter matches it.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishContentChange publishes a content.changed event followed by a
// nav.updated event, throttled per (version, locale).
func (b *Broker) PublishContentChange(c ContentChange) {
	if b.closed.Load() {
		return
	}
	select {
	case b.changeCh <- c:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events). The optional
// version and locale query parameters narrow the stream.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("retry: 3000\n\n"))
	flusher.Flush()

	q := r.URL.Query()
	ch := b.Subscribe(Filter{Version: q.Get("version"), Locale: q.Get("locale")})
	defer b.Unsubscribe(ch)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
