package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
)

const (
	// QueueSize is the number of events buffered per session. Events for a
	// session whose queue is full are dropped.
	QueueSize = 64

	pushTimeout = 5 * time.Second
)

type push struct {
	event string
	args  []any
}

type session struct {
	srv   *jrpc2.Server
	queue chan push
	done  chan struct{}
	once  sync.Once
}

func (s *session) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Broadcaster maintains the set of connected jrpc2 servers and pushes every
// event to all of them as a JSON-RPC notification with positional params.
// Each server is fed from its own queue so that Emit never waits on a
// client.
type Broadcaster struct {
	sessions map[*jrpc2.Server]*session
	log      *slog.Logger
	mu       sync.RWMutex
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(l *slog.Logger) *Broadcaster {
	return &Broadcaster{
		sessions: make(map[*jrpc2.Server]*session),
		log:      l,
	}
}

// Register adds a server to the broadcast set.
func (b *Broadcaster) Register(srv *jrpc2.Server) {
	s := &session{
		srv:   srv,
		queue: make(chan push, QueueSize),
		done:  make(chan struct{}),
	}

	b.mu.Lock()
	if old, ok := b.sessions[srv]; ok {
		old.stop()
	}

	b.sessions[srv] = s
	b.mu.Unlock()

	go b.deliver(s)
}

// Unregister removes a server from the broadcast set.
func (b *Broadcaster) Unregister(srv *jrpc2.Server) {
	b.mu.Lock()
	s, ok := b.sessions[srv]
	delete(b.sessions, srv)
	b.mu.Unlock()

	if ok {
		s.stop()
	}
}

// Count returns the number of registered servers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.sessions)
}

// Emit queues the event for every registered server.
func (b *Broadcaster) Emit(event string, args ...any) {
	if args == nil {
		args = []any{}
	}

	p := push{event: event, args: args}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.sessions {
		select {
		case s.queue <- p:
		default:
			b.warn("rpc push dropped, client is not reading", event, nil)
		}
	}
}

// deliver sends queued events to one server until it is unregistered or a
// push fails.
func (b *Broadcaster) deliver(s *session) {
	for {
		select {
		case <-s.done:
			return
		case p := <-s.queue:
			ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
			err := s.srv.Notify(ctx, p.event, p.args)

			cancel()

			if err != nil {
				b.warn("rpc push failed", p.event, err)
				b.drop(s)

				return
			}
		}
	}
}

// drop unregisters s if it is still the current session of its server.
func (b *Broadcaster) drop(s *session) {
	b.mu.Lock()
	if b.sessions[s.srv] == s {
		delete(b.sessions, s.srv)
	}
	b.mu.Unlock()

	s.stop()
}

func (b *Broadcaster) warn(msg, event string, err error) {
	if b.log == nil {
		return
	}

	if err != nil {
		b.log.Warn(msg, slog.String("event", event), slog.Any("error", err))
		return
	}

	b.log.Warn(msg, slog.String("event", event))
}

// Close stops every registered server and empties the broadcast set.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	sessions := b.sessions
	b.sessions = make(map[*jrpc2.Server]*session)
	b.mu.Unlock()

	for srv, s := range sessions {
		s.stop()
		srv.Stop()
	}
}
