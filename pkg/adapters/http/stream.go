package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/fsmview/pkg/domain"
)

// anyMachine is the subscription key receiving events of every machine.
const anyMachine = ""

// StreamManager fans registry events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{} // machine -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for one machine, or for all with an empty name.
// The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(machine string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[machine]; !ok {
		sm.subscribers[machine] = make(map[chan string]struct{})
	}
	sm.subscribers[machine][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[machine]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, machine)
				}
			}
		})
	}
}

// Broadcast delivers msg to the subscribers of machine and to catch-all subscribers.
func (sm *StreamManager) Broadcast(machine string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	keys := []string{anyMachine}
	if machine != anyMachine {
		keys = append(keys, machine)
	}
	for _, key := range keys {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				// Slow client.
				sm.logger.Warn("SSE: client buffer full, dropping message", "machine", machine)
			}
		}
	}
}

// Hooks returns lifecycle hooks broadcasting ingest and remove events.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(_ context.Context, e *domain.MachineEvent) {
		data, err := json.Marshal(e)
		if err != nil {
			sm.logger.Error("SSE: event encode failed", "err", err)
			return
		}
		sm.Broadcast(e.Machine, string(data))
	}
	return domain.LifecycleHooks{
		OnIngest: publish,
		OnRemove: publish,
	}
}
