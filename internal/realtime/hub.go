package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"

	"taskpilot/internal/models"
)

// Subscriber receives change events for one owner.
type Subscriber interface {
	Send(change models.TaskChange) error
	Close() error
}

// Hub fans task changes out to the owner's open subscriptions. It implements
// services.ChangeNotifier.
type Hub struct {
	mu     sync.RWMutex
	owners map[string]map[Subscriber]struct{}
	log    logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		owners: make(map[string]map[Subscriber]struct{}),
		log:    log,
	}
}

func (h *Hub) Register(ownerID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owners[ownerID] == nil {
		h.owners[ownerID] = make(map[Subscriber]struct{})
	}
	h.owners[ownerID][sub] = struct{}{}
}

func (h *Hub) Unregister(ownerID string, sub Subscriber) {
	h.mu.Lock()
	if subs, ok := h.owners[ownerID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.owners, ownerID)
		}
	}
	h.mu.Unlock()
	_ = sub.Close()
}

// Subscribers reports how many subscriptions ownerID currently has.
func (h *Hub) Subscribers(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.owners[ownerID])
}

// TasksChanged delivers change to every subscriber of ownerID. Subscribers that fail
// to receive are dropped.
func (h *Hub) TasksChanged(ownerID string, change models.TaskChange) {
	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.owners[ownerID]))
	for sub := range h.owners[ownerID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(change); err != nil {
			h.log.WithFields(logrus.Fields{"user_id": ownerID, "error": err}).
				Debug("[realtime] dropping subscriber")
			h.Unregister(ownerID, sub)
		}
	}
}

// Close drops every subscription. Hijacked websocket connections are not closed by
// http.Server.Shutdown, so the hub does it.
func (h *Hub) Close() error {
	h.mu.Lock()
	owners := h.owners
	h.owners = make(map[string]map[Subscriber]struct{})
	h.mu.Unlock()

	for _, subs := range owners {
		for sub := range subs {
			_ = sub.Close()
		}
	}
	return nil
}
