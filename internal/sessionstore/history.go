// Package sessionstore holds the cross-run keyed state: per-session
// conversation history and the plan cache. Both stores are concurrency-safe
// and bounded; session identifiers are supplied by the transport layer.
package sessionstore

import (
	"container/list"
	"sync"
	"time"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

const (
	defaultTTL         = 24 * time.Hour
	defaultMaxSessions = 4096

	// DefaultHistoryLimit caps the per-session message deque.
	DefaultHistoryLimit = 10
)

// History is an LRU+TTL store of bounded conversation histories. The bound
// applies per session: once limit messages are stored, appending evicts the
// oldest message.
type History struct {
	mu sync.Mutex

	ttl         time.Duration
	maxSessions int
	limit       int

	lru *list.List               // front=MRU
	m   map[string]*list.Element // id -> element(Value=*histItem)
}

type histItem struct {
	id       string
	messages []spec.Message
	lastUsed time.Time
}

func NewHistory() *History {
	return &History{
		ttl:         defaultTTL,
		maxSessions: defaultMaxSessions,
		limit:       DefaultHistoryLimit,
		lru:         list.New(),
		m:           map[string]*list.Element{},
	}
}

func (h *History) SetTTL(ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	h.mu.Lock()
	h.ttl = ttl
	h.evictExpiredLocked(time.Now())
	h.mu.Unlock()
}

func (h *History) SetMaxSessions(maxSessions int) {
	if maxSessions < 0 {
		maxSessions = 0
	}
	h.mu.Lock()
	h.maxSessions = maxSessions
	h.evictOverLimitLocked()
	h.mu.Unlock()
}

// SetLimit caps how many messages each session retains. Existing sessions are
// trimmed lazily on their next append.
func (h *History) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	h.mu.Lock()
	h.limit = limit
	h.mu.Unlock()
}

// Get returns a copy of the session's history, oldest first. An empty or
// unknown session id yields nil.
func (h *History) Get(sessionID string) []spec.Message {
	if sessionID == "" {
		return nil
	}
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.evictExpiredLocked(now)

	e := h.m[sessionID]
	if e == nil {
		return nil
	}
	it := e.Value.(*histItem)
	it.lastUsed = now
	h.lru.MoveToFront(e)

	out := make([]spec.Message, len(it.messages))
	copy(out, it.messages)
	return out
}

// AppendUser records a user turn. Empty session ids are ignored.
func (h *History) AppendUser(sessionID, text string) {
	h.append(sessionID, spec.Message{Role: spec.RoleUser, Content: text})
}

// AppendAssistant records the assistant's raw response.
func (h *History) AppendAssistant(sessionID, text string) {
	h.append(sessionID, spec.Message{Role: spec.RoleAssistant, Content: text})
}

// Delete drops a session's history, typically on transport disconnect.
func (h *History) Delete(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e := h.m[sessionID]; e != nil {
		h.deleteElemLocked(e)
	}
}

func (h *History) append(sessionID string, msg spec.Message) {
	if sessionID == "" {
		return
	}
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.evictExpiredLocked(now)
	h.evictOverLimitLocked()

	e := h.m[sessionID]
	if e == nil {
		it := &histItem{id: sessionID, lastUsed: now}
		e = h.lru.PushFront(it)
		h.m[sessionID] = e
		h.evictOverLimitLocked()
	}

	it := e.Value.(*histItem)
	it.lastUsed = now
	it.messages = append(it.messages, msg)
	if over := len(it.messages) - h.limit; over > 0 {
		it.messages = append(it.messages[:0:0], it.messages[over:]...)
	}
	h.lru.MoveToFront(e)
}

func (h *History) evictExpiredLocked(now time.Time) {
	if h.ttl <= 0 {
		return
	}
	for e := h.lru.Back(); e != nil; {
		prev := e.Prev()
		it := e.Value.(*histItem)
		if now.Sub(it.lastUsed) <= h.ttl {
			break
		}
		h.deleteElemLocked(e)
		e = prev
	}
}

func (h *History) evictOverLimitLocked() {
	if h.maxSessions <= 0 {
		return
	}
	for h.lru.Len() > h.maxSessions {
		e := h.lru.Back()
		if e == nil {
			return
		}
		h.deleteElemLocked(e)
	}
}

func (h *History) deleteElemLocked(e *list.Element) {
	it := e.Value.(*histItem)
	delete(h.m, it.id)
	h.lru.Remove(e)
}
