package conversation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quillsearch/search-agent/internal/models"
)

var ErrNotFound = errors.New("conversation not found")

// Store is the process-lifetime registry of conversation turns. All
// state is lost on restart.
type Store interface {
	// GetOrCreate returns the existing conversation id, or allocates a
	// fresh one when id is empty. The second return reports whether a
	// new conversation was created.
	GetOrCreate(id string) (string, bool)
	// AppendExchange appends a user/assistant turn pair atomically, so
	// concurrent requests to the same conversation never interleave a
	// pair. Creates the conversation if absent.
	AppendExchange(id string, user models.Turn, assistant models.Turn)
	// History returns the turns in strict append order. Unknown ids fail
	// with ErrNotFound.
	History(id string) ([]models.Turn, error)
}

type entry struct {
	mu        sync.Mutex
	turns     []models.Turn
	createdAt time.Time
}

// InMemoryStore guards the registry with a map-level RWMutex and each
// conversation with its own lock, so unrelated conversations never
// serialize on each other.
type InMemoryStore struct {
	mu sync.RWMutex
	// conversations maps id to its entry. Entries are never removed
	// except by the eviction cap.
	conversations map[string]*entry
	// maxConversations bounds registry growth; 0 means unbounded.
	maxConversations int
}

func NewInMemoryStore(maxConversations int) *InMemoryStore {
	return &InMemoryStore{
		conversations:    make(map[string]*entry),
		maxConversations: maxConversations,
	}
}

func (s *InMemoryStore) GetOrCreate(id string) (string, bool) {
	if id == "" {
		id = uuid.NewString()
		s.getOrCreateEntry(id)
		return id, true
	}

	s.mu.RLock()
	_, ok := s.conversations[id]
	s.mu.RUnlock()
	if ok {
		return id, false
	}

	s.getOrCreateEntry(id)
	return id, true
}

func (s *InMemoryStore) AppendExchange(id string, user models.Turn, assistant models.Turn) {
	e := s.getOrCreateEntry(id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = append(e.turns, user, assistant)
}

func (s *InMemoryStore) History(id string) ([]models.Turn, error) {
	s.mu.RLock()
	e, ok := s.conversations[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	turns := make([]models.Turn, len(e.turns))
	copy(turns, e.turns)
	return turns, nil
}

func (s *InMemoryStore) getOrCreateEntry(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.conversations[id]; ok {
		return e
	}

	if s.maxConversations > 0 && len(s.conversations) >= s.maxConversations {
		s.evictOldestLocked()
	}

	e := &entry{createdAt: time.Now()}
	s.conversations[id] = e
	return e
}

// evictOldestLocked drops the oldest-created conversation. Caller holds
// the map lock.
func (s *InMemoryStore) evictOldestLocked() {
	type aged struct {
		id        string
		createdAt time.Time
	}
	all := make([]aged, 0, len(s.conversations))
	for id, e := range s.conversations {
		all = append(all, aged{id: id, createdAt: e.createdAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].createdAt.Before(all[j].createdAt) })
	delete(s.conversations, all[0].id)
}
