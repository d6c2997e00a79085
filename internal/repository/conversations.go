package repository

import (
	"hash/fnv"
	"sync"
	"time"

	"matchtix/internal/models"
)

const conversationShards = 16

// ConversationStore maps sender identity to conversation state. The map is
// sharded by sender hash so one busy shard does not serialize every sender.
type ConversationStore struct {
	shards [conversationShards]*conversationShard
}

type conversationShard struct {
	mu     sync.RWMutex
	states map[string]*models.ConversationState
}

func NewConversationStore() *ConversationStore {
	s := &ConversationStore{}
	for i := range s.shards {
		s.shards[i] = &conversationShard{
			states: make(map[string]*models.ConversationState),
		}
	}
	return s
}

func (s *ConversationStore) shardFor(senderID string) *conversationShard {
	h := fnv.New32a()
	h.Write([]byte(senderID))
	return s.shards[h.Sum32()%conversationShards]
}

// GetOrCreate returns the state for a sender, creating it on first contact.
// Racing first turns for the same sender observe the same state object:
// exactly one create wins under the shard lock.
func (s *ConversationStore) GetOrCreate(senderID string) *models.ConversationState {
	shard := s.shardFor(senderID)

	shard.mu.RLock()
	state, ok := shard.states[senderID]
	shard.mu.RUnlock()
	if ok {
		return state
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if state, ok = shard.states[senderID]; ok {
		return state
	}
	state = models.NewConversationState(senderID)
	shard.states[senderID] = state
	return state
}

// Reset clears the sender's intent and waiting flags without removing the
// entry. Unknown senders are a no-op, as is a second Reset.
func (s *ConversationStore) Reset(senderID string) {
	shard := s.shardFor(senderID)

	shard.mu.RLock()
	state, ok := shard.states[senderID]
	shard.mu.RUnlock()
	if !ok {
		return
	}

	state.Lock()
	state.Reset()
	state.LastActive = time.Now()
	state.Unlock()
}

// Len reports how many senders have conversed during this process lifetime.
func (s *ConversationStore) Len() int {
	n := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		n += len(shard.states)
		shard.mu.RUnlock()
	}
	return n
}
