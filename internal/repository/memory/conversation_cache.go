package memory

import (
	"time"

	"medichat/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ConversationCache keeps recently accessed conversation metadata in memory so
// hot paths (title lookups, existence checks) skip the database.
type ConversationCache struct {
	cache *cache.Cache
}

func NewConversationCache() *ConversationCache {
	// Default expiration of 1 hour, purge of expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ConversationCache{
		cache: c,
	}
}

func (r *ConversationCache) Save(conversation *entity.Conversation) {
	r.cache.Set(conversation.Id.String(), conversation, cache.DefaultExpiration)
}

func (r *ConversationCache) Get(id uuid.UUID) (*entity.Conversation, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*entity.Conversation), true
	}
	return nil, false
}

func (r *ConversationCache) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}
