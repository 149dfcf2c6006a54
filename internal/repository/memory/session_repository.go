package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"catalog-chat-be/pkg/store"
)

// SessionRepository keeps per-user conversational state in memory with a
// bounded lifetime, so last-seen catalog matches and assistant threads
// never cross between users and idle sessions fall out on their own.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions expire after 1 hour of inactivity, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.UserId, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userId string) (*store.Session, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// GetOrCreate returns the live session for userId, creating and saving an
// empty one when absent. Fetching also refreshes the expiration clock.
func (r *SessionRepository) GetOrCreate(userId string) *store.Session {
	if s, found := r.Get(userId); found {
		r.Save(s)
		return s
	}
	s := &store.Session{UserId: userId}
	r.Save(s)
	return s
}

func (r *SessionRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
