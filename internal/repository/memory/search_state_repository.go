package memory

import (
	"time"

	"catalog-console-be/pkg/searchsession"

	"github.com/patrickmn/go-cache"
)

// SearchStateRepository keeps one search session controller per user.
// State expires after an hour of inactivity, matching how long the
// console keeps its result panel alive.
type SearchStateRepository struct {
	cache *cache.Cache
}

func NewSearchStateRepository() *SearchStateRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SearchStateRepository{
		cache: c,
	}
}

func (r *SearchStateRepository) Save(userId string, ctrl *searchsession.Controller) {
	r.cache.Set(userId, ctrl, cache.DefaultExpiration)
}

func (r *SearchStateRepository) Get(userId string) (*searchsession.Controller, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*searchsession.Controller), true
	}
	return nil, false
}

func (r *SearchStateRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
