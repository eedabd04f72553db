package memory

import (
	"time"

	"catalog-console-be/pkg/qastream"

	"github.com/patrickmn/go-cache"
)

// QaControllerRepository keeps one QA stream controller per user. A
// controller owns at most one open engine stream, so evicting an idle
// entry also drops the handle that would keep that stream alive.
type QaControllerRepository struct {
	cache *cache.Cache
}

func NewQaControllerRepository() *QaControllerRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if ctrl, ok := v.(*qastream.Controller); ok {
			ctrl.Stop()
		}
	})
	return &QaControllerRepository{
		cache: c,
	}
}

func (r *QaControllerRepository) Save(userId string, ctrl *qastream.Controller) {
	r.cache.Set(userId, ctrl, cache.DefaultExpiration)
}

func (r *QaControllerRepository) Get(userId string) (*qastream.Controller, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*qastream.Controller), true
	}
	return nil, false
}

func (r *QaControllerRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
