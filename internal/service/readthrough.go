package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"mitramandal-backend/internal/cache"
	"mitramandal-backend/internal/domain"
	"mitramandal-backend/internal/repository"
)

// ReadThrough resolves members and items from the read cache, falling back
// to the store on a miss. Concurrent misses for one key share a single
// store read, detached from the cancellation of the caller that started it.
type ReadThrough struct {
	repos repository.Repositories
	cache *cache.ReadCache
	group singleflight.Group
}

func NewReadThrough(repos repository.Repositories, c *cache.ReadCache) *ReadThrough {
	return &ReadThrough{repos: repos, cache: c}
}

func (rt *ReadThrough) Member(ctx context.Context, id string) (*domain.Member, error) {
	if m, ok := rt.cache.Member(id); ok {
		return &m, nil
	}
	shared := context.WithoutCancel(ctx)
	v, err, _ := rt.group.Do("member:"+id, func() (any, error) {
		m, err := rt.repos.Members.GetByID(shared, id)
		if err != nil {
			return nil, err
		}
		rt.cache.PutMember(*m)
		return *m, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member %s: %w", id, err)
	}
	m := v.(domain.Member).Clone()
	return &m, nil
}

func (rt *ReadThrough) Item(ctx context.Context, id string) (*domain.Item, error) {
	if it, ok := rt.cache.Item(id); ok {
		return &it, nil
	}
	return rt.loadItem(ctx, "item:"+id, func(ctx context.Context) (*domain.Item, error) {
		return rt.repos.Items.GetByID(ctx, id)
	})
}

func (rt *ReadThrough) ItemByCode(ctx context.Context, code string) (*domain.Item, error) {
	if it, ok := rt.cache.ItemByCode(code); ok {
		return &it, nil
	}
	return rt.loadItem(ctx, "code:"+code, func(ctx context.Context) (*domain.Item, error) {
		return rt.repos.Items.GetByCode(ctx, code)
	})
}

func (rt *ReadThrough) loadItem(ctx context.Context, key string, fetch func(ctx context.Context) (*domain.Item, error)) (*domain.Item, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := rt.group.Do(key, func() (any, error) {
		it, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		rt.cache.PutItem(*it)
		return *it, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	it := v.(domain.Item).Clone()
	return &it, nil
}

// MemberItems resolves every item issued to the member.
func (rt *ReadThrough) MemberItems(ctx context.Context, m *domain.Member) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(m.ItemIDs))
	for _, id := range m.ItemIDs {
		it, err := rt.Item(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, nil
}
