package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
)

// FakeCache is an in-memory Cache that records reads and writes.
type FakeCache struct {
	Tables map[string]*leaderboarddomain.Table
	Hits   int
	Sets   int

	GetErr error
}

func NewFakeCache() *FakeCache {
	return &FakeCache{Tables: map[string]*leaderboarddomain.Table{}}
}

func (c *FakeCache) Get(_ context.Context, key string) (*leaderboarddomain.Table, bool, error) {
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	t, ok := c.Tables[key]
	if ok {
		c.Hits++
	}
	return t, ok, nil
}

func (c *FakeCache) Set(_ context.Context, key string, t *leaderboarddomain.Table) error {
	c.Sets++
	c.Tables[key] = t
	return nil
}

func (c *FakeCache) Invalidate(context.Context) (int, error) {
	n := len(c.Tables)
	c.Tables = map[string]*leaderboarddomain.Table{}
	return n, nil
}
