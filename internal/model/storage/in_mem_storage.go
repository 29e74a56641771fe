package storage

import (
	"context"
	"sync"
	"time"

	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/model/customerr"
)

// InMemStorage keeps users and costs in process memory. The mutex makes
// the cost-insert plus total-increment pair atomic, matching the
// transactional guarantee of the SQL backends.
type InMemStorage struct {
	mu     sync.Mutex
	users  map[string]user.User
	costs  map[string][]cost.Cost
	nextID int64
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		users: make(map[string]user.User),
		costs: make(map[string][]cost.Cost),
	}
}

func (s *InMemStorage) GetUserByID(_ context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, &customerr.NotFoundError{Err: "user not found"}
	}
	return u, nil
}

func (s *InMemStorage) SaveUser(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	return nil
}

func (s *InMemStorage) SaveCost(_ context.Context, c cost.Cost) (cost.Cost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[c.UserID]
	if !ok {
		return cost.Cost{}, &customerr.NotFoundError{Err: "user not found"}
	}

	s.nextID++
	c.ID = s.nextID
	s.costs[c.UserID] = append(s.costs[c.UserID], c)

	u.TotalCost += c.Sum
	s.users[c.UserID] = u
	return c, nil
}

func (s *InMemStorage) GetUserCostsBetween(_ context.Context, userID string, from, to time.Time) ([]cost.Cost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]cost.Cost, 0)
	for _, c := range s.costs[userID] {
		if c.CreatedAt.Before(from) || c.CreatedAt.After(to) {
			continue
		}
		res = append(res, c)
	}
	return res, nil
}
