package users

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/model/customerr"
)

type userStorage interface {
	GetUserByID(ctx context.Context, id string) (user.User, error)
}

// Service projects users into their public summary. The total is read
// as-is; keeping it correct is the cost recorder's job.
type Service struct {
	storage userStorage
}

func NewService(storage userStorage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Summary(ctx context.Context, userID string) (user.Summary, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "userSummary")
	defer span.Finish()

	if userID == "" {
		return user.Summary{}, &customerr.ValidationError{Err: "user id is required"}
	}

	u, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return user.Summary{}, errors.Wrap(err, "user summary")
	}

	return user.Summary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Total:     u.TotalCost,
	}, nil
}
