package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/model/customerr"
)

func Test_OnSaveCost_ShouldIncrementUserTotal(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()
	assert.NoError(t, s.SaveUser(ctx, user.User{ID: "42", FirstName: "dana", LastName: "cohen"}))

	saved, err := s.SaveCost(ctx, cost.Cost{
		Description: "milk",
		Category:    cost.Food,
		UserID:      "42",
		Sum:         8,
		CreatedAt:   time.Now().UTC(),
	})
	assert.NoError(t, err)
	assert.NotZero(t, saved.ID)

	u, err := s.GetUserByID(ctx, "42")
	assert.NoError(t, err)
	assert.Equal(t, 8.0, u.TotalCost)

	_, err = s.SaveCost(ctx, cost.Cost{Description: "gym", Category: cost.Sport, UserID: "42", Sum: 30, CreatedAt: time.Now().UTC()})
	assert.NoError(t, err)

	u, err = s.GetUserByID(ctx, "42")
	assert.NoError(t, err)
	assert.Equal(t, 38.0, u.TotalCost)
}

func Test_OnSaveCost_ShouldRejectUnknownUser(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	_, err := s.SaveCost(ctx, cost.Cost{Description: "milk", Category: cost.Food, UserID: "nope", Sum: 8})

	var notFound *customerr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func Test_OnGetUserByID_ShouldReportMissingUser(t *testing.T) {
	s := NewInMemStorage()

	_, err := s.GetUserByID(context.Background(), "nope")

	var notFound *customerr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func Test_OnGetUserCostsBetween_ShouldFilterByRange(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()
	assert.NoError(t, s.SaveUser(ctx, user.User{ID: "42"}))

	dates := []time.Time{
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	for _, d := range dates {
		_, err := s.SaveCost(ctx, cost.Cost{Description: "x", Category: cost.Food, UserID: "42", Sum: 1, CreatedAt: d})
		assert.NoError(t, err)
	}

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.January, 31, 23, 59, 59, 999999999, time.UTC)
	found, err := s.GetUserCostsBetween(ctx, "42", from, to)

	assert.NoError(t, err)
	assert.Len(t, found, 2)
	for _, c := range found {
		assert.Equal(t, time.January, c.CreatedAt.Month())
	}
}

func Test_OnGetUserCostsBetween_ShouldKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()
	assert.NoError(t, s.SaveUser(ctx, user.User{ID: "42"}))

	day := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	for _, desc := range []string{"first", "second", "third"} {
		_, err := s.SaveCost(ctx, cost.Cost{Description: desc, Category: cost.Health, UserID: "42", Sum: 1, CreatedAt: day})
		assert.NoError(t, err)
	}

	found, err := s.GetUserCostsBetween(ctx, "42", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	assert.NoError(t, err)
	assert.Len(t, found, 3)
	assert.Equal(t, "first", found[0].Description)
	assert.Equal(t, "second", found[1].Description)
	assert.Equal(t, "third", found[2].Description)
}
