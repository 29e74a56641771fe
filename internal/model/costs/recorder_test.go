package costs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/model/audit"
	"max.ks1230/costs-service/internal/model/customerr"
	"max.ks1230/costs-service/internal/model/storage"
)

type producerFake struct {
	messages [][]byte
}

func (p *producerFake) ProduceMessage(message []byte) error {
	p.messages = append(p.messages, message)
	return nil
}

type invalidatorFake struct {
	calls []string
}

func (i *invalidatorFake) InvalidateReport(userID string, year, month int) error {
	i.calls = append(i.calls, userID)
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func newStorageWithUser(t *testing.T, id string) *storage.InMemStorage {
	t.Helper()
	s := storage.NewInMemStorage()
	assert.NoError(t, s.SaveUser(context.Background(), user.User{ID: id, FirstName: "mosh", LastName: "israeli"}))
	return s
}

func Test_OnAddCost_ShouldPersistCostAndIncrementTotal(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	recorder := NewRecorder(store, nil, nil)

	saved, err := recorder.AddCost(ctx, NewCost{
		Description: "milk",
		Category:    "food",
		UserID:      "123123",
		Sum:         floatPtr(8),
	})

	assert.NoError(t, err)
	assert.Equal(t, "milk", saved.Description)
	assert.Equal(t, cost.Food, saved.Category)
	assert.Equal(t, "123123", saved.UserID)
	assert.Equal(t, 8.0, saved.Sum)
	assert.False(t, saved.CreatedAt.IsZero())

	u, err := store.GetUserByID(ctx, "123123")
	assert.NoError(t, err)
	assert.Equal(t, 8.0, u.TotalCost)
}

func Test_OnAddCost_ShouldKeepCallerCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	recorder := NewRecorder(store, nil, nil)

	created := time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)
	saved, err := recorder.AddCost(ctx, NewCost{
		Description: "bread",
		Category:    "food",
		UserID:      "123123",
		Sum:         floatPtr(12),
		CreatedAt:   &created,
	})

	assert.NoError(t, err)
	assert.Equal(t, created, saved.CreatedAt)
}

func Test_OnAddCost_ShouldAcceptZeroSum(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	recorder := NewRecorder(store, nil, nil)

	saved, err := recorder.AddCost(ctx, NewCost{
		Description: "free sample",
		Category:    "food",
		UserID:      "123123",
		Sum:         floatPtr(0),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0.0, saved.Sum)
}

func Test_OnAddCost_ShouldRejectMissingFields(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	recorder := NewRecorder(store, nil, nil)

	inputs := []NewCost{
		{Category: "food", UserID: "123123", Sum: floatPtr(8)},
		{Description: "milk", UserID: "123123", Sum: floatPtr(8)},
		{Description: "milk", Category: "food", Sum: floatPtr(8)},
		{Description: "milk", Category: "food", UserID: "123123"},
	}
	for _, in := range inputs {
		_, err := recorder.AddCost(ctx, in)

		var validationErr *customerr.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}

	u, err := store.GetUserByID(ctx, "123123")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, u.TotalCost)
}

func Test_OnAddCost_ShouldRejectUnknownUserWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	events := &producerFake{}
	invalidator := &invalidatorFake{}
	recorder := NewRecorder(store, events, invalidator)

	_, err := recorder.AddCost(ctx, NewCost{
		Description: "milk",
		Category:    "food",
		UserID:      "ghost",
		Sum:         floatPtr(8),
	})

	var notFound *customerr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Empty(t, events.messages)
	assert.Empty(t, invalidator.calls)

	u, err := store.GetUserByID(ctx, "123123")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, u.TotalCost)
}

func Test_OnAddCost_ShouldRejectUnknownCategory(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	recorder := NewRecorder(store, nil, nil)

	_, err := recorder.AddCost(ctx, NewCost{
		Description: "crypto",
		Category:    "investments",
		UserID:      "123123",
		Sum:         floatPtr(100),
	})

	var validationErr *customerr.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	u, err := store.GetUserByID(ctx, "123123")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, u.TotalCost)
}

func Test_OnAddCost_ShouldPublishEventAndInvalidateCache(t *testing.T) {
	ctx := context.Background()
	store := newStorageWithUser(t, "123123")
	events := &producerFake{}
	invalidator := &invalidatorFake{}
	recorder := NewRecorder(store, events, invalidator)

	created := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	_, err := recorder.AddCost(ctx, NewCost{
		Description: "bread",
		Category:    "food",
		UserID:      "123123",
		Sum:         floatPtr(12),
		CreatedAt:   &created,
	})
	assert.NoError(t, err)

	assert.Equal(t, []string{"123123"}, invalidator.calls)
	assert.Len(t, events.messages, 1)

	var ev audit.CostEvent
	assert.NoError(t, json.Unmarshal(events.messages[0], &ev))
	assert.Equal(t, "123123", ev.UserID)
	assert.Equal(t, "food", ev.Category)
	assert.Equal(t, 12.0, ev.Sum)
	assert.Equal(t, created, ev.CreatedAt)
}
