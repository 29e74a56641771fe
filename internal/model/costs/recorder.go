package costs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/audit"
	"max.ks1230/costs-service/internal/model/customerr"
)

type costStorage interface {
	GetUserByID(ctx context.Context, id string) (user.User, error)
	SaveCost(ctx context.Context, c cost.Cost) (cost.Cost, error)
}

// EventProducer publishes cost-recorded events. Optional collaborator;
// a nil producer disables publishing.
type EventProducer interface {
	ProduceMessage(message []byte) error
}

// ReportInvalidator drops the cached report of the month a new cost
// lands in. Optional collaborator; nil disables invalidation.
type ReportInvalidator interface {
	InvalidateReport(userID string, year, month int) error
}

// NewCost carries the caller-supplied fields of a cost entry. Sum and
// CreatedAt are pointers so absence is distinguishable from zero: a sum
// of 0 is a valid amount, and a missing created_at means "now".
type NewCost struct {
	Description string
	Category    string
	UserID      string
	Sum         *float64
	CreatedAt   *time.Time
}

type Recorder struct {
	storage costStorage
	events  EventProducer
	cache   ReportInvalidator
}

func NewRecorder(storage costStorage, events EventProducer, cache ReportInvalidator) *Recorder {
	return &Recorder{
		storage: storage,
		events:  events,
		cache:   cache,
	}
}

// AddCost validates and persists a new cost entry and reflects its sum
// into the owning user's running total. Validation order: field
// presence, then user existence, then category membership.
func (r *Recorder) AddCost(ctx context.Context, in NewCost) (cost.Cost, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "addCost")
	defer span.Finish()

	if in.Description == "" || in.Category == "" || in.UserID == "" || in.Sum == nil {
		return cost.Cost{}, &customerr.ValidationError{
			Err: "missing required fields: description, category, userid, sum",
		}
	}

	if _, err := r.storage.GetUserByID(ctx, in.UserID); err != nil {
		return cost.Cost{}, errors.Wrap(err, "add cost")
	}

	category, ok := cost.ParseCategory(in.Category)
	if !ok {
		return cost.Cost{}, &customerr.ValidationError{
			Err: "category must be one of: food, health, housing, sport, education",
		}
	}

	created := time.Now().UTC()
	if in.CreatedAt != nil {
		created = in.CreatedAt.UTC()
	}

	saved, err := r.storage.SaveCost(ctx, cost.Cost{
		Description: in.Description,
		Category:    category,
		UserID:      in.UserID,
		Sum:         *in.Sum,
		CreatedAt:   created,
	})
	if err != nil {
		return cost.Cost{}, errors.Wrap(err, "add cost")
	}

	r.invalidateReport(saved)
	r.publishEvent(saved)
	return saved, nil
}

func (r *Recorder) invalidateReport(c cost.Cost) {
	if r.cache == nil {
		return
	}
	err := r.cache.InvalidateReport(c.UserID, c.CreatedAt.Year(), int(c.CreatedAt.Month()))
	if err != nil {
		logger.Error("failed to invalidate report cache", zap.Error(err))
	}
}

func (r *Recorder) publishEvent(c cost.Cost) {
	if r.events == nil {
		return
	}

	payload, err := json.Marshal(audit.CostEvent{
		UserID:      c.UserID,
		Description: c.Description,
		Category:    string(c.Category),
		Sum:         c.Sum,
		CreatedAt:   c.CreatedAt,
		RecordedAt:  time.Now().UTC(),
	})
	if err != nil {
		logger.Error("cannot marshal cost event", zap.Error(err))
		return
	}
	if err = r.events.ProduceMessage(payload); err != nil {
		logger.Error("failed to publish cost event", zap.Error(err))
	}
}
