package reports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jinzhu/now"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/entity/cost"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/customerr"
)

// Entry is one cost projected into a monthly report. Day is the 1-based
// day of month the cost was created on.
type Entry struct {
	Sum         float64 `json:"sum"`
	Description string  `json:"description"`
	Day         int     `json:"day"`
}

// Report is a month-scoped, category-grouped view of a user's costs.
// Costs holds one single-key mapping per category, always all five and
// always in the fixed category order, so the shape is stable whether or
// not a category has entries.
type Report struct {
	UserID string                      `json:"userid"`
	Year   int                         `json:"year"`
	Month  int                         `json:"month"`
	Costs  []map[cost.Category][]Entry `json:"costs"`
}

type costStorage interface {
	GetUserCostsBetween(ctx context.Context, userID string, from, to time.Time) ([]cost.Cost, error)
}

// ReportCache holds serialized reports. Optional collaborator; nil
// disables caching.
type ReportCache interface {
	GetReport(userID string, year, month int) ([]byte, error)
	CacheReport(userID string, year, month int, report []byte) error
}

type Generator struct {
	storage costStorage
	cache   ReportCache
}

func NewGenerator(storage costStorage, cache ReportCache) *Generator {
	return &Generator{
		storage: storage,
		cache:   cache,
	}
}

// MonthlyReport groups the user's costs of one calendar month by
// category. Pure read; calling it twice with no intervening writes
// yields identical results.
func (g *Generator) MonthlyReport(ctx context.Context, userID string, year, month int) (Report, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "monthlyReport")
	defer span.Finish()

	if userID == "" {
		return Report{}, &customerr.ValidationError{Err: "userid is required"}
	}
	if month < 1 || month > 12 {
		return Report{}, &customerr.ValidationError{Err: "month must be between 1 and 12"}
	}

	if cached, ok := g.fromCache(userID, year, month); ok {
		return cached, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := now.With(from).EndOfMonth()

	found, err := g.storage.GetUserCostsBetween(ctx, userID, from, to)
	if err != nil {
		return Report{}, errors.Wrap(err, "monthly report")
	}

	grouped := make(map[cost.Category][]Entry, len(cost.Categories))
	for _, category := range cost.Categories {
		grouped[category] = make([]Entry, 0)
	}
	for _, c := range found {
		grouped[c.Category] = append(grouped[c.Category], Entry{
			Sum:         c.Sum,
			Description: c.Description,
			Day:         c.CreatedAt.UTC().Day(),
		})
	}

	ordered := make([]map[cost.Category][]Entry, 0, len(cost.Categories))
	for _, category := range cost.Categories {
		ordered = append(ordered, map[cost.Category][]Entry{category: grouped[category]})
	}

	report := Report{
		UserID: userID,
		Year:   year,
		Month:  month,
		Costs:  ordered,
	}
	g.toCache(report)
	return report, nil
}

func (g *Generator) fromCache(userID string, year, month int) (Report, bool) {
	if g.cache == nil {
		return Report{}, false
	}
	raw, err := g.cache.GetReport(userID, year, month)
	if err != nil {
		return Report{}, false
	}
	var report Report
	if err = json.Unmarshal(raw, &report); err != nil {
		logger.Warn("cannot unmarshal cached report", zap.Error(err))
		return Report{}, false
	}
	return report, true
}

func (g *Generator) toCache(report Report) {
	if g.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		logger.Error("cannot marshal report", zap.Error(err))
		return
	}
	err = g.cache.CacheReport(report.UserID, report.Year, report.Month, payload)
	if err != nil {
		logger.Error("failed to cache report", zap.Error(err))
	}
}
