package cache

import (
	"strconv"

	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheClient caches serialized monthly reports. Keys are scoped by
// user and month so a new cost only invalidates the month it lands in.
type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(userID string, year, month int) string {
	return "report:" + userID + ":" + strconv.Itoa(year) + ":" + strconv.Itoa(month)
}

func (mc *MemcacheClient) CacheReport(userID string, year, month int, report []byte) error {
	logger.Info("cache report", zap.String("userID", userID), zap.Int("year", year), zap.Int("month", month))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(userID, year, month),
		Value: report,
	})
}

func (mc *MemcacheClient) GetReport(userID string, year, month int) ([]byte, error) {
	item, err := mc.client.Get(formatKey(userID, year, month))
	if err != nil {
		return nil, err
	}
	logger.Info("report served from cache", zap.String("userID", userID), zap.Int("year", year), zap.Int("month", month))
	return item.Value, nil
}

func (mc *MemcacheClient) InvalidateReport(userID string, year, month int) error {
	logger.Info("invalidate report", zap.String("userID", userID), zap.Int("year", year), zap.Int("month", month))

	err := mc.client.Delete(formatKey(userID, year, month))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}
