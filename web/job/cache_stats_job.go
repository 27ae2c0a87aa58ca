package job

import (
	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/util/common"
	"github.com/akraev/simple-api/web/cache"
)

// CacheStatsJob periodically logs the cumulative cache hit/miss counters.
type CacheStatsJob struct{}

// NewCacheStatsJob creates a new cache stats job instance.
func NewCacheStatsJob() *CacheStatsJob {
	return new(CacheStatsJob)
}

// Run logs the current cache read statistics.
func (j *CacheStatsJob) Run() {
	defer common.Recover("cache stats job")
	hits, misses := cache.Stats()
	logger.Infof("cache reads: %d hits, %d misses", hits, misses)
}
