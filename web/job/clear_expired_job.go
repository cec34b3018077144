package job

import (
	"time"

	"gacha-system/database"
	"gacha-system/logger"
	"gacha-system/web/service"
)

// ClearExpiredJob sweeps rows whose TTL has passed. Reads already
// treat expired rows as absent, the job only keeps the tables from
// growing without bound.
type ClearExpiredJob struct {
	prefetchService *service.PrefetchService
}

func NewClearExpiredJob(prefetchService *service.PrefetchService) *ClearExpiredJob {
	return &ClearExpiredJob{
		prefetchService: prefetchService,
	}
}

func (j *ClearExpiredJob) Run() {
	now := time.Now()

	if n, err := j.prefetchService.PurgeExpired(now); err != nil {
		logger.Warning("purge expired prefetch slots failed: ", err)
	} else if n > 0 {
		logger.Debugf("purged %d expired prefetch slots", n)
	}

	if n, err := database.PurgeExpiredLists(now); err != nil {
		logger.Warning("purge expired cached lists failed: ", err)
	} else if n > 0 {
		logger.Debugf("purged %d expired cached lists", n)
	}
}
