package service

import (
	"time"

	"gacha-system/config"
	"gacha-system/database"
	"gacha-system/database/model"
	"gacha-system/logger"
)

// PrefetchService maintains the single per-user slot holding one
// pre-acquired asset. A warm slot turns the next draw into a cheap
// database read instead of an upstream round-trip.
type PrefetchService struct {
	gameConfig     *config.GameConfig
	acquireService *AcquireService
}

func NewPrefetchService(gameConfig *config.GameConfig, acquireService *AcquireService) *PrefetchService {
	return &PrefetchService{
		gameConfig:     gameConfig,
		acquireService: acquireService,
	}
}

// TryConsume removes and returns the cached outcome for username.
// An expired or failed entry is dropped, never replayed, so a stale
// whiff cannot reach the user.
func (s *PrefetchService) TryConsume(username string) *model.AssetOutcome {
	db := database.GetDB()

	var entry model.PrefetchEntry
	err := db.Where("username = ?", username).First(&entry).Error
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("read prefetch slot of ", username, " failed: ", err)
		}
		return nil
	}

	if err := db.Delete(&model.PrefetchEntry{}, "username = ?", username).Error; err != nil {
		logger.Warning("clear prefetch slot of ", username, " failed: ", err)
	}

	if !entry.Success || entry.ExpiresAt <= time.Now().Unix() {
		return nil
	}
	return entry.Outcome()
}

// Refill pre-acquires the next asset for username from the standard
// pool. The existence check is optimistic, not a lock: two concurrent
// refills may both fetch, the slot simply keeps the last writer's
// value and the duplicate fetch is wasted work. Failed acquisitions
// are not cached so the next refill retries.
func (s *PrefetchService) Refill(username string) {
	db := database.GetDB()

	var count int64
	err := db.Model(&model.PrefetchEntry{}).
		Where("username = ? AND expires_at > ?", username, time.Now().Unix()).
		Count(&count).Error
	if err != nil {
		logger.Warning("check prefetch slot of ", username, " failed: ", err)
		return
	}
	if count > 0 {
		return
	}

	outcome := s.acquireService.Acquire(username, s.gameConfig.RandomStandardSource())
	if !outcome.Success {
		return
	}

	entry := model.PrefetchEntry{
		Username:   username,
		Success:    outcome.Success,
		ImageUrl:   outcome.ImageUrl,
		Rarity:     outcome.Rarity,
		SourceName: outcome.SourceName,
		Timestamp:  outcome.Timestamp,
		ExpiresAt:  time.Now().Unix() + s.gameConfig.TTL.Prefetch,
	}
	if err := db.Save(&entry).Error; err != nil {
		logger.Warning("store prefetch slot of ", username, " failed: ", err)
	}
}

// PurgeExpired removes dead slots, called from the sweep job.
func (s *PrefetchService) PurgeExpired(now time.Time) (int64, error) {
	result := database.GetDB().
		Where("expires_at <= ?", now.Unix()).
		Delete(&model.PrefetchEntry{})
	return result.RowsAffected, result.Error
}
