package service

import (
	"time"

	"gacha-system/config"
	"gacha-system/database/model"
	"gacha-system/logger"
)

// DrawResult is the user-facing outcome shared by every draw mode.
type DrawResult struct {
	ImageUrl      string          `json:"imageUrl"`
	Timestamp     int64           `json:"timestamp"`
	Success       bool            `json:"success"`
	Rarity        string          `json:"rarity"`
	PointsAwarded int64           `json:"pointsAwarded"`
	NewBalance    int64           `json:"newBalance"`
	Inventory     model.Inventory `json:"inventory"`
}

// SettleService applies an acquisition outcome to the user record and
// fans the event out into the derived views. The user-record write is
// synchronous and request-fatal on failure; the view writes are
// deferred and best-effort.
type SettleService struct {
	gameConfig  *config.GameConfig
	userService *UserService
	viewService *ViewService
	tasks       *TaskQueue
}

func NewSettleService(gameConfig *config.GameConfig, userService *UserService, viewService *ViewService, tasks *TaskQueue) *SettleService {
	return &SettleService{
		gameConfig:  gameConfig,
		userService: userService,
		viewService: viewService,
		tasks:       tasks,
	}
}

// Settle records outcome against user. A whiff leaves the record
// untouched and yields a placeholder result. skipAward suppresses the
// currency award for modes where the user already paid upfront.
func (s *SettleService) Settle(user *model.User, outcome *model.AssetOutcome, skipAward bool) (*DrawResult, error) {
	timestamp := time.Now().UnixMilli()

	result := &DrawResult{
		ImageUrl:   s.gameConfig.DefaultImage,
		Timestamp:  timestamp,
		Success:    outcome.Success,
		Rarity:     outcome.Rarity,
		NewBalance: user.Coins,
		Inventory:  user.Inventory,
	}
	if result.Inventory == nil {
		result.Inventory = model.Inventory{}
	}
	if !outcome.Success {
		// a whiff records no draw and costs nothing
		return result, nil
	}

	points := s.gameConfig.PointsFor(outcome.Rarity)
	user.DrawCount++
	if !skipAward {
		user.Coins += points
		result.PointsAwarded = points
	}
	if user.Inventory == nil {
		user.Inventory = model.Inventory{}
	}
	user.Inventory[outcome.Rarity]++
	user.LastImageUrl = outcome.ImageUrl

	if err := s.userService.Save(user); err != nil {
		logger.Error("settle: save user ", user.Username, " failed: ", err)
		return nil, errStorageFailure(err)
	}

	result.ImageUrl = outcome.ImageUrl
	result.NewBalance = user.Coins
	result.Inventory = user.Inventory

	display := user.Nickname
	if display == "" {
		display = user.Username
	}
	leaderboardEntry := model.LeaderboardEntry{
		Username:   display,
		ImageUrl:   outcome.ImageUrl,
		SourceName: outcome.SourceName,
		Timestamp:  timestamp,
		TimeText:   time.UnixMilli(timestamp).Format("2006-01-02 15:04:05"),
		Success:    true,
		Rarity:     outcome.Rarity,
	}
	galleryEntry := model.GalleryEntry{
		Url:      outcome.ImageUrl,
		Username: user.Username,
		Ts:       timestamp,
	}
	s.tasks.Submit("leaderboard update", func() {
		if err := s.viewService.AddLeaderboardEntry(leaderboardEntry); err != nil {
			logger.Warning("update leaderboard failed: ", err)
		}
	})
	s.tasks.Submit("gallery update", func() {
		if err := s.viewService.AddGalleryEntry(galleryEntry); err != nil {
			logger.Warning("update gallery index failed: ", err)
		}
	})

	return result, nil
}
