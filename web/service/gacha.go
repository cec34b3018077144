package service

import (
	"gacha-system/config"
	"gacha-system/database/model"
	"gacha-system/util/common"
)

// GachaService is the policy layer over acquisition and settlement.
// The four draw modes differ only in their cost gate and source pool,
// the machinery underneath is shared. Concurrent operations on the
// same user race on a read-modify-write of the whole record and the
// last write wins; that weak consistency is a documented property of
// this domain, not an accident.
type GachaService struct {
	gameConfig      *config.GameConfig
	userService     *UserService
	prefetchService *PrefetchService
	acquireService  *AcquireService
	settleService   *SettleService
	tasks           *TaskQueue
}

func NewGachaService(
	gameConfig *config.GameConfig,
	userService *UserService,
	prefetchService *PrefetchService,
	acquireService *AcquireService,
	settleService *SettleService,
	tasks *TaskQueue,
) *GachaService {
	return &GachaService{
		gameConfig:      gameConfig,
		userService:     userService,
		prefetchService: prefetchService,
		acquireService:  acquireService,
		settleService:   settleService,
		tasks:           tasks,
	}
}

func (s *GachaService) getUser(username string) (*model.User, error) {
	user, err := s.userService.Get(username)
	if err != nil {
		return nil, errStorageFailure(err)
	}
	if user == nil {
		return nil, errUserNotFound(username)
	}
	return user, nil
}

// ScheduleRefill keeps exactly one prefetch slot warm for the user,
// regardless of whether the triggering draw hit or missed the cache.
func (s *GachaService) ScheduleRefill(username string) {
	s.tasks.Submit("prefetch refill", func() {
		s.prefetchService.Refill(username)
	})
}

// Draw is the standard free draw: prefetch hit if possible, otherwise
// a synchronous acquisition, currency awarded by tier.
func (s *GachaService) Draw(username string) (*DrawResult, error) {
	user, err := s.getUser(username)
	if err != nil {
		return nil, err
	}

	outcome := s.prefetchService.TryConsume(username)
	if outcome == nil {
		outcome = s.acquireService.Acquire(username, s.gameConfig.RandomStandardSource())
	}

	result, err := s.settleService.Settle(user, outcome, false)
	s.ScheduleRefill(username)
	return result, err
}

// DrawLimited draws from the costlier limited pool. The cost is
// deducted upfront but only persists when the acquisition succeeds,
// so a whiff never charges the user. Limited draws always acquire
// synchronously, the prefetch slot is standard-pool-only.
func (s *GachaService) DrawLimited(username string) (*DrawResult, error) {
	user, err := s.getUser(username)
	if err != nil {
		return nil, err
	}

	cost := s.gameConfig.Limited.Cost
	if user.Coins < cost {
		return nil, errInsufficientFunds(cost, user.Coins)
	}
	user.Coins -= cost

	outcome := s.acquireService.Acquire(username, s.gameConfig.RandomLimitedSource())
	if !outcome.Success {
		user.Coins += cost
	}

	result, err := s.settleService.Settle(user, outcome, true)
	s.ScheduleRefill(username)
	return result, err
}

// Buy exchanges coins for a draw pinned to the requested tier.
func (s *GachaService) Buy(username, tier string) (*DrawResult, error) {
	price, ok := s.gameConfig.ShopPrices[tier]
	if !ok {
		return nil, errInvalidTier(tier)
	}

	user, err := s.getUser(username)
	if err != nil {
		return nil, err
	}
	if user.Coins < price {
		return nil, errInsufficientFunds(price, user.Coins)
	}
	user.Coins -= price

	source, ok := s.gameConfig.SourceForRarity(tier)
	if !ok {
		source = s.gameConfig.Sources[0]
	}
	outcome := s.acquireService.Acquire(username, source)
	if !outcome.Success {
		user.Coins += price
	}

	result, err := s.settleService.Settle(user, outcome, true)
	s.ScheduleRefill(username)
	return result, err
}

// Craft burns five cards of the tier below the target for one draw
// pinned to the target tier. Net currency is unchanged.
func (s *GachaService) Craft(username, tier string) (*DrawResult, error) {
	lower, ok := config.LowerTier(tier)
	if !ok {
		return nil, errInvalidTier(tier)
	}
	source, ok := s.gameConfig.SourceForRarity(tier)
	if !ok {
		return nil, errInvalidTier(tier)
	}

	user, err := s.getUser(username)
	if err != nil {
		return nil, err
	}

	cost := s.gameConfig.CraftCost
	if user.Inventory[lower] < cost {
		return nil, errInsufficientMaterials(lower, cost, user.Inventory[lower])
	}
	if user.Inventory == nil {
		user.Inventory = model.Inventory{}
	}
	user.Inventory[lower] -= cost

	outcome := s.acquireService.Acquire(username, source)
	if !outcome.Success {
		user.Inventory[lower] += cost
	}

	result, err := s.settleService.Settle(user, outcome, true)
	s.ScheduleRefill(username)
	return result, err
}

type DiceResult struct {
	Success    bool  `json:"success"`
	Roll       int   `json:"roll"`
	IsWin      bool  `json:"isWin"`
	WinAmount  int64 `json:"winAmount"`
	NewBalance int64 `json:"newBalance"`
}

// Dice is the guess-the-size mini game: small is 1-3, big is 4-6.
func (s *GachaService) Dice(username string, bet int64, prediction string) (*DiceResult, error) {
	rules := s.gameConfig.Dice
	if bet < rules.MinBet || bet > rules.MaxBet {
		return nil, newGameError(KindInvalidBet, "bet range: %d-%d", rules.MinBet, rules.MaxBet)
	}
	if prediction != "small" && prediction != "big" {
		return nil, newGameError(KindInvalidBet, "prediction must be small or big")
	}

	user, err := s.getUser(username)
	if err != nil {
		return nil, err
	}
	if user.Coins < bet {
		return nil, errInsufficientFunds(bet, user.Coins)
	}

	user.Coins -= bet
	roll := common.RandomInt(6) + 1
	isSmall := roll <= 3
	isWin := (prediction == "small" && isSmall) || (prediction == "big" && !isSmall)

	var winAmount int64
	if isWin {
		winAmount = bet * rules.Payout
		user.Coins += winAmount
		user.Wins++
	}

	if err := s.userService.Save(user); err != nil {
		return nil, errStorageFailure(err)
	}

	return &DiceResult{
		Success:    true,
		Roll:       roll,
		IsWin:      isWin,
		WinAmount:  winAmount,
		NewBalance: user.Coins,
	}, nil
}
