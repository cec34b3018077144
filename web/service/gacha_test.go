package service

import (
	"testing"

	"gacha-system/database"
	"gacha-system/database/model"

	"github.com/stretchr/testify/require"
)

func requireGameError(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	gameErr, ok := err.(*GameError)
	require.True(t, ok, "expected *GameError, got %T", err)
	require.Equal(t, kind, gameErr.Kind)
}

func TestDrawStandard(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, singleSourceConfig(server.URL(), "SR"))
	seedUser(t, "alice", 0, nil)

	result, err := env.gacha.Draw("alice")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "SR", result.Rarity)
	require.EqualValues(t, 30, result.PointsAwarded)
	require.EqualValues(t, 30, result.NewBalance)
	require.EqualValues(t, 1, result.Inventory["SR"])

	saved := reloadUser(t, "alice")
	require.EqualValues(t, 1, saved.DrawCount)
	require.EqualValues(t, 30, saved.Coins)

	// the draw warms the slot for the next one
	env.tasks.Drain()
	require.EqualValues(t, 1, prefetchCount(t))
}

func TestDrawConsumesPrefetchSlot(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, singleSourceConfig(server.URL(), "SSR"))
	seedUser(t, "alice", 0, nil)

	env.prefetch.Refill("alice")
	require.Equal(t, 1, server.Hits())

	var entry model.PrefetchEntry
	require.NoError(t, database.GetDB().Where("username = ?", "alice").First(&entry).Error)

	result, err := env.gacha.Draw("alice")
	require.NoError(t, err)
	require.Equal(t, entry.ImageUrl, result.ImageUrl)
	require.Equal(t, "SSR", result.Rarity)
	// no synchronous fetch, only the background refill afterwards
	env.tasks.Drain()
	require.Equal(t, 2, server.Hits())
}

func TestDrawUnknownUser(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))

	_, err := env.gacha.Draw("nobody")
	requireGameError(t, err, KindNotFound)
}

func TestDrawLimited(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 600, nil)

	result, err := env.gacha.DrawLimited("alice")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "UR", result.Rarity)
	require.EqualValues(t, 0, result.PointsAwarded)
	require.EqualValues(t, 100, result.NewBalance)

	saved := reloadUser(t, "alice")
	require.EqualValues(t, 100, saved.Coins)
	require.EqualValues(t, 1, saved.Inventory["UR"])
}

func TestDrawLimitedInsufficientFunds(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 499, nil)

	_, err := env.gacha.DrawLimited("alice")
	requireGameError(t, err, KindInsufficientFunds)
	require.EqualValues(t, 499, reloadUser(t, "alice").Coins)
	require.Equal(t, 0, server.Hits())
}

func TestDrawLimitedWhiffRefundsCost(t *testing.T) {
	server := newUpstream(t)
	server.SetFail(true)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 600, nil)

	result, err := env.gacha.DrawLimited("alice")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.EqualValues(t, 600, result.NewBalance)

	env.tasks.Drain()
	require.EqualValues(t, 600, reloadUser(t, "alice").Coins)
}

func TestBuy(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 1000, nil)

	result, err := env.gacha.Buy("alice", "R")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "R", result.Rarity)
	require.EqualValues(t, 0, result.PointsAwarded)
	require.EqualValues(t, 900, result.NewBalance)
	require.EqualValues(t, 1, reloadUser(t, "alice").Inventory["R"])
}

func TestBuyInsufficientFunds(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 50, nil)

	_, err := env.gacha.Buy("alice", "R")
	requireGameError(t, err, KindInsufficientFunds)
	require.EqualValues(t, 50, reloadUser(t, "alice").Coins)
}

func TestBuyInvalidTier(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 10000, nil)

	// N is not purchasable and LR does not exist
	for _, tier := range []string{"N", "LR", ""} {
		_, err := env.gacha.Buy("alice", tier)
		requireGameError(t, err, KindInvalidTier)
	}
}

func TestCraft(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 42, model.Inventory{"N": 6})

	result, err := env.gacha.Craft("alice", "R")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "R", result.Rarity)
	require.EqualValues(t, 42, result.NewBalance)

	saved := reloadUser(t, "alice")
	require.EqualValues(t, 1, saved.Inventory["N"])
	require.EqualValues(t, 1, saved.Inventory["R"])
	require.EqualValues(t, 42, saved.Coins)
}

func TestCraftInsufficientMaterials(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 0, model.Inventory{"SR": 4})

	_, err := env.gacha.Craft("alice", "SSR")
	requireGameError(t, err, KindInsufficientMaterials)
	require.EqualValues(t, 4, reloadUser(t, "alice").Inventory["SR"])
}

func TestCraftInvalidTier(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 0, nil)

	// N has no tier below it
	_, err := env.gacha.Craft("alice", "N")
	requireGameError(t, err, KindInvalidTier)

	_, err = env.gacha.Craft("alice", "LR")
	requireGameError(t, err, KindInvalidTier)
}

func TestCraftWhiffRefundsMaterials(t *testing.T) {
	server := newUpstream(t)
	server.SetFail(true)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 0, model.Inventory{"N": 5})

	result, err := env.gacha.Craft("alice", "R")
	require.NoError(t, err)
	require.False(t, result.Success)

	env.tasks.Drain()
	saved := reloadUser(t, "alice")
	require.EqualValues(t, 5, saved.Inventory["N"])
	require.EqualValues(t, 0, saved.Inventory["R"])
}

func TestDiceValidation(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 5000, nil)

	_, err := env.gacha.Dice("alice", 5, "big")
	requireGameError(t, err, KindInvalidBet)

	_, err = env.gacha.Dice("alice", 1001, "big")
	requireGameError(t, err, KindInvalidBet)

	_, err = env.gacha.Dice("alice", 100, "medium")
	requireGameError(t, err, KindInvalidBet)

	_, err = env.gacha.Dice("alice", 100, "big")
	require.NoError(t, err)
}

func TestDiceInsufficientFunds(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 50, nil)

	_, err := env.gacha.Dice("alice", 100, "big")
	requireGameError(t, err, KindInsufficientFunds)
	require.EqualValues(t, 50, reloadUser(t, "alice").Coins)
}

func TestDiceSettlement(t *testing.T) {
	server := newUpstream(t)
	env := newTestEnv(t, testGameConfig(server.URL()))
	seedUser(t, "alice", 1000, nil)

	result, err := env.gacha.Dice("alice", 100, "big")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.GreaterOrEqual(t, result.Roll, 1)
	require.LessOrEqual(t, result.Roll, 6)

	saved := reloadUser(t, "alice")
	if result.IsWin {
		require.Greater(t, result.Roll, 3)
		require.EqualValues(t, 200, result.WinAmount)
		require.EqualValues(t, 1100, result.NewBalance)
		require.EqualValues(t, 1, saved.Wins)
	} else {
		require.LessOrEqual(t, result.Roll, 3)
		require.EqualValues(t, 0, result.WinAmount)
		require.EqualValues(t, 900, result.NewBalance)
		require.EqualValues(t, 0, saved.Wins)
	}
	require.Equal(t, result.NewBalance, saved.Coins)
	require.EqualValues(t, 0, saved.DrawCount)
}
