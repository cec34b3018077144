package config

import (
	"os"

	"gacha-system/util/common"

	"github.com/pelletier/go-toml/v2"
)

// Rarities lists the asset tiers in ascending order.
var Rarities = []string{"N", "R", "SR", "SSR", "UR"}

type AssetSource struct {
	Name   string `toml:"name" json:"name"`
	URL    string `toml:"url" json:"url"`
	Rarity string `toml:"rarity" json:"rarity"`
}

type LimitedPool struct {
	Cost    int64         `toml:"cost" json:"cost"`
	Name    string        `toml:"name" json:"name"`
	Sources []AssetSource `toml:"sources" json:"sources"`
}

type DiceRules struct {
	MinBet int64 `toml:"min_bet" json:"minBet"`
	MaxBet int64 `toml:"max_bet" json:"maxBet"`
	Payout int64 `toml:"payout" json:"payout"`
}

// TTLs are in seconds. SQLite has no native expiry, rows carry an
// ExpiresAt stamp that is checked on read and swept by a cron job.
type TTLRules struct {
	User        int64 `toml:"user"`
	Prefetch    int64 `toml:"prefetch"`
	Leaderboard int64 `toml:"leaderboard"`
	Gallery     int64 `toml:"gallery"`
}

// GameConfig carries every tunable game rule. It is built once at
// startup and passed around read-only, there is no global lookup.
type GameConfig struct {
	Sources      []AssetSource    `toml:"sources"`
	Limited      LimitedPool      `toml:"limited"`
	Points       map[string]int64 `toml:"points"`
	ShopPrices   map[string]int64 `toml:"shop_prices"`
	CraftCost    int64            `toml:"craft_cost"`
	Dice         DiceRules        `toml:"dice"`
	TTL          TTLRules         `toml:"ttl"`
	Preload      bool             `toml:"preload"`
	DefaultImage string           `toml:"default_image"`
}

func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Sources: []AssetSource{
			{Name: "Random Anime", URL: "https://api.anosu.top/img", Rarity: "N"},
			{Name: "Kemonomimi", URL: "https://api.anosu.top/img?sort=furry", Rarity: "R"},
			{Name: "Pixiv Best", URL: "https://api.anosu.top/img?sort=pixiv", Rarity: "SR"},
			{Name: "Stockings", URL: "https://api.anosu.top/img?sort=setu", Rarity: "SSR"},
			{Name: "Absolute Territory", URL: "https://moe.jitsu.top/api?sort=r18", Rarity: "UR"},
		},
		Limited: LimitedPool{
			Cost: 500,
			Name: "Limited Festival",
			Sources: []AssetSource{
				{Name: "Genshin Impact", URL: "https://v2.xxapi.cn/api/ys?return=302", Rarity: "UR"},
			},
		},
		Points:     map[string]int64{"N": 5, "R": 10, "SR": 30, "SSR": 100, "UR": 500},
		ShopPrices: map[string]int64{"R": 100, "SR": 500, "SSR": 2000, "UR": 8000},
		CraftCost:  5,
		Dice:       DiceRules{MinBet: 10, MaxBet: 1000, Payout: 2},
		TTL: TTLRules{
			User:        86400 * 365,
			Prefetch:    86400,
			Leaderboard: 86400 * 30,
			Gallery:     86400 * 7,
		},
		Preload:      true,
		DefaultImage: "https://img-blog.csdnimg.cn/img_convert/083d1f361962735e55265cb38868d583.gif",
	}
}

// LoadGameConfig returns the defaults overlaid with the TOML file at
// path. An empty path yields the plain defaults.
func LoadGameConfig(path string) (*GameConfig, error) {
	gameConfig := DefaultGameConfig()
	if path == "" {
		return gameConfig, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, gameConfig); err != nil {
		return nil, err
	}
	return gameConfig, nil
}

func (g *GameConfig) RandomStandardSource() AssetSource {
	return g.Sources[common.RandomInt(len(g.Sources))]
}

func (g *GameConfig) RandomLimitedSource() AssetSource {
	return g.Limited.Sources[common.RandomInt(len(g.Limited.Sources))]
}

// SourceForRarity returns the first standard source of the given tier.
func (g *GameConfig) SourceForRarity(rarity string) (AssetSource, bool) {
	for _, source := range g.Sources {
		if source.Rarity == rarity {
			return source, true
		}
	}
	return AssetSource{}, false
}

// LowerTier returns the tier one step below rarity in the craft chain.
// The lowest tier has nothing below it.
func LowerTier(rarity string) (string, bool) {
	for i := 1; i < len(Rarities); i++ {
		if Rarities[i] == rarity {
			return Rarities[i-1], true
		}
	}
	return "", false
}

// LowestTier is what a failed acquisition degrades to.
func LowestTier() string {
	return Rarities[0]
}

// PointsFor mirrors the award table, unknown tiers are worth 1.
func (g *GameConfig) PointsFor(rarity string) int64 {
	if points, ok := g.Points[rarity]; ok {
		return points
	}
	return 1
}
