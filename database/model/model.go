package model

import (
	"database/sql/driver"

	"gacha-system/util/common"

	json "github.com/goccy/go-json"
)

// Inventory maps rarity tier -> owned card count. Stored as a JSON
// text column, keys are created lazily on first award.
type Inventory map[string]int64

func (i Inventory) Value() (driver.Value, error) {
	if i == nil {
		i = Inventory{}
	}
	data, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (i *Inventory) Scan(value any) error {
	if value == nil {
		*i = Inventory{}
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, i)
	case string:
		return json.Unmarshal([]byte(data), i)
	default:
		return common.NewErrorf("unsupported inventory column type %T", value)
	}
}

type User struct {
	Username     string    `json:"username" gorm:"primaryKey;type:varchar(16)"`
	Nickname     string    `json:"nickname" gorm:"uniqueIndex;type:varchar(32);not null"`
	Password     string    `json:"-" gorm:"not null"`
	Coins        int64     `json:"coins"`
	DrawCount    int64     `json:"drawCount"`
	Wins         int64     `json:"wins"`
	Inventory    Inventory `json:"inventory" gorm:"type:text"`
	LastImageUrl string    `json:"lastImageUrl"`
	CreatedAt    int64     `json:"createdAt"`
	LastUpdated  int64     `json:"lastUpdated"`
}

// AssetOutcome is the result of one acquisition attempt. It is not a
// table of its own, a successful outcome lives on either in the
// prefetch slot or in the settled user record.
type AssetOutcome struct {
	Success    bool   `json:"success"`
	ImageUrl   string `json:"imageUrl,omitempty"`
	Rarity     string `json:"rarity"`
	SourceName string `json:"sourceName,omitempty"`
	Timestamp  int64  `json:"timestamp,omitempty"`
}

// PrefetchEntry is the single per-user slot holding one pre-acquired,
// not yet consumed outcome.
type PrefetchEntry struct {
	Username   string `gorm:"primaryKey;type:varchar(16)"`
	Success    bool
	ImageUrl   string
	Rarity     string
	SourceName string
	Timestamp  int64
	ExpiresAt  int64 `gorm:"index"`
}

func (e *PrefetchEntry) Outcome() *AssetOutcome {
	return &AssetOutcome{
		Success:    e.Success,
		ImageUrl:   e.ImageUrl,
		Rarity:     e.Rarity,
		SourceName: e.SourceName,
		Timestamp:  e.Timestamp,
	}
}

// LeaderboardEntry is one row of the recent-draws showcase list.
// Username holds the display nickname, not the account name.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	ImageUrl   string `json:"imageUrl"`
	SourceName string `json:"sourceName"`
	Timestamp  int64  `json:"timestamp"`
	TimeText   string `json:"timeText"`
	Success    bool   `json:"success"`
	Rarity     string `json:"rarity"`
}

// GalleryEntry is one row of the global gallery index. The short
// field names match the serialized index format.
type GalleryEntry struct {
	Url      string `json:"url"`
	Username string `json:"username"`
	Ts       int64  `json:"ts"`
}
