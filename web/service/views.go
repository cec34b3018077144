package service

import (
	"sort"

	"gacha-system/config"
	"gacha-system/database"
	"gacha-system/database/model"
	"gacha-system/logger"
	"gacha-system/storage"
	"gacha-system/util/common"

	json "github.com/goccy/go-json"
)

const (
	leaderboardKey  = "recent"
	galleryIndexKey = "SYSTEM_GALLERY_INDEX_V1"

	leaderboardCap = 50
	galleryCap     = 3000

	showcaseSize    = 6
	GalleryPageSize = 20

	// rebuild walks at most this many listing pages so a huge bucket
	// cannot stall a read
	maxRebuildPages = 4
	rebuildPageSize = 500
)

// ViewService owns the two derived read models: the recent-draws
// leaderboard and the global gallery index. Both are bounded
// newest-first lists serialized as single JSON documents. They are
// projections, the object store remains the source of truth.
type ViewService struct {
	gameConfig *config.GameConfig
	store      storage.Store
}

func NewViewService(gameConfig *config.GameConfig, store storage.Store) *ViewService {
	return &ViewService{
		gameConfig: gameConfig,
		store:      store,
	}
}

func loadList[T any](key string) []T {
	raw, err := database.GetCachedList(key)
	if err != nil {
		logger.Warning("load cached list ", key, " failed: ", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warning("decode cached list ", key, " failed: ", err)
		return nil
	}
	return items
}

func saveList[T any](key string, items []T, ttl int64) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return database.SaveCachedList(key, string(data), ttl)
}

// AddLeaderboardEntry prepends entry and truncates the tail beyond
// the cap.
func (s *ViewService) AddLeaderboardEntry(entry model.LeaderboardEntry) error {
	list := loadList[model.LeaderboardEntry](leaderboardKey)
	list = append([]model.LeaderboardEntry{entry}, list...)
	if len(list) > leaderboardCap {
		list = list[:leaderboardCap]
	}
	return saveList(leaderboardKey, list, s.gameConfig.TTL.Leaderboard)
}

func (s *ViewService) AddGalleryEntry(entry model.GalleryEntry) error {
	list := loadList[model.GalleryEntry](galleryIndexKey)
	list = append([]model.GalleryEntry{entry}, list...)
	if len(list) > galleryCap {
		list = list[:galleryCap]
	}
	return saveList(galleryIndexKey, list, s.gameConfig.TTL.Gallery)
}

func (s *ViewService) Leaderboard() []model.LeaderboardEntry {
	return loadList[model.LeaderboardEntry](leaderboardKey)
}

// Showcase returns a random handful of recent draws.
func (s *ViewService) Showcase() []model.LeaderboardEntry {
	list := s.Leaderboard()
	common.Shuffle(list)
	if len(list) > showcaseSize {
		list = list[:showcaseSize]
	}
	return list
}

type GalleryPage struct {
	Items       []model.GalleryEntry `json:"items"`
	CurrentPage int                  `json:"currentPage"`
	TotalPages  int                  `json:"totalPages"`
	TotalItems  int                  `json:"totalItems"`
}

// Gallery pages through the gallery index, rebuilding it from the
// object store when the cached index is missing or empty.
func (s *ViewService) Gallery(page int) *GalleryPage {
	items := loadList[model.GalleryEntry](galleryIndexKey)
	if len(items) == 0 {
		items = s.RebuildGalleryIndex()
	}

	totalItems := len(items)
	totalPages := (totalItems + GalleryPageSize - 1) / GalleryPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * GalleryPageSize
	end := min(start+GalleryPageSize, totalItems)
	var pageItems []model.GalleryEntry
	if start < totalItems {
		pageItems = items[start:end]
	}

	return &GalleryPage{
		Items:       pageItems,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
	}
}

// RebuildGalleryIndex reconstructs the index by listing the asset
// namespace and parsing owner and timestamp back out of each key.
// Best-effort: a listing failure yields an empty index, never an
// error to the reader.
func (s *ViewService) RebuildGalleryIndex() []model.GalleryEntry {
	var objects []storage.Object
	cursor := ""
	for range maxRebuildPages {
		page, err := s.store.List(storage.KeyPrefix, cursor, rebuildPageSize)
		if err != nil {
			logger.Warning("gallery rebuild: list objects failed: ", err)
			return nil
		}
		objects = append(objects, page.Objects...)
		if !page.Truncated {
			break
		}
		cursor = page.Cursor
	}

	entries := make([]model.GalleryEntry, 0, len(objects))
	for _, object := range objects {
		owner, timestamp, ok := storage.ParseKey(object.Key)
		if !ok {
			owner = "Unknown"
			timestamp = object.Uploaded.UnixMilli()
		}
		entries = append(entries, model.GalleryEntry{
			Url:      s.store.URL(object.Key),
			Username: owner,
			Ts:       timestamp,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Ts > entries[j].Ts
	})

	if len(entries) > galleryCap {
		entries = entries[:galleryCap]
	}
	if err := saveList(galleryIndexKey, entries, s.gameConfig.TTL.Gallery); err != nil {
		logger.Warning("gallery rebuild: save index failed: ", err)
	}
	return entries
}
