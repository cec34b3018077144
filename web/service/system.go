package service

import (
	"time"

	"gacha-system/database"
	"gacha-system/logger"

	json "github.com/goccy/go-json"
)

const (
	changelogKey    = "SYSTEM_CHANGELOG"
	announcementKey = "SYSTEM_ANNOUNCEMENT"
)

type ChangelogEntry struct {
	Date    string `json:"date"`
	Ver     string `json:"ver"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

var defaultChangelog = []ChangelogEntry{
	{Date: "2026-01-12", Ver: "v6.1.0", Content: "System Upgrade: Added strict Account/Password registration system.", Tag: "feature"},
	{Date: "Future", Ver: "To-Do", Content: "1. Global Trade System (玩家交易系统)\n2. Guild Wars (公会战模式)", Tag: "todo"},
	{Date: "2026-01-08", Ver: "v6.0.0", Content: "Refactor: New High-Performance Preload System.", Tag: "optimization"},
}

type Announcement struct {
	Enabled bool   `json:"enabled"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Id      int64  `json:"id"`
}

// SystemService manages the operator-edited content blobs.
type SystemService struct{}

func (s *SystemService) GetChangelog() []ChangelogEntry {
	raw, err := database.GetCachedList(changelogKey)
	if err != nil {
		logger.Warning("load changelog failed: ", err)
		return defaultChangelog
	}
	if raw == "" {
		return defaultChangelog
	}
	var logs []ChangelogEntry
	if err := json.Unmarshal([]byte(raw), &logs); err != nil {
		logger.Warning("decode changelog failed: ", err)
		return defaultChangelog
	}
	return logs
}

func (s *SystemService) SaveChangelog(logs []ChangelogEntry) error {
	data, err := json.Marshal(logs)
	if err != nil {
		return err
	}
	return database.SaveCachedList(changelogKey, string(data), 0)
}

func (s *SystemService) GetAnnouncement() *Announcement {
	raw, err := database.GetCachedList(announcementKey)
	if err != nil || raw == "" {
		if err != nil {
			logger.Warning("load announcement failed: ", err)
		}
		return &Announcement{}
	}
	var announcement Announcement
	if err := json.Unmarshal([]byte(raw), &announcement); err != nil {
		logger.Warning("decode announcement failed: ", err)
		return &Announcement{}
	}
	return &announcement
}

func (s *SystemService) SaveAnnouncement(announcement *Announcement) error {
	announcement.Id = time.Now().UnixMilli()
	data, err := json.Marshal(announcement)
	if err != nil {
		return err
	}
	return database.SaveCachedList(announcementKey, string(data), 0)
}
