package database

import (
	"time"
)

// CachedList stores one serialized JSON document per key. The
// leaderboard, the gallery index, the changelog and the announcement
// all live here. ExpiresAt == 0 means the row never expires.
type CachedList struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text;not null"`
	ExpiresAt int64  `gorm:"index"`
}

// GetCachedList returns the serialized value for key, or "" when the
// key is absent or already expired. An expired row counts as absent,
// the sweep job removes it later.
func GetCachedList(key string) (string, error) {
	var list CachedList
	err := db.Where("key = ?", key).First(&list).Error
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	if list.ExpiresAt > 0 && list.ExpiresAt <= time.Now().Unix() {
		return "", nil
	}
	return list.Value, nil
}

// SaveCachedList upserts the value under key with a fresh expiry.
// ttl is in seconds, zero or negative keeps the row forever.
func SaveCachedList(key, value string, ttl int64) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Unix() + ttl
	}
	list := CachedList{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt,
	}
	return db.Save(&list).Error
}

func DeleteCachedList(key string) error {
	return db.Delete(&CachedList{}, "key = ?", key).Error
}

// PurgeExpiredLists drops every row whose expiry has passed and
// returns how many were removed.
func PurgeExpiredLists(now time.Time) (int64, error) {
	result := db.Where("expires_at > 0 AND expires_at <= ?", now.Unix()).Delete(&CachedList{})
	return result.RowsAffected, result.Error
}
