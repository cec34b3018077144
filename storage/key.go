package storage

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// KeyPrefix is the namespace under which every acquired asset is stored.
const KeyPrefix = "images/"

const keySep = "___"

// EncodeOwner makes a username safe for use inside an object key while
// staying reversible.
func EncodeOwner(username string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(username))
}

func DecodeOwner(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// BuildKey combines the encoded owner, a millisecond timestamp and a
// short random suffix. The combination is unique in practice without
// any coordination between writers.
func BuildKey(owner string, timestampMillis int64, suffix string) string {
	return fmt.Sprintf("%s%s%s%d%s%s.jpg", KeyPrefix, EncodeOwner(owner), keySep, timestampMillis, keySep, suffix)
}

// ParseKey recovers the owner and timestamp encoded into an asset key.
// Malformed keys report ok == false, callers fall back to listing
// metadata.
func ParseKey(key string) (owner string, timestampMillis int64, ok bool) {
	name := strings.TrimPrefix(key, KeyPrefix)
	name = strings.TrimSuffix(name, ".jpg")
	parts := strings.Split(name, keySep)
	if len(parts) < 2 {
		return "", 0, false
	}
	owner, err := DecodeOwner(parts[0])
	if err != nil {
		return "", 0, false
	}
	timestampMillis, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return owner, timestampMillis, true
}
