package storage

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gacha-system/util/common"
)

// Object is one stored asset as seen by a listing.
type Object struct {
	Key      string
	Uploaded time.Time
}

// ListResult is one page of a listing. Cursor is opaque to callers,
// pass it back to continue where the previous page stopped.
type ListResult struct {
	Objects   []Object
	Cursor    string
	Truncated bool
}

// Store is the durable object storage the acquirer writes into and
// the gallery rebuild reads back out of.
type Store interface {
	Put(key string, data []byte, contentType string) error
	List(prefix, cursor string, limit int) (*ListResult, error)
	URL(key string) string
}

// LocalStore keeps objects as plain files under a root directory.
// Keys always carry an image extension, so the content type survives
// in the key itself and a sidecar record is not needed.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, fs.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) filePath(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if strings.Contains(cleaned, "..") {
		return "", common.NewErrorf("invalid object key: %s", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

func (s *LocalStore) Put(key string, data []byte, contentType string) error {
	filePath, err := s.filePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), fs.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0o644)
}

func (s *LocalStore) List(prefix, cursor string, limit int) (*ListResult, error) {
	if limit <= 0 {
		limit = 500
	}

	var keys []string
	uploaded := make(map[string]time.Time)
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		keys = append(keys, key)
		uploaded[key] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	result := &ListResult{}
	for _, key := range keys {
		if cursor != "" && key <= cursor {
			continue
		}
		if len(result.Objects) == limit {
			result.Truncated = true
			break
		}
		result.Objects = append(result.Objects, Object{Key: key, Uploaded: uploaded[key]})
	}
	if n := len(result.Objects); n > 0 {
		result.Cursor = result.Objects[n-1].Key
	}
	return result, nil
}

func (s *LocalStore) URL(key string) string {
	return s.baseURL + "/" + key
}
