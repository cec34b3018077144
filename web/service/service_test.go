package service

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"gacha-system/config"
	"gacha-system/database"
	"gacha-system/database/model"
	"gacha-system/storage"
	"gacha-system/util/common"

	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "gacha.db")))
}

// testGameConfig points every pool at the given upstream so tests can
// serve predictable image bytes.
func testGameConfig(upstreamURL string) *config.GameConfig {
	cfg := config.DefaultGameConfig()
	var sources []config.AssetSource
	for _, rarity := range config.Rarities {
		sources = append(sources, config.AssetSource{
			Name:   "Test " + rarity,
			URL:    upstreamURL,
			Rarity: rarity,
		})
	}
	cfg.Sources = sources
	cfg.Limited.Sources = []config.AssetSource{
		{Name: "Test Limited", URL: upstreamURL, Rarity: "UR"},
	}
	return cfg
}

// singleSourceConfig pins the standard pool to one tier so a draw is
// deterministic.
func singleSourceConfig(upstreamURL, rarity string) *config.GameConfig {
	cfg := testGameConfig(upstreamURL)
	cfg.Sources = []config.AssetSource{
		{Name: "Test " + rarity, URL: upstreamURL, Rarity: rarity},
	}
	return cfg
}

// upstream is a controllable fake asset source.
type upstream struct {
	server *httptest.Server
	mu     sync.Mutex
	hits   int
	fail   bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.hits++
		fail := u.fail
		u.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake image bytes"))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) URL() string {
	return u.server.URL
}

func (u *upstream) Hits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits
}

func (u *upstream) SetFail(fail bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.fail = fail
}

// fakeStore is an in-memory storage.Store with the same listing
// semantics as the local one.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	uploaded map[string]time.Time
	failPut  bool
	failList bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:  make(map[string][]byte),
		types:    make(map[string]string),
		uploaded: make(map[string]time.Time),
	}
}

func (s *fakeStore) Put(key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return common.NewError("put failed")
	}
	s.objects[key] = data
	s.types[key] = contentType
	s.uploaded[key] = time.Now()
	return nil
}

func (s *fakeStore) List(prefix, cursor string, limit int) (*storage.ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, common.NewError("list failed")
	}
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	result := &storage.ListResult{}
	for _, key := range keys {
		if cursor != "" && key <= cursor {
			continue
		}
		if len(result.Objects) == limit {
			result.Truncated = true
			break
		}
		result.Objects = append(result.Objects, storage.Object{Key: key, Uploaded: s.uploaded[key]})
	}
	if n := len(result.Objects); n > 0 {
		result.Cursor = result.Objects[n-1].Key
	}
	return result, nil
}

func (s *fakeStore) URL(key string) string {
	return "https://img.test/" + key
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// testEnv wires the full service graph against a fresh database and
// an in-memory store.
type testEnv struct {
	cfg      *config.GameConfig
	store    *fakeStore
	tasks    *TaskQueue
	users    *UserService
	acquire  *AcquireService
	prefetch *PrefetchService
	views    *ViewService
	settle   *SettleService
	gacha    *GachaService
}

func newTestEnv(t *testing.T, cfg *config.GameConfig) *testEnv {
	t.Helper()
	setupDB(t)

	env := &testEnv{cfg: cfg, store: newFakeStore()}
	env.tasks = NewTaskQueue(2, 64)
	t.Cleanup(env.tasks.Stop)
	env.users = NewUserService(cfg)
	env.acquire = NewAcquireService(env.store)
	env.prefetch = NewPrefetchService(cfg, env.acquire)
	env.views = NewViewService(cfg, env.store)
	env.settle = NewSettleService(cfg, env.users, env.views, env.tasks)
	env.gacha = NewGachaService(cfg, env.users, env.prefetch, env.acquire, env.settle, env.tasks)
	return env
}

func seedUser(t *testing.T, username string, coins int64, inventory model.Inventory) *model.User {
	t.Helper()
	now := time.Now().UnixMilli()
	user := &model.User{
		Username:    username,
		Nickname:    username,
		Password:    "unused",
		Coins:       coins,
		Inventory:   inventory,
		CreatedAt:   now,
		LastUpdated: now,
	}
	require.NoError(t, database.GetDB().Create(user).Error)
	return user
}

func reloadUser(t *testing.T, username string) *model.User {
	t.Helper()
	var user model.User
	require.NoError(t, database.GetDB().Where("username = ?", username).First(&user).Error)
	return &user
}
