package service

import (
	"time"

	"gacha-system/config"
	"gacha-system/database/model"
	"gacha-system/logger"
	"gacha-system/storage"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// fetchTimeout bounds the only operation in the system with an
// explicit deadline: the outbound asset fetch.
const fetchTimeout = 5 * time.Second

const maxFetchRedirects = 5

// AcquireService fetches a single asset from an upstream source and
// persists it to the object store. Upstream sources are treated as
// unreliable: any transport error, timeout or non-200 status degrades
// to a whiff outcome instead of an error, there are no retries.
type AcquireService struct {
	store  storage.Store
	client *fasthttp.Client
}

func NewAcquireService(store storage.Store) *AcquireService {
	return &AcquireService{
		store:  store,
		client: &fasthttp.Client{},
	}
}

func whiffOutcome() *model.AssetOutcome {
	return &model.AssetOutcome{Success: false, Rarity: config.LowestTier()}
}

// Acquire fetches source.URL and stores the payload under a key built
// from the owner identity, a millisecond timestamp and a random
// suffix. The owner identity only shapes the storage key.
func (s *AcquireService) Acquire(owner string, source config.AssetSource) *model.AssetOutcome {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(source.URL)
	req.Header.SetMethod(fasthttp.MethodGet)

	// one deadline spans the whole fetch, redirect hops included
	deadline := time.Now().Add(fetchTimeout)
	for redirects := 0; ; redirects++ {
		if err := s.client.DoDeadline(req, resp, deadline); err != nil {
			logger.Warning("fetch asset from ", source.Name, " failed: ", err)
			return whiffOutcome()
		}
		if !fasthttp.StatusCodeIsRedirect(resp.StatusCode()) {
			break
		}
		if redirects == maxFetchRedirects {
			logger.Warningf("fetch asset from %s failed: too many redirects", source.Name)
			return whiffOutcome()
		}
		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			logger.Warningf("fetch asset from %s failed: redirect without location", source.Name)
			return whiffOutcome()
		}
		req.URI().UpdateBytes(location)
		resp.Reset()
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		logger.Warningf("fetch asset from %s failed: status %d", source.Name, resp.StatusCode())
		return whiffOutcome()
	}

	// resp owns its body buffer, copy before releasing
	body := append([]byte(nil), resp.Body()...)
	contentType := string(resp.Header.ContentType())
	if contentType == "" {
		contentType = "image/jpeg"
	}

	now := time.Now()
	key := storage.BuildKey(owner, now.UnixMilli(), uuid.NewString()[:8])
	if err := s.store.Put(key, body, contentType); err != nil {
		logger.Warning("persist asset ", key, " failed: ", err)
		return whiffOutcome()
	}

	return &model.AssetOutcome{
		Success:    true,
		ImageUrl:   s.store.URL(key),
		Rarity:     source.Rarity,
		SourceName: source.Name,
		Timestamp:  now.UnixMilli(),
	}
}
