package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"jobs":[]}`)

	enc, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(enc)
	if !ok {
		t.Fatal("decodePayload rejected its own encoding")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header lost: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short")} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload(%v) accepted garbage", bs)
		}
	}
}

func TestCacheKeyFromStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	makeCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/jobs")
		return c
	}

	a := cacheKeyFrom(cfg, makeCtx("/v1/jobs"))
	b := cacheKeyFrom(cfg, makeCtx("/v1/jobs"))
	if a != b {
		t.Error("same request produced different keys")
	}
	withQuery := cacheKeyFrom(cfg, makeCtx("/v1/jobs?page=2"))
	if withQuery == a {
		t.Error("query string ignored under route_query strategy")
	}

	cfg.KeyStrategy = "route"
	routeOnly := cacheKeyFrom(cfg, makeCtx("/v1/jobs?page=2"))
	if routeOnly != cacheKeyFrom(cfg, makeCtx("/v1/jobs")) {
		t.Error("route strategy should ignore the query string")
	}
}

func TestNewRedisCacheDisabledPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: false}
	mw := NewRedisCache(cfg, nil)

	e := echo.New()
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Errorf("pass-through failed: called=%v status=%d", called, rec.Code)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("disabled cache set X-Cache header")
	}
}
