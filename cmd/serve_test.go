package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRouterHealthz(t *testing.T) {
	runner := &jobRunner{ctx: context.Background()}
	router := newAdminRouter(runner, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAdminRouterMetrics(t *testing.T) {
	runner := &jobRunner{ctx: context.Background()}
	router := newAdminRouter(runner, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRouterTriggerAcceptsThenConflicts(t *testing.T) {
	runner := &jobRunner{ctx: context.Background()}
	release := make(chan struct{})
	jobs := map[string]jobFunc{
		"crawl": func(context.Context) (int, error) {
			<-release
			return 3, nil
		},
	}
	router := newAdminRouter(runner, jobs)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/crawl", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusAccepted, first.Code)
	assert.JSONEq(t, `{"status":"accepted","job":"crawl"}`, first.Body.String())

	second := post()
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	runner.wg.Wait()

	third := post()
	assert.Equal(t, http.StatusAccepted, third.Code)
	runner.wg.Wait()
}

func TestAdminRouterUnknownJob(t *testing.T) {
	runner := &jobRunner{ctx: context.Background()}
	router := newAdminRouter(runner, map[string]jobFunc{
		"purge": func(context.Context) (int, error) { return 0, nil },
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/rebuild", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	runner.wg.Wait()
}
