package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/store"
	"github.com/JakeFAU/tv-schedule-scraper/internal/store/memory"
)

func TestProgressHandlerListRuns(t *testing.T) {
	t.Parallel()

	repo := memory.NewRunStore(10)
	runID := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, repo.UpsertRunStart(context.Background(), runID, now))
	require.NoError(t, repo.CompleteRun(context.Background(), runID, now.Add(time.Second), 12))
	handler := NewProgressHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/runs?status=success&limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ListRuns(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Runs []runDTO `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Runs, 1)
	require.Equal(t, runID.String(), body.Runs[0].ID)
	require.Equal(t, int64(12), body.Runs[0].Shows)
	require.Equal(t, "success", body.Runs[0].Status)
}

func TestProgressHandlerListRunsInvalidStatus(t *testing.T) {
	t.Parallel()

	handler := NewProgressHandler(memory.NewRunStore(1), zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/runs?status=exploded", nil)
	rec := httptest.NewRecorder()
	handler.ListRuns(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressHandlerGetRunNotFound(t *testing.T) {
	t.Parallel()

	handler := NewProgressHandler(memory.NewRunStore(1), zap.NewNop())

	runID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/runs/"+runID.String(), nil)
	req = withRunIDParam(req, runID.String())
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressHandlerGetRunInvalidID(t *testing.T) {
	t.Parallel()

	handler := NewProgressHandler(memory.NewRunStore(1), zap.NewNop())
	req := withRunIDParam(httptest.NewRequest(http.MethodGet, "/runs/nope", nil), "nope")
	rec := httptest.NewRecorder()

	handler.GetRun(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressHandlerListRunChannelsInvalidLimit(t *testing.T) {
	t.Parallel()

	handler := NewProgressHandler(memory.NewRunStore(1), zap.NewNop())
	runID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/runs/"+runID.String()+"/channels?limit=-1", nil)
	req = withRunIDParam(req, runID.String())
	rec := httptest.NewRecorder()

	handler.ListRunChannels(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressHandlerRepositoryErrors(t *testing.T) {
	t.Parallel()

	handler := NewProgressHandler(brokenRepo{}, zap.NewNop())
	runID := uuid.New()

	rec := httptest.NewRecorder()
	handler.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	handler.ListRunChannels(rec, withRunIDParam(httptest.NewRequest(http.MethodGet, "/runs/x/channels", nil), runID.String()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	NewProgressHandler(nil, nil).GetRun(rec, httptest.NewRequest(http.MethodGet, "/runs/x", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_RunHistoryRoutes(t *testing.T) {
	t.Parallel()

	repo := memory.NewRunStore(10)
	runID := uuid.New()
	now := time.Now().UTC()
	ctx := context.Background()
	require.NoError(t, repo.UpsertRunStart(ctx, runID, now))
	require.NoError(t, repo.UpsertChannelStats(ctx, runID, "hbo", 1, 512, 3, "2xx", now))

	server := NewServer(&fakeService{}, Options{Progress: NewProgressHandler(repo, nil)}, zap.NewNop())

	rec := serve(server, http.MethodGet, "/api/runs/"+runID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"running"`)

	rec = serve(server, http.MethodGet, "/runs/"+runID.String()+"/channels")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Channels []channelStatsDTO `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Channels, 1)
	require.Equal(t, int64(512), body.Channels[0].BytesTotal)
	require.Equal(t, int64(1), body.Channels[0].Fetch2xx)

	rec = serve(server, http.MethodGet, "/runs")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RunHistoryDisabled(t *testing.T) {
	t.Parallel()

	server := newStubServer(&fakeService{})
	rec := serve(server, http.MethodGet, "/runs")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type brokenRepo struct{}

func (brokenRepo) UpsertRunStart(context.Context, uuid.UUID, time.Time) error { return errBroken }

func (brokenRepo) CompleteRun(context.Context, uuid.UUID, time.Time, int64) error { return errBroken }

func (brokenRepo) UpsertChannelStats(context.Context, uuid.UUID, string, int64, int64, int64, string, time.Time) error {
	return errBroken
}

func (brokenRepo) GetRun(context.Context, uuid.UUID) (store.RunRecord, error) {
	return store.RunRecord{}, errBroken
}

func (brokenRepo) ListRuns(context.Context, *store.RunStatus, int, int) ([]store.RunRecord, error) {
	return nil, errBroken
}

func (brokenRepo) ListRunChannels(context.Context, uuid.UUID, int, int) ([]store.ChannelStats, error) {
	return nil, errBroken
}

var errBroken = errors.New("repository offline")

func withRunIDParam(r *http.Request, runID string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("run_id", runID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, ctx))
}
