package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/workflow"
)

type fakeSweeper struct {
	cancelRes *workflow.SweepResult
	cancelErr error
	acceptRes *workflow.SweepResult
	acceptErr error
}

func (f *fakeSweeper) CancelAbsentCalls(ctx context.Context) (*workflow.SweepResult, error) {
	return f.cancelRes, f.cancelErr
}

func (f *fakeSweeper) AutoAcceptCalls(ctx context.Context) (*workflow.SweepResult, error) {
	return f.acceptRes, f.acceptErr
}

type fakeLocker struct {
	locked   bool
	released []string
}

func (f *fakeLocker) Acquire(ctx context.Context, sweep string) bool {
	return !f.locked
}

func (f *fakeLocker) Release(ctx context.Context, sweep string) {
	f.released = append(f.released, sweep)
}

type fakeAlerter struct {
	failed      []string
	withErrors  []string
	lastErrList []string
}

func (f *fakeAlerter) SweepFailed(sweep string, err error) {
	f.failed = append(f.failed, sweep)
}

func (f *fakeAlerter) SweepFinishedWithErrors(sweep string, processed int, errs []string) {
	f.withErrors = append(f.withErrors, sweep)
	f.lastErrList = errs
}

func perform(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/cron/cancelAbsentCalls", h.CancelAbsentCalls)
	r.POST("/api/cron/autoAcceptCall", h.AutoAcceptCall)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestCancelAbsentCalls_Success(t *testing.T) {
	sweeper := &fakeSweeper{cancelRes: &workflow.SweepResult{Candidates: 2, Processed: 2}}
	locker := &fakeLocker{}
	h := NewHandler(sweeper, locker, &fakeAlerter{}, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/cancelAbsentCalls")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "2 booking(s) cancelled successfully", body["message"])
	assert.Equal(t, []string{"cancel_absent"}, locker.released)
}

func TestCancelAbsentCalls_EmptyBatch(t *testing.T) {
	sweeper := &fakeSweeper{cancelRes: &workflow.SweepResult{}}
	h := NewHandler(sweeper, &fakeLocker{}, &fakeAlerter{}, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/cancelAbsentCalls")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "No bookings to cancel", body["message"])
}

func TestCancelAbsentCalls_QueryFailureIs500(t *testing.T) {
	sweeper := &fakeSweeper{cancelErr: errors.New("connection refused")}
	alerter := &fakeAlerter{}
	h := NewHandler(sweeper, &fakeLocker{}, alerter, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/cancelAbsentCalls")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "connection refused", body["message"])
	assert.Equal(t, []string{"cancel_absent"}, alerter.failed)
}

func TestCancelAbsentCalls_PartialFailureStays200(t *testing.T) {
	sweeper := &fakeSweeper{cancelRes: &workflow.SweepResult{
		Candidates: 2,
		Processed:  1,
		Errors:     []string{"booking 11: deadlock detected"},
	}}
	alerter := &fakeAlerter{}
	h := NewHandler(sweeper, &fakeLocker{}, alerter, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/cancelAbsentCalls")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "booking 11: deadlock detected", body["message"])
	assert.Equal(t, []string{"cancel_absent"}, alerter.withErrors)
}

func TestCancelAbsentCalls_SkippedWhenLocked(t *testing.T) {
	sweeper := &fakeSweeper{cancelErr: errors.New("must not be called")}
	locker := &fakeLocker{locked: true}
	h := NewHandler(sweeper, locker, &fakeAlerter{}, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/cancelAbsentCalls")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "Sweep already in progress, skipped", body["message"])
	assert.Empty(t, locker.released)
}

func TestAutoAcceptCall_Success(t *testing.T) {
	sweeper := &fakeSweeper{acceptRes: &workflow.SweepResult{Candidates: 3, Processed: 3}}
	locker := &fakeLocker{}
	h := NewHandler(sweeper, locker, &fakeAlerter{}, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/autoAcceptCall")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "3 booking(s) auto-accepted", body["message"])
	assert.Equal(t, float64(3), body["processed"])
	assert.Equal(t, []interface{}{}, body["errors"])
	assert.Equal(t, []string{"auto_accept"}, locker.released)
}

func TestAutoAcceptCall_PartialFailureStays200(t *testing.T) {
	sweeper := &fakeSweeper{acceptRes: &workflow.SweepResult{
		Candidates: 2,
		Processed:  1,
		Errors:     []string{"booking 21: бронь не найдена"},
	}}
	alerter := &fakeAlerter{}
	h := NewHandler(sweeper, &fakeLocker{}, alerter, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/autoAcceptCall")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, float64(1), body["processed"])
	assert.Equal(t, []interface{}{"booking 21: бронь не найдена"}, body["errors"])
	assert.Equal(t, []string{"auto_accept"}, alerter.withErrors)
}

func TestAutoAcceptCall_QueryFailureIs500(t *testing.T) {
	sweeper := &fakeSweeper{acceptErr: errors.New("connection refused")}
	alerter := &fakeAlerter{}
	h := NewHandler(sweeper, &fakeLocker{}, alerter, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/autoAcceptCall")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, []string{"auto_accept"}, alerter.failed)
}

func TestAutoAcceptCall_EmptyBatch(t *testing.T) {
	sweeper := &fakeSweeper{acceptRes: &workflow.SweepResult{}}
	h := NewHandler(sweeper, &fakeLocker{}, &fakeAlerter{}, zap.NewNop())

	rec, body := perform(t, h, "/api/cron/autoAcceptCall")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "No bookings to auto-accept", body["message"])
	assert.Equal(t, float64(0), body["processed"])
}
