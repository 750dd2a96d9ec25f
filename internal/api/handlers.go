package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/workflow"
)

// Sweeper - сметающие проходы жизненного цикла броней
type Sweeper interface {
	CancelAbsentCalls(ctx context.Context) (*workflow.SweepResult, error)
	AutoAcceptCalls(ctx context.Context) (*workflow.SweepResult, error)
}

// Locker защищает проход от наложения повторного cron-запуска
type Locker interface {
	Acquire(ctx context.Context, sweep string) bool
	Release(ctx context.Context, sweep string)
}

// Alerter оповещает дежурных о проблемах проходов
type Alerter interface {
	SweepFailed(sweep string, err error)
	SweepFinishedWithErrors(sweep string, processed int, errs []string)
}

type Handler struct {
	sweeper Sweeper
	locker  Locker
	alerter Alerter
	logger  *zap.Logger
}

func NewHandler(sweeper Sweeper, locker Locker, alerter Alerter, logger *zap.Logger) *Handler {
	return &Handler{
		sweeper: sweeper,
		locker:  locker,
		alerter: alerter,
		logger:  logger,
	}
}

// CancelAbsentCalls обрабатывает POST /api/cron/cancelAbsentCalls.
// Планировщик всегда получает структурированный JSON; HTTP 500 возможен
// только если упала сама выборка кандидатов.
func (h *Handler) CancelAbsentCalls(c *gin.Context) {
	const sweep = "cancel_absent"

	if !h.locker.Acquire(c.Request.Context(), sweep) {
		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "Sweep already in progress, skipped",
		})
		return
	}
	defer h.locker.Release(c.Request.Context(), sweep)

	res, err := h.sweeper.CancelAbsentCalls(c.Request.Context())
	if err != nil {
		sentry.CaptureException(err)
		h.alerter.SweepFailed(sweep, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": err.Error(),
		})
		return
	}

	if !res.Ok() {
		h.alerter.SweepFinishedWithErrors(sweep, res.Processed, res.Errors)
		c.JSON(http.StatusOK, gin.H{
			"status":  false,
			"message": res.FirstError(),
		})
		return
	}

	message := "No bookings to cancel"
	if res.Processed > 0 {
		message = fmt.Sprintf("%d booking(s) cancelled successfully", res.Processed)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": message,
	})
}

// AutoAcceptCall обрабатывает POST /api/cron/autoAcceptCall
func (h *Handler) AutoAcceptCall(c *gin.Context) {
	const sweep = "auto_accept"

	if !h.locker.Acquire(c.Request.Context(), sweep) {
		c.JSON(http.StatusOK, gin.H{
			"status":    true,
			"message":   "Sweep already in progress, skipped",
			"processed": 0,
			"errors":    []string{},
		})
		return
	}
	defer h.locker.Release(c.Request.Context(), sweep)

	res, err := h.sweeper.AutoAcceptCalls(c.Request.Context())
	if err != nil {
		sentry.CaptureException(err)
		h.alerter.SweepFailed(sweep, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": err.Error(),
		})
		return
	}

	if !res.Ok() {
		h.alerter.SweepFinishedWithErrors(sweep, res.Processed, res.Errors)
	}

	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}

	message := "No bookings to auto-accept"
	if res.Processed > 0 {
		message = fmt.Sprintf("%d booking(s) auto-accepted", res.Processed)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    res.Ok(),
		"message":   message,
		"processed": res.Processed,
		"errors":    errs,
	})
}
