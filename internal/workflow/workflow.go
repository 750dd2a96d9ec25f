// Package workflow реализует жизненный цикл брони: сметающие проходы,
// запускаемые внешним cron-триггером. Каждый проход читает кандидатов одним
// запросом и обрабатывает их независимо: основное обновление статуса
// обязано зафиксироваться, все остальное - best-effort.
package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/models"
	"github.com/purushoth411/callback-sub000/internal/timeutil"
)

// BookingRepo - операции над бронями в основной базе
type BookingRepo interface {
	FindCandidatesForAbsenceCancellation(ctx context.Context) ([]models.AbsenceCandidate, error)
	FindCandidatesForAutoAccept(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id int64, fields map[string]interface{}) error
	InsertStatusHistory(ctx context.Context, h models.BookingStatusHistory) (int64, error)
	InsertOverallHistory(ctx context.Context, h models.BookingOverallHistory) (int64, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
}

// AdminRepo - чтение сотрудников
type AdminRepo interface {
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
}

// MirrorRepo - пропагация статуса во внешние зеркала (CRM и RC-календарь)
type MirrorRepo interface {
	UpdateExternalCallStatus(ctx context.Context, callRequestID, rcCallRequestID int64, status models.Status) error
	UpdateRCCallRequestStatus(ctx context.Context, callRequestID, rcCallRequestID int64, status models.Status) error
}

// Transition - внутреннее событие "бронь сменила статус". Рабочий процесс
// публикует его после фиксации основного обновления; почту и realtime-события
// отправляет отдельный notifier, чьи сбои структурно не могут повлиять на
// проход.
type Transition struct {
	BookingID  int64
	Status     models.Status
	OccurredAt time.Time
}

// SweepResult - итог одного прохода
type SweepResult struct {
	Candidates int
	Processed  int
	Errors     []string
}

func (r *SweepResult) Ok() bool {
	return len(r.Errors) == 0
}

// FirstError возвращает первую ошибку прохода либо пустую строку
func (r *SweepResult) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

type Workflow struct {
	bookings    BookingRepo
	admins      AdminRepo
	mirrors     MirrorRepo
	clock       *timeutil.Clock
	window      time.Duration
	transitions chan<- Transition
	logger      *zap.Logger
}

// New создает рабочий процесс жизненного цикла броней
func New(
	bookings BookingRepo,
	admins AdminRepo,
	mirrors MirrorRepo,
	clock *timeutil.Clock,
	window time.Duration,
	transitions chan<- Transition,
	logger *zap.Logger,
) *Workflow {
	return &Workflow{
		bookings:    bookings,
		admins:      admins,
		mirrors:     mirrors,
		clock:       clock,
		window:      window,
		transitions: transitions,
		logger:      logger,
	}
}

// emitTransition публикует событие перехода без блокировки: переполненная
// очередь уведомлений не должна задерживать проход
func (w *Workflow) emitTransition(t Transition) {
	if w.transitions == nil {
		return
	}

	select {
	case w.transitions <- t:
	default:
		w.logger.Warn("Очередь уведомлений переполнена, событие перехода отброшено",
			zap.Int64("booking_id", t.BookingID),
			zap.String("status", t.Status.String()),
		)
	}
}
