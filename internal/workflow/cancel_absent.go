package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/models"
	"github.com/purushoth411/callback-sub000/internal/monitoring"
)

// CancelAbsentCalls отменяет сегодняшние будущие звонки, чей консультант
// отмечен отсутствующим. Ошибка возвращается только если упала сама выборка
// кандидатов; сбои отдельных кандидатов копятся в результате, проход
// никогда не прерывается на середине.
func (w *Workflow) CancelAbsentCalls(ctx context.Context) (*SweepResult, error) {
	candidates, err := w.bookings.FindCandidatesForAbsenceCancellation(ctx)
	if err != nil {
		return nil, fmt.Errorf("find absence candidates: %w", err)
	}

	res := &SweepResult{Candidates: len(candidates)}
	monitoring.SweepCandidates.WithLabelValues("cancel_absent").Add(float64(len(candidates)))

	if len(candidates) == 0 {
		w.logger.Debug("Нет броней с отсутствующим консультантом")
		return res, nil
	}

	w.logger.Info("Найдены брони с отсутствующим консультантом",
		zap.Int("count", len(candidates)),
	)

	for _, cand := range candidates {
		if err := w.cancelAbsent(ctx, cand); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("booking %d: %v", cand.ID, err))
			monitoring.SweepErrors.WithLabelValues("cancel_absent").Inc()
			w.logger.Error("Не удалось отменить бронь",
				zap.Error(err),
				zap.Int64("booking_id", cand.ID),
			)
			continue
		}

		res.Processed++
		monitoring.SweepTransitions.WithLabelValues("cancel_absent").Inc()
		w.logger.Info("Бронь отменена из-за отсутствия консультанта",
			zap.Int64("booking_id", cand.ID),
			zap.String("consultant", cand.ConsultantName),
		)
	}

	return res, nil
}

// cancelAbsent проводит одну бронь через переход Scheduled -> Cancelled.
// Критично только основное обновление статусов; пропагация в RC и записи
// истории идут следом и не откатывают уже зафиксированную отмену.
func (w *Workflow) cancelAbsent(ctx context.Context, cand models.AbsenceCandidate) error {
	comment := "Consultant Absent on " + w.clock.HumanDate(w.clock.Now())

	steps := []step{
		{
			name:     "update booking",
			critical: true,
			run: func(ctx context.Context) error {
				return w.bookings.UpdateBooking(ctx, cand.ID, map[string]interface{}{
					"fld_consultation_sts": models.StatusCancelled,
					"fld_call_request_sts": models.StatusCancelled,
				})
			},
		},
		{
			name: "propagate rc mirror",
			run: func(ctx context.Context) error {
				if !cand.HasExternalLinks() {
					return nil
				}
				return w.mirrors.UpdateRCCallRequestStatus(
					ctx, cand.CallRequestID, cand.RCCallRequestID, models.StatusCancelled,
				)
			},
		},
		{
			name: "insert overall history",
			run: func(ctx context.Context) error {
				_, err := w.bookings.InsertOverallHistory(ctx, models.BookingOverallHistory{
					BookingID: cand.ID,
					Comment:   comment,
				})
				return err
			},
		},
		{
			name: "insert status history",
			run: func(ctx context.Context) error {
				_, err := w.bookings.InsertStatusHistory(ctx, models.BookingStatusHistory{
					BookingID: cand.ID,
					Status:    models.StatusCancelled,
					Comment:   comment,
				})
				return err
			},
		},
	}

	_, err := w.runSteps(ctx, cand.ID, steps)
	return err
}
