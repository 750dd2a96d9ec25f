package workflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/models"
	"github.com/purushoth411/callback-sub000/internal/monitoring"
)

const (
	autoAcceptComment = "Auto-accepted call"

	// Фиксированные строки подтверждения, которые проставляла исходная
	// система при автоприеме
	ackOptionOne = "Auto confirmed"
	ackOptionTwo = "Auto confirmed"
)

// AutoAcceptCalls принимает ожидающие звонки, чей слот начинается в течение
// настроенного окна (по умолчанию 30 минут). Кандидаты обрабатываются
// параллельно, сбой одного не влияет на остальных; проход ждет завершения
// всех конвейеров целиком.
func (w *Workflow) AutoAcceptCalls(ctx context.Context) (*SweepResult, error) {
	candidates, err := w.bookings.FindCandidatesForAutoAccept(ctx)
	if err != nil {
		return nil, fmt.Errorf("find auto-accept candidates: %w", err)
	}

	inWindow := w.filterBySlotWindow(candidates)

	res := &SweepResult{Candidates: len(inWindow)}
	monitoring.SweepCandidates.WithLabelValues("auto_accept").Add(float64(len(inWindow)))

	if len(inWindow) == 0 {
		w.logger.Debug("Нет броней для автоподтверждения")
		return res, nil
	}

	w.logger.Info("Найдены брони для автоподтверждения",
		zap.Int("count", len(inWindow)),
	)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, cand := range inWindow {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()

			err := w.processAutoAccept(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("booking %d: %v", id, err))
				monitoring.SweepErrors.WithLabelValues("auto_accept").Inc()
				w.logger.Error("Не удалось автоподтвердить бронь",
					zap.Error(err),
					zap.Int64("booking_id", id),
				)
				return
			}
			res.Processed++
			monitoring.SweepTransitions.WithLabelValues("auto_accept").Inc()
		}(cand.ID)
	}

	wg.Wait()
	return res, nil
}

// filterBySlotWindow оставляет брони, чей слот попадает в [now, now+window]
// включительно. Слот хранится 12-часовым текстом; строки, которые не
// разбираются, пропускаются с предупреждением, а не трактуются иначе.
func (w *Workflow) filterBySlotWindow(candidates []models.Booking) []models.Booking {
	now := w.clock.Now()
	windowEnd := now.Add(w.window)

	var inWindow []models.Booking
	for _, b := range candidates {
		slotAt, err := w.clock.ParseSlot(b.BookingDate, b.BookingSlot)
		if err != nil {
			w.logger.Warn("Слот брони не разбирается, бронь пропущена",
				zap.Int64("booking_id", b.ID),
				zap.String("slot", b.BookingSlot),
				zap.Error(err),
			)
			continue
		}

		if slotAt.Before(now) || slotAt.After(windowEnd) {
			continue
		}
		inWindow = append(inWindow, b)
	}

	return inWindow
}

// processAutoAccept проводит одну бронь через переход Pending -> Accept.
// Жесткие сбои - только отсутствующая бронь и основное обновление с нулем
// затронутых строк; все дальнейшие шаги деградируют молча.
func (w *Workflow) processAutoAccept(ctx context.Context, id int64) error {
	b, err := w.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}

	var primaryName string

	steps := []step{
		{
			name:     "update booking",
			critical: true,
			run: func(ctx context.Context) error {
				return w.bookings.UpdateBooking(ctx, b.ID, map[string]interface{}{
					"fld_consultation_sts": models.StatusAccept,
					"fld_call_request_sts": models.StatusAccept,
					"fld_comment":          autoAcceptComment,
					"fld_ack_option1":      ackOptionOne,
					"fld_ack_option2":      ackOptionTwo,
				})
			},
		},
		{
			name: "propagate crm mirror",
			run: func(ctx context.Context) error {
				if !b.HasExternalLinks() {
					return nil
				}
				return w.mirrors.UpdateExternalCallStatus(
					ctx, b.CallRequestID, b.RCCallRequestID, models.StatusAccept,
				)
			},
		},
		{
			name: "propagate rc mirror",
			run: func(ctx context.Context) error {
				if !b.HasExternalLinks() {
					return nil
				}
				return w.mirrors.UpdateRCCallRequestStatus(
					ctx, b.CallRequestID, b.RCCallRequestID, models.StatusAccept,
				)
			},
		},
		{
			name: "insert status history",
			run: func(ctx context.Context) error {
				_, err := w.bookings.InsertStatusHistory(ctx, models.BookingStatusHistory{
					BookingID:        b.ID,
					Status:           models.StatusAccept,
					Comment:          autoAcceptComment,
					CallCompleteDate: w.clock.Today(),
				})
				return err
			},
		},
		{
			name: "resolve consultant",
			run: func(ctx context.Context) error {
				if b.PrimaryConsultantID == 0 {
					return nil
				}
				admin, err := w.admins.GetAdminByID(ctx, b.PrimaryConsultantID)
				if err != nil {
					return err
				}
				primaryName = admin.Name
				return nil
			},
		},
		{
			name: "insert overall history",
			run: func(ctx context.Context) error {
				if primaryName == "" {
					return nil
				}
				_, err := w.bookings.InsertOverallHistory(ctx, models.BookingOverallHistory{
					BookingID: b.ID,
					Comment:   w.acceptedComment(primaryName),
				})
				return err
			},
		},
		{
			name: "insert overall history (secondary)",
			run: func(ctx context.Context) error {
				if b.SecondaryConsultantID == 0 {
					return nil
				}
				admin, err := w.admins.GetAdminByID(ctx, b.SecondaryConsultantID)
				if err != nil {
					return err
				}
				_, err = w.bookings.InsertOverallHistory(ctx, models.BookingOverallHistory{
					BookingID: b.ID,
					Comment:   w.acceptedComment(admin.Name),
				})
				return err
			},
		},
	}

	if _, err := w.runSteps(ctx, b.ID, steps); err != nil {
		return err
	}

	w.emitTransition(Transition{
		BookingID:  b.ID,
		Status:     models.StatusAccept,
		OccurredAt: w.clock.Now(),
	})

	return nil
}

func (w *Workflow) acceptedComment(consultantName string) string {
	now := w.clock.Now()
	return fmt.Sprintf(
		"Call Accepted by %s on %s at %s",
		consultantName, w.clock.HumanDate(now), w.clock.HumanTime(now),
	)
}
