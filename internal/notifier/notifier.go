// Package notifier превращает события перехода брони в письма и
// realtime-события для дашбордов. Он потребляет события из канала в
// собственной горутине, поэтому его сбои структурно не могут повлиять на
// ход сметающего прохода: любая ошибка здесь только логируется.
package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/events"
	"github.com/purushoth411/callback-sub000/internal/mailer"
	"github.com/purushoth411/callback-sub000/internal/models"
	"github.com/purushoth411/callback-sub000/internal/monitoring"
	"github.com/purushoth411/callback-sub000/internal/workflow"
)

// notifyStatuses - статусы, о которых персонал уведомляется всегда
var notifyStatuses = map[models.Status]struct{}{
	models.StatusAccept:      {},
	models.StatusReject:      {},
	models.StatusRescheduled: {},
	models.StatusCancelled:   {},
}

// BookingReader перечитывает актуальное состояние брони: событие перехода
// несет только идентификатор и статус
type BookingReader interface {
	GetFullBookingData(ctx context.Context, id int64) (*models.BookingWithUser, error)
}

// AdminReader разрешает адресатов писем
type AdminReader interface {
	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
}

type Notifier struct {
	bookings   BookingReader
	admins     AdminReader
	mail       mailer.Sender
	emitter    events.Emitter
	detailBase string
	logger     *zap.Logger
}

func New(bookings BookingReader, admins AdminReader, mail mailer.Sender, emitter events.Emitter, detailBase string, logger *zap.Logger) *Notifier {
	return &Notifier{
		bookings:   bookings,
		admins:     admins,
		mail:       mail,
		emitter:    emitter,
		detailBase: detailBase,
		logger:     logger,
	}
}

// Run потребляет переходы до закрытия канала или отмены контекста
func (n *Notifier) Run(ctx context.Context, transitions <-chan workflow.Transition) {
	n.logger.Info("Запуск диспетчера уведомлений")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Диспетчер уведомлений остановлен")
			return
		case t, ok := <-transitions:
			if !ok {
				n.logger.Info("Канал переходов закрыт, диспетчер остановлен")
				return
			}
			n.handle(ctx, t)
		}
	}
}

// handle обрабатывает один переход: письма по таблице правил, затем
// realtime-события. Каждая ветка независима и деградирует молча.
func (n *Notifier) handle(ctx context.Context, t workflow.Transition) {
	full, err := n.bookings.GetFullBookingData(ctx, t.BookingID)
	if err != nil {
		n.logger.Error("Не удалось перечитать бронь для уведомления",
			zap.Error(err),
			zap.Int64("booking_id", t.BookingID),
		)
		return
	}

	if _, ok := notifyStatuses[t.Status]; ok {
		n.notifyCreator(ctx, full, t.Status)
	}

	if t.Status == models.StatusAccept && full.ClientEmail != "" {
		n.notifyClient(full)
	}

	n.publishUpdates(ctx, full)
}

// notifyCreator шлет письмо сотруднику, создавшему бронь. Отсутствующий
// создатель просто пропускает письмо.
func (n *Notifier) notifyCreator(ctx context.Context, full *models.BookingWithUser, status models.Status) {
	creator, err := n.admins.GetAdminByID(ctx, full.AddedBy)
	if err != nil {
		n.logger.Warn("Создатель брони не найден, письмо пропущено",
			zap.Error(err),
			zap.Int64("booking_id", full.ID),
			zap.Int64("addedby", full.AddedBy),
		)
		return
	}
	if creator.Email == "" {
		return
	}

	html, err := renderStaffMail(staffMailData{
		StaffName:   creator.Name,
		ClientName:  full.ClientName,
		BookingDate: full.BookingDate,
		BookingSlot: full.BookingSlot,
		StatusLine:  statusLine(status),
		BookingID:   full.ID,
	})
	if err != nil {
		n.logger.Error("Ошибка рендера письма сотруднику", zap.Error(err))
		return
	}

	n.send(mailer.Message{
		To:      creator.Email,
		Subject: staffSubject(status, full.ID),
		HTML:    html,
	}, full.ID)
}

// notifyClient шлет клиенту подтверждение со ссылкой на детали брони
func (n *Notifier) notifyClient(full *models.BookingWithUser) {
	html, err := renderClientMail(clientMailData{
		ClientName:  full.ClientName,
		BookingDate: full.BookingDate,
		BookingSlot: full.BookingSlot,
		DetailLink:  fmt.Sprintf("%s/booking/%d", n.detailBase, full.ID),
	})
	if err != nil {
		n.logger.Error("Ошибка рендера письма клиенту", zap.Error(err))
		return
	}

	n.send(mailer.Message{
		To:      full.ClientEmail,
		Subject: "Your consultation call is confirmed",
		HTML:    html,
	}, full.ID)
}

func (n *Notifier) send(msg mailer.Message, bookingID int64) {
	if err := n.mail.Send(msg); err != nil {
		monitoring.EmailsSent.WithLabelValues("error").Inc()
		n.logger.Error("Ошибка при отправке письма",
			zap.Error(err),
			zap.Int64("booking_id", bookingID),
		)
		return
	}
	monitoring.EmailsSent.WithLabelValues("ok").Inc()
}

// publishUpdates публикует событие bookingUpdate, а для броней, связанных с
// RC-календарем, дополнительно rcBookingUpdate
func (n *Notifier) publishUpdates(ctx context.Context, full *models.BookingWithUser) {
	payload := map[string]interface{}{
		"id":                   full.ID,
		"fld_consultation_sts": full.ConsultationStatus,
		"fld_call_request_sts": full.CallRequestStatus,
		"fld_booking_date":     full.BookingDate,
		"fld_booking_slot":     full.BookingSlot,
	}

	if err := n.emitter.Publish(ctx, events.EventBookingUpdate, payload); err != nil {
		n.logger.Warn("Публикация bookingUpdate не удалась",
			zap.Error(err),
			zap.Int64("booking_id", full.ID),
		)
	}

	if full.RCCallRequestID != 0 {
		// Издатель может удерживать payload после возврата, поэтому
		// RC-событие получает собственную копию
		rcPayload := make(map[string]interface{}, len(payload)+1)
		for k, v := range payload {
			rcPayload[k] = v
		}
		rcPayload["fld_rc_call_request_id"] = full.RCCallRequestID

		if err := n.emitter.Publish(ctx, events.EventRCBookingUpdate, rcPayload); err != nil {
			n.logger.Warn("Публикация rcBookingUpdate не удалась",
				zap.Error(err),
				zap.Int64("booking_id", full.ID),
			)
		}
	}
}
