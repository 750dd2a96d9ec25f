package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/models"
)

var ErrMissingMirrorIDs = errors.New("для пропагации нужны оба внешних идентификатора")

// MirrorRepository обновляет денормализованные копии статуса брони во
// внешних базах: запись call-request в CRM и запись в RC-календаре.
// Обе операции вызываются только best-effort, после фиксации основного
// обновления; их ошибки не откатывают основной переход.
type MirrorRepository struct {
	crm    *sqlx.DB
	rc     *sqlx.DB
	logger *zap.Logger
}

func NewMirrorRepository(crm, rc *sqlx.DB, logger *zap.Logger) *MirrorRepository {
	return &MirrorRepository{
		crm:    crm,
		rc:     rc,
		logger: logger,
	}
}

// UpdateExternalCallStatus переносит статус в зеркальную запись CRM.
// Требуются оба идентификатора: без связки с RC запись CRM не трогаем,
// как делала исходная система.
func (r *MirrorRepository) UpdateExternalCallStatus(ctx context.Context, callRequestID, rcCallRequestID int64, status models.Status) error {
	if callRequestID == 0 || rcCallRequestID == 0 {
		return ErrMissingMirrorIDs
	}

	query := `UPDATE tbl_call_request SET fld_call_request_sts = $1 WHERE id = $2`

	res, err := r.crm.ExecContext(ctx, query, status, callRequestID)
	if err != nil {
		r.logger.Error("Ошибка при обновлении зеркальной записи CRM",
			zap.Error(err),
			zap.Int64("call_request_id", callRequestID),
		)
		return fmt.Errorf("update crm mirror %d: %w", callRequestID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for crm mirror %d: %w", callRequestID, err)
	}
	if affected == 0 {
		return ErrNoRowsUpdated
	}

	return nil
}

// UpdateRCCallRequestStatus переносит статус в запись RC-календаря
func (r *MirrorRepository) UpdateRCCallRequestStatus(ctx context.Context, callRequestID, rcCallRequestID int64, status models.Status) error {
	if callRequestID == 0 || rcCallRequestID == 0 {
		return ErrMissingMirrorIDs
	}

	query := `UPDATE tbl_rc_call_request SET fld_status = $1 WHERE id = $2 AND fld_call_request_id = $3`

	res, err := r.rc.ExecContext(ctx, query, status, rcCallRequestID, callRequestID)
	if err != nil {
		r.logger.Error("Ошибка при обновлении записи RC-календаря",
			zap.Error(err),
			zap.Int64("rc_call_request_id", rcCallRequestID),
		)
		return fmt.Errorf("update rc mirror %d: %w", rcCallRequestID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for rc mirror %d: %w", rcCallRequestID, err)
	}
	if affected == 0 {
		return ErrNoRowsUpdated
	}

	return nil
}
