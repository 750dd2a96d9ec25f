package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/models"
)

var ErrAdminNotFound = errors.New("сотрудник не найден")

// AdminRepository - чтение сотрудников (консультантов и администраторов).
// Рабочий процесс никогда их не изменяет.
type AdminRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAdminRepository(db *sqlx.DB, logger *zap.Logger) *AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
	}
}

// GetAdminByID возвращает сотрудника по id либо ErrAdminNotFound
func (r *AdminRepository) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := `
        SELECT
            id,
            COALESCE(fld_name, '') AS fld_name,
            COALESCE(fld_email, '') AS fld_email,
            COALESCE(fld_admin_type, '') AS fld_admin_type,
            COALESCE(fld_attendance, '') AS fld_attendance
        FROM tbl_admin
        WHERE id = $1`

	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		r.logger.Error("Ошибка при получении сотрудника по ID",
			zap.Error(err),
			zap.Int64("admin_id", id),
		)
		return nil, fmt.Errorf("get admin %d: %w", id, err)
	}

	return &admin, nil
}
