package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/models"
	"github.com/purushoth411/callback-sub000/internal/timeutil"
)

var (
	ErrBookingNotFound = errors.New("бронь не найдена")
	ErrNoRowsUpdated   = errors.New("обновление не затронуло ни одной строки")
)

// bookingColumns - общий список колонок брони для выборок
const bookingColumns = `
        b.id,
        b.fld_client_id,
        COALESCE(b.fld_consultant_id, 0) AS fld_consultant_id,
        COALESCE(b.fld_secondary_consultant_id, 0) AS fld_secondary_consultant_id,
        COALESCE(b.fld_tertiary_consultant_id, 0) AS fld_tertiary_consultant_id,
        b.fld_addedby,
        to_char(b.fld_booking_date, 'YYYY-MM-DD') AS fld_booking_date,
        to_char(b.fld_booking_time, 'HH24:MI:SS') AS fld_booking_time,
        COALESCE(b.fld_booking_slot, '') AS fld_booking_slot,
        b.fld_consultation_sts,
        b.fld_call_request_sts,
        COALESCE(b.fld_sale_type, '') AS fld_sale_type,
        COALESCE(b.fld_call_type, '') AS fld_call_type,
        COALESCE(b.fld_comment, '') AS fld_comment,
        COALESCE(b.fld_call_request_id, 0) AS fld_call_request_id,
        COALESCE(b.fld_rc_call_request_id, 0) AS fld_rc_call_request_id,
        b."callDisabled",
        b.fld_created_at`

// BookingRepository - доступ к броням и их таблицам-спутникам в основной базе
type BookingRepository struct {
	db     *sqlx.DB
	clock  *timeutil.Clock
	logger *zap.Logger
}

// NewBookingRepository создает новый репозиторий броней
func NewBookingRepository(db *sqlx.DB, clock *timeutil.Clock, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		clock:  clock,
		logger: logger,
	}
}

// FindCandidatesForAbsenceCancellation возвращает запланированные на сегодня
// будущие звонки, чей консультант отмечен отсутствующим. Клиент обязан
// существовать (INNER JOIN), консультант может отсутствовать (LEFT JOIN) -
// но условие по посещаемости в WHERE отбрасывает брони без консультанта.
func (r *BookingRepository) FindCandidatesForAbsenceCancellation(ctx context.Context) ([]models.AbsenceCandidate, error) {
	qb := NewQueryBuilder().
		Where("b.fld_call_request_sts = ?", models.StatusCallScheduled).
		Where("b.fld_booking_date = ?", r.clock.Today()).
		Where("b.fld_booking_time > ?", r.clock.NowTime()).
		Where(`b."callDisabled" IS NULL`).
		Where("a.fld_attendance = ?", models.AttendanceAbsent)

	query := `SELECT` + bookingColumns + `,
        COALESCE(a.id, 0) AS consultant_id,
        COALESCE(a.fld_name, '') AS consultant_name,
        COALESCE(a.fld_attendance, '') AS consultant_attendance
    FROM tbl_booking b
    JOIN tbl_user u ON u.id = b.fld_client_id
    LEFT JOIN tbl_admin a ON a.id = b.fld_consultant_id` + qb.Clause()

	var candidates []models.AbsenceCandidate
	if err := r.db.SelectContext(ctx, &candidates, query, qb.Args()...); err != nil {
		r.logger.Error("Ошибка при выборке броней с отсутствующим консультантом",
			zap.Error(err),
		)
		return nil, fmt.Errorf("select absence candidates: %w", err)
	}

	return candidates, nil
}

// FindCandidatesForAutoAccept возвращает сегодняшние ожидающие брони с
// запланированным или перенесенным call-request, кроме прямых звонков.
// Фильтр по 30-минутному окну слота выполняется на стороне приложения,
// потому что слот хранится 12-часовым текстом.
func (r *BookingRepository) FindCandidatesForAutoAccept(ctx context.Context) ([]models.Booking, error) {
	qb := NewQueryBuilder().
		Where("b.fld_booking_date = ?", r.clock.Today()).
		Where("b.fld_consultation_sts = ?", models.StatusPending).
		Where("b.fld_call_request_sts IN (?, ?)", models.StatusCallScheduled, models.StatusCallRescheduled).
		Where("COALESCE(b.fld_call_type, '') <> ?", models.CallTypeDirect).
		Where(`b."callDisabled" IS NULL`)

	query := `SELECT` + bookingColumns + ` FROM tbl_booking b` + qb.Clause()

	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, qb.Args()...); err != nil {
		r.logger.Error("Ошибка при выборке броней для автоподтверждения",
			zap.Error(err),
		)
		return nil, fmt.Errorf("select auto-accept candidates: %w", err)
	}

	return bookings, nil
}

// UpdateBooking обновляет ровно одну бронь; вызывающий передает ровно те
// колонки, которые нужно изменить. Ноль затронутых строк - ошибка
// ErrNoRowsUpdated.
func (r *BookingRepository) UpdateBooking(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return errors.New("пустой набор колонок для обновления")
	}

	// Сортируем колонки, чтобы запрос был детерминированным
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteColumn(col), i+1))
		args = append(args, fields[col])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE tbl_booking SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args),
	)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Ошибка при обновлении брони",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return fmt.Errorf("update booking %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for booking %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNoRowsUpdated
	}

	return nil
}

// InsertStatusHistory добавляет запись в историю статусов и возвращает ее id
func (r *BookingRepository) InsertStatusHistory(ctx context.Context, h models.BookingStatusHistory) (int64, error) {
	query := `
        INSERT INTO tbl_booking_sts_history (
            fld_booking_id, fld_status, fld_comment,
            fld_call_complete_date, fld_question, fld_answer, fld_created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id`

	var id int64
	err := r.db.QueryRowContext(
		ctx, query,
		h.BookingID, h.Status, h.Comment,
		nullIfEmpty(h.CallCompleteDate), h.Question, h.Answer,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Ошибка при добавлении записи в историю статусов",
			zap.Error(err),
			zap.Int64("booking_id", h.BookingID),
		)
		return 0, fmt.Errorf("insert status history: %w", err)
	}

	return id, nil
}

// InsertOverallHistory добавляет запись в общий журнал брони и возвращает ее id
func (r *BookingRepository) InsertOverallHistory(ctx context.Context, h models.BookingOverallHistory) (int64, error) {
	query := `
        INSERT INTO tbl_booking_overall_history (
            fld_booking_id, fld_comment, fld_notify_to_id,
            fld_viewed_by_exec, fld_viewed_by_subadm, fld_viewed_by_consult,
            fld_created_at
        )
        VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, NOW())
        RETURNING id`

	var id int64
	err := r.db.QueryRowContext(
		ctx, query,
		h.BookingID, h.Comment, h.NotifyToID,
		h.ViewedByExec, h.ViewedBySubAdm, h.ViewedByConsult,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Ошибка при добавлении записи в общий журнал",
			zap.Error(err),
			zap.Int64("booking_id", h.BookingID),
		)
		return 0, fmt.Errorf("insert overall history: %w", err)
	}

	return id, nil
}

// GetBookingByID возвращает бронь по id либо ErrBookingNotFound
func (r *BookingRepository) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM tbl_booking b WHERE b.id = $1`

	var b models.Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		r.logger.Error("Ошибка при получении брони по ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}

	return &b, nil
}

// GetFullBookingData возвращает бронь вместе с данными клиента
func (r *BookingRepository) GetFullBookingData(ctx context.Context, id int64) (*models.BookingWithUser, error) {
	query := `SELECT` + bookingColumns + `,
        COALESCE(u.fld_name, '') AS client_name,
        COALESCE(u.fld_email, '') AS client_email
    FROM tbl_booking b
    JOIN tbl_user u ON u.id = b.fld_client_id
    WHERE b.id = $1`

	var b models.BookingWithUser
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		r.logger.Error("Ошибка при получении полных данных брони",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("get full booking %d: %w", id, err)
	}

	return &b, nil
}

// nullIfEmpty превращает пустую строку в нетипизированный NULL. Для колонок
// DATE это принципиально: NULLIF($n, '') в Postgres разрешается как text и
// не присваивается в date, а голый NULL-параметр наследует тип колонки.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// quoteColumn экранирует унаследованные колонки в смешанном регистре
// (callDisabled), остальные имена оставляет как есть
func quoteColumn(col string) string {
	if strings.ToLower(col) != col {
		return `"` + col + `"`
	}
	return col
}
