package models

import (
	"database/sql"
	"time"
)

// Booking - одна запланированная консультация между клиентом и консультантом.
// Имена колонок унаследованы от исходной схемы (fld_*), включая пару
// независимых статусных колонок: fld_consultation_sts и fld_call_request_sts
// всегда обновляются вместе, но хранятся раздельно.
type Booking struct {
	ID                    int64          `db:"id"`
	ClientID              int64          `db:"fld_client_id"`
	PrimaryConsultantID   int64          `db:"fld_consultant_id"`
	SecondaryConsultantID int64          `db:"fld_secondary_consultant_id"`
	TertiaryConsultantID  int64          `db:"fld_tertiary_consultant_id"`
	AddedBy               int64          `db:"fld_addedby"`
	BookingDate           string         `db:"fld_booking_date"` // "2006-01-02"
	BookingTime           string         `db:"fld_booking_time"` // "15:04:05"
	BookingSlot           string         `db:"fld_booking_slot"` // "03:00 PM"
	ConsultationStatus    Status         `db:"fld_consultation_sts"`
	CallRequestStatus     Status         `db:"fld_call_request_sts"`
	SaleType              string         `db:"fld_sale_type"` // Presales / Postsales
	CallType              string         `db:"fld_call_type"`
	Comment               string         `db:"fld_comment"`
	CallRequestID         int64          `db:"fld_call_request_id"`    // 0 = нет связанной записи CRM
	RCCallRequestID       int64          `db:"fld_rc_call_request_id"` // 0 = нет записи в RC-календаре
	CallDisabled          sql.NullString `db:"callDisabled"`
	CreatedAt             time.Time      `db:"fld_created_at"`
}

// HasExternalLinks сообщает, связана ли бронь одновременно с записью CRM
// и записью RC-календаря (только тогда допустима пропагация в RC)
func (b *Booking) HasExternalLinks() bool {
	return b.CallRequestID != 0 && b.RCCallRequestID != 0
}

// BookingWithUser - бронь вместе с данными клиента, как её отдает
// GetFullBookingData
type BookingWithUser struct {
	Booking
	ClientName  string `db:"client_name"`
	ClientEmail string `db:"client_email"`
}

// AbsenceCandidate - строка из выборки для отмены по отсутствию консультанта:
// бронь плюс присоединенные поля консультанта
type AbsenceCandidate struct {
	Booking
	ConsultantID         int64  `db:"consultant_id"`
	ConsultantName       string `db:"consultant_name"`
	ConsultantAttendance string `db:"consultant_attendance"`
}

// Admin - сотрудник платформы (executive, sub-admin или консультант).
// Рабочий процесс читает его только для проверки посещаемости и адресации
// уведомлений.
type Admin struct {
	ID         int64  `db:"id"`
	Name       string `db:"fld_name"`
	Email      string `db:"fld_email"`
	UserType   string `db:"fld_admin_type"`
	Attendance string `db:"fld_attendance"` // PRESENT / ABSENT
}
