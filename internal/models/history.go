package models

import "time"

// BookingStatusHistory - структурированная запись о смене статуса брони.
// Только добавление, никогда не обновляется и не удаляется.
type BookingStatusHistory struct {
	ID               int64     `db:"id"`
	BookingID        int64     `db:"fld_booking_id"`
	Status           Status    `db:"fld_status"`
	Comment          string    `db:"fld_comment"`
	CallCompleteDate string    `db:"fld_call_complete_date"` // "2006-01-02", может быть пустой
	Question         string    `db:"fld_question"`
	Answer           string    `db:"fld_answer"`
	CreatedAt        time.Time `db:"fld_created_at"`
}

// BookingOverallHistory - человекочитаемый журнал по брони, который видят
// несколько ролей. Отдельная таблица от истории статусов: здесь свободный
// текст и флаги "кто уведомлен".
type BookingOverallHistory struct {
	ID              int64     `db:"id"`
	BookingID       int64     `db:"fld_booking_id"`
	Comment         string    `db:"fld_comment"`
	NotifyToID      int64     `db:"fld_notify_to_id"` // 0 = без адресата
	ViewedByExec    bool      `db:"fld_viewed_by_exec"`
	ViewedBySubAdm  bool      `db:"fld_viewed_by_subadm"`
	ViewedByConsult bool      `db:"fld_viewed_by_consult"`
	CreatedAt       time.Time `db:"fld_created_at"`
}
