package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/purushoth411/callback-sub000/internal/config"
)

// Схема основной операционной базы: брони, клиенты, сотрудники и обе
// таблицы истории.
const primarySchema = `
CREATE TABLE IF NOT EXISTS tbl_user (
	id SERIAL PRIMARY KEY,
	fld_name TEXT NOT NULL,
	fld_email TEXT,
	fld_phone TEXT,
	fld_created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tbl_admin (
	id SERIAL PRIMARY KEY,
	fld_name TEXT NOT NULL,
	fld_email TEXT,
	fld_admin_type TEXT,
	fld_attendance TEXT
);

CREATE TABLE IF NOT EXISTS tbl_booking (
	id SERIAL PRIMARY KEY,
	fld_client_id INTEGER NOT NULL REFERENCES tbl_user(id),
	fld_consultant_id INTEGER,
	fld_secondary_consultant_id INTEGER,
	fld_tertiary_consultant_id INTEGER,
	fld_addedby INTEGER NOT NULL DEFAULT 0,
	fld_booking_date DATE,
	fld_booking_time TIME,
	fld_booking_slot TEXT,
	fld_consultation_sts TEXT NOT NULL DEFAULT 'Pending',
	fld_call_request_sts TEXT NOT NULL DEFAULT 'Pending',
	fld_sale_type TEXT,
	fld_call_type TEXT,
	fld_comment TEXT,
	fld_ack_option1 TEXT,
	fld_ack_option2 TEXT,
	fld_call_request_id INTEGER,
	fld_rc_call_request_id INTEGER,
	"callDisabled" TEXT,
	fld_created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tbl_booking_sts_history (
	id SERIAL PRIMARY KEY,
	fld_booking_id INTEGER NOT NULL REFERENCES tbl_booking(id),
	fld_status TEXT NOT NULL,
	fld_comment TEXT,
	fld_call_complete_date DATE,
	fld_question TEXT,
	fld_answer TEXT,
	fld_created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tbl_booking_overall_history (
	id SERIAL PRIMARY KEY,
	fld_booking_id INTEGER NOT NULL REFERENCES tbl_booking(id),
	fld_comment TEXT NOT NULL,
	fld_notify_to_id INTEGER,
	fld_viewed_by_exec BOOLEAN NOT NULL DEFAULT FALSE,
	fld_viewed_by_subadm BOOLEAN NOT NULL DEFAULT FALSE,
	fld_viewed_by_consult BOOLEAN NOT NULL DEFAULT FALSE,
	fld_created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_booking_sweep
	ON tbl_booking (fld_booking_date, fld_call_request_sts);
`

// Зеркальная таблица call-request в CRM
const crmSchema = `
CREATE TABLE IF NOT EXISTS tbl_call_request (
	id SERIAL PRIMARY KEY,
	fld_call_request_sts TEXT,
	fld_created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

// Зеркальная таблица в RC-календаре
const rcSchema = `
CREATE TABLE IF NOT EXISTS tbl_rc_call_request (
	id SERIAL PRIMARY KEY,
	fld_call_request_id INTEGER NOT NULL,
	fld_status TEXT,
	fld_created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Путь к файлу конфигурации")
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	apply("primary", cfg.Primary, primarySchema)
	apply("crm", cfg.CRM, crmSchema)
	apply("rc", cfg.RC, rcSchema)

	fmt.Println("Миграции успешно выполнены")
	os.Exit(0)
}

func apply(name string, cfg config.Database, schema string) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных %s: %v", name, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Ошибка проверки подключения к базе данных %s: %v", name, err)
	}

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Ошибка выполнения миграции %s: %v", name, err)
	}

	fmt.Printf("Миграция выполнена: %s\n", name)
}
