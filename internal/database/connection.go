package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер для PostgreSQL
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/config"
)

// Stores - три независимых реляционных хранилища: основная операционная
// база, унаследованный RC-календарь и внешняя CRM. Пулы соединений у каждого
// свои; транзакций между хранилищами нет.
type Stores struct {
	Primary *sqlx.DB
	RC      *sqlx.DB
	CRM     *sqlx.DB
}

// NewConnection создает новое подключение к базе данных
func NewConnection(cfg config.Database, name string, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Ошибка подключения к базе данных",
			zap.Error(err),
			zap.String("store", name),
		)
		return nil, fmt.Errorf("не удалось подключиться к базе %s: %w", name, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		logger.Error("Ошибка проверки подключения к базе данных",
			zap.Error(err),
			zap.String("store", name),
		)
		return nil, fmt.Errorf("не удалось проверить подключение к базе %s: %w", name, err)
	}

	logger.Info("Успешное подключение к базе данных", zap.String("store", name))
	return db, nil
}

// NewStores подключает все три хранилища; ошибка любого из них прерывает
// запуск приложения
func NewStores(cfg *config.AppConfig, logger *zap.Logger) (*Stores, error) {
	primary, err := NewConnection(cfg.Primary, "primary", logger)
	if err != nil {
		return nil, err
	}

	rc, err := NewConnection(cfg.RC, "rc", logger)
	if err != nil {
		return nil, err
	}

	crm, err := NewConnection(cfg.CRM, "crm", logger)
	if err != nil {
		return nil, err
	}

	return &Stores{Primary: primary, RC: rc, CRM: crm}, nil
}

// Close закрывает все пулы; ошибки закрытия только логируются
func (s *Stores) Close(logger *zap.Logger) {
	for name, db := range map[string]*sqlx.DB{"primary": s.Primary, "rc": s.RC, "crm": s.CRM} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil {
			logger.Error("Ошибка при закрытии пула соединений",
				zap.Error(err),
				zap.String("store", name),
			)
		}
	}
}
