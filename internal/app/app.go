package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/alerts"
	"github.com/purushoth411/callback-sub000/internal/api"
	"github.com/purushoth411/callback-sub000/internal/config"
	"github.com/purushoth411/callback-sub000/internal/database"
	"github.com/purushoth411/callback-sub000/internal/events"
	"github.com/purushoth411/callback-sub000/internal/locker"
	"github.com/purushoth411/callback-sub000/internal/logger"
	"github.com/purushoth411/callback-sub000/internal/mailer"
	"github.com/purushoth411/callback-sub000/internal/monitoring"
	"github.com/purushoth411/callback-sub000/internal/notifier"
	"github.com/purushoth411/callback-sub000/internal/timeutil"
	"github.com/purushoth411/callback-sub000/internal/workflow"
)

// transitionBuffer - емкость очереди событий перехода между рабочим
// процессом и notifier; при переполнении события отбрасываются с логом
const transitionBuffer = 128

func Run(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logger)
	if err != nil {
		zap.L().Error("не удалось создать логгер", zap.Error(err))
		return err
	}

	// Sentry включается только при заданном DSN
	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
		if err != nil {
			log.Error("не удалось инициализировать Sentry", zap.Error(err))
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	monitoring.Init()

	// Организационные часы: все сравнения "сегодня"/"сейчас" идут в одном
	// часовом поясе независимо от сервера
	clock, err := timeutil.NewClock(cfg.Workflow.Timezone)
	if err != nil {
		log.Error("не удалось загрузить часовой пояс", zap.Error(err))
		return err
	}

	// Подключаемся к трем хранилищам
	stores, err := database.NewStores(cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close(log)

	// Инициализируем репозитории
	bookingRepo := database.NewBookingRepository(stores.Primary, clock, log)
	adminRepo := database.NewAdminRepository(stores.Primary, log)
	mirrorRepo := database.NewMirrorRepository(stores.CRM, stores.RC, log)

	// Redis-замок проходов (опционально)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = locker.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("не удалось подключиться к Redis", zap.Error(err))
			return err
		}
		defer redisClient.Close()
	}
	sweepLocker := locker.New(redisClient, cfg.Workflow.SweepLockTTL.Std(), log)

	// Инициализируем издателя realtime-событий и почту
	emitter := events.NewKafkaEmitter(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	defer emitter.Close()

	mail := mailer.NewSMTPMailer(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.SMTP.BCC,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Диспетчер уведомлений слушает канал переходов в своей горутине:
	// его сбои не могут затормозить проходы
	transitions := make(chan workflow.Transition, transitionBuffer)
	dispatcher := notifier.New(bookingRepo, adminRepo, mail, emitter, cfg.Workflow.BookingDetailBase, log)
	go dispatcher.Run(ctx, transitions)

	// Рабочий процесс жизненного цикла броней
	wf := workflow.New(
		bookingRepo, adminRepo, mirrorRepo,
		clock, cfg.Workflow.AutoAcceptWindow.Std(), transitions, log,
	)

	alerter := alerts.NewTelegramAlerter(cfg.Telegram.Token, cfg.Telegram.AlertChannel, log)

	handler := api.NewHandler(wf, sweepLocker, alerter, log)
	router := api.NewRouter(cfg.Server.Mode, handler, stores, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Запуск HTTP-сервера", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Получен сигнал остановки")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout.Std())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	close(transitions)
	log.Info("Приложение остановлено")
	return nil
}
