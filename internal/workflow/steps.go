package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// step - один шаг конвейера обработки кандидата. Критический шаг при ошибке
// обрывает конвейер и проваливает кандидата; остальные шаги best-effort:
// их ошибки попадают в диагностику и в лог, но конвейер продолжается.
type step struct {
	name     string
	critical bool
	run      func(ctx context.Context) error
}

// runSteps выполняет шаги строго по порядку. Возвращает список мягких
// сбоев и первую критическую ошибку.
func (w *Workflow) runSteps(ctx context.Context, bookingID int64, steps []step) ([]string, error) {
	var soft []string

	for _, s := range steps {
		err := s.run(ctx)
		if err == nil {
			continue
		}

		if s.critical {
			return soft, fmt.Errorf("%s: %w", s.name, err)
		}

		soft = append(soft, fmt.Sprintf("%s: %v", s.name, err))
		w.logger.Warn("Вспомогательный шаг завершился ошибкой",
			zap.String("step", s.name),
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
	}

	return soft, nil
}
