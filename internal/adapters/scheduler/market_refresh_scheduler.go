package scheduler

import (
	"context"
	"fmt"
	"time"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/port"
	usecases_port "analysis-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// MarketRefreshScheduler периодически запускает обновление рыночных данных
type MarketRefreshScheduler struct {
	useCase  usecases_port.RefreshMarketsUseCase
	logger   port.LoggerPort
	interval time.Duration
}

// NewMarketRefreshScheduler создает новый планировщик
func NewMarketRefreshScheduler(useCase usecases_port.RefreshMarketsUseCase, logger port.LoggerPort, interval time.Duration) (*MarketRefreshScheduler, error) {
	if useCase == nil {
		return nil, fmt.Errorf("scheduler: refresh use case cannot be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %s", interval)
	}
	return &MarketRefreshScheduler{
		useCase:  useCase,
		logger:   logger,
		interval: interval,
	}, nil
}

// Start запускает цикл обновления. Блокируется до отмены контекста.
// Первый запуск выполняется сразу, дальше по интервалу.
func (s *MarketRefreshScheduler) Start(ctx context.Context) error {
	s.logger.Info("Market refresh scheduler started", port.Fields{"interval": s.interval.String()})

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Market refresh scheduler stopped", nil)
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *MarketRefreshScheduler) runOnce(ctx context.Context) {
	traceID := uuid.New().String()

	runLogger := s.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"adapter_name": "MarketRefreshScheduler",
	})

	runCtx := contextkeys.ContextWithLogger(ctx, runLogger)
	runCtx = contextkeys.ContextWithTraceID(runCtx, traceID)

	refreshed, err := s.useCase.Refresh(runCtx)
	if err != nil {
		runLogger.Error("Market refresh run failed", err, nil)
		return
	}

	runLogger.Info("Market refresh run finished", port.Fields{"markets_refreshed": refreshed})
}
