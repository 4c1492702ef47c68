package jobs

import (
	"context"
	"fmt"
	"time"

	"construction_inventory_backend/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const reportTimeout = 30 * time.Second

// LowStockReporter periodically logs materials at or below their minimum stock level.
type LowStockReporter struct {
	cron      *cron.Cron
	spec      string
	dashboard services.DashboardService
	logger    zerolog.Logger
	lowStock  prometheus.Gauge
}

// NewLowStockReporter creates a reporter for the standard 5-field cron spec.
func NewLowStockReporter(spec string, dashboard services.DashboardService) *LowStockReporter {
	return &LowStockReporter{
		cron:      cron.New(),
		spec:      spec,
		dashboard: dashboard,
		logger:    log.With().Str("job", "low_stock_report").Logger(),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "low_stock_materials",
			Help:      "Materials at or below their minimum stock level at the last report.",
		}),
	}
}

// Collector returns the gauge updated by each run.
func (r *LowStockReporter) Collector() prometheus.Collector { return r.lowStock }

// Start schedules the report. An invalid cron spec is returned without starting anything.
func (r *LowStockReporter) Start() error {
	if _, err := r.cron.AddFunc(r.spec, func() { _ = r.Run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule low stock report %q: %w", r.spec, err)
	}
	r.cron.Start()
	r.logger.Info().Str("spec", r.spec).Msg("Low stock report scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running report to finish.
func (r *LowStockReporter) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info().Msg("Low stock report stopped")
}

// Run produces one report.
func (r *LowStockReporter) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	items, err := r.dashboard.LowStockItems(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build low stock report")
		return err
	}
	r.lowStock.Set(float64(len(items)))

	if len(items) == 0 {
		r.logger.Info().Msg("No materials below minimum stock")
		return nil
	}
	for _, m := range items {
		r.logger.Warn().
			Int64("material_id", m.ID).
			Str("material", m.String()).
			Str("current_quantity", m.CurrentQuantity.String()).
			Str("minimum_stock_level", m.MinimumStockLevel.String()).
			Msg("Material at or below minimum stock")
	}
	r.logger.Info().Int("count", len(items)).Msg("Low stock report finished")
	return nil
}
