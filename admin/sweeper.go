package admin

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSweepSpec = "0 */5 * * * *"

// Sweeper runs Registry.Sweep on a cron schedule.
type Sweeper struct {
	registry *Registry
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewSweeper(registry *Registry, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		registry: registry,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Start schedules the sweep with a six field (seconds first) spec.
func (s *Sweeper) Start(spec string) error {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if _, err := s.cron.AddFunc(spec, func() { s.registry.Sweep() }); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.String("spec", spec))
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("session sweeper stopped")
}
