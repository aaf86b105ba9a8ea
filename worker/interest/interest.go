package interest

import (
	"context"
	"time"

	"isolend/core"
	"isolend/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker sweeps every market and compounds its outstanding interest, keeping
// accrual gaps short even for markets nobody touches.
type Worker struct {
	worker.BaseJob
	MarketStore   core.IMarketStore
	MarketService core.IMarketService
}

// New new interest worker
func New(spec string, marketStore core.IMarketStore, marketService core.IMarketService) *Worker {
	job := Worker{
		MarketStore:   marketStore,
		MarketService: marketService,
	}

	if spec == "" {
		spec = "@every 10s"
	}

	job.Cron = cron.New()
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "interest")

	markets, err := w.MarketStore.All(ctx)
	if err != nil {
		log.Errorln(err)
		return err
	}

	now := time.Now()
	for _, m := range markets {
		if !m.Exists() {
			continue
		}

		if err := w.MarketService.AccrueMarket(ctx, m.ID, now); err != nil {
			log.WithField("market", m.ID).Errorln(err)
		}
	}

	return nil
}
