package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/tracklog/tracklog/internal/config"
	"github.com/tracklog/tracklog/pkg/report"
)

// ReportJob is the scheduler's view of the report mailer job.
type ReportJob interface {
	Run(ctx context.Context, period report.Period) error
}

// Scheduler triggers the report mailer job on the configured cron schedules,
// one entry per period kind. An empty schedule disables that period.
type Scheduler struct {
	cron *cron.Cron
}

func New(cfg config.Reports, job ReportJob) (*Scheduler, error) {
	c := cron.New()

	schedules := map[report.Period]string{
		report.PeriodWeek:  cfg.WeeklyCron,
		report.PeriodMonth: cfg.MonthlyCron,
	}
	for period, spec := range schedules {
		if spec == "" {
			log.Infof("%s report schedule is empty, job disabled", period)
			continue
		}
		period := period
		_, err := c.AddFunc(spec, func() {
			log.Infof("running scheduled %s report job", period)
			if err := job.Run(context.Background(), period); err != nil {
				log.Errorf("%s report job failed: %v", period, err)
			}
		})
		if err != nil {
			return nil, err
		}
	}

	return &Scheduler{cron: c}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs; jobs already started keep running.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
