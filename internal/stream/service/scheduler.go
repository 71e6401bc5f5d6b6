package service

import (
	"context"

	"crypto-pulse/internal/stream/config"
	"crypto-pulse/pkg/common"
	"crypto-pulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic stream jobs: reddit dump, news refresh and
// alert checks. Jobs run in-process; an empty cron spec disables the job.
type Scheduler struct {
	cfg       *config.Config
	ingestion IngestionService
	news      NewsRefreshService
	alerts    AlertService
	logger    *logger.Logger
	cron      *cron.Cron
}

// NewScheduler creates a new stream scheduler.
func NewScheduler(cfg *config.Config, ingestion IngestionService, news NewsRefreshService, alerts AlertService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		ingestion: ingestion,
		news:      news,
		alerts:    alerts,
		logger:    log,
		cron:      cron.New(),
	}
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if spec := s.cfg.Scheduler.DumpCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.runDump(ctx) }); err != nil {
			return err
		}
	}
	if spec := s.cfg.Scheduler.NewsCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.runNewsRefresh(ctx) }); err != nil {
			return err
		}
	}
	if spec := s.cfg.Scheduler.AlertCron; spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.runAlertCheck(ctx) }); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.logger.Info("Stream scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for running jobs.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Stream scheduler stopped")
}

func (s *Scheduler) runDump(ctx context.Context) {
	limit := s.cfg.Scheduler.DumpLimit
	if limit < common.MinFetchLimit || limit > common.MaxFetchLimit {
		limit = common.DefaultFetchLimit
	}
	timeFilter := s.cfg.Scheduler.DumpTimeFilter
	if !common.TimeFilters[timeFilter] {
		timeFilter = "day"
	}

	result, err := s.ingestion.DumpPosts(ctx, limit, timeFilter)
	if err != nil {
		s.logger.Error("Scheduled dump failed", logger.ErrorField(err))
		return
	}
	s.logger.Info("Scheduled dump finished",
		logger.IntField("inserted", result.Inserted),
		logger.IntField("skipped", result.Skipped),
		logger.IntField("failed", len(result.Failed)),
	)
}

func (s *Scheduler) runNewsRefresh(ctx context.Context) {
	if err := s.news.Refresh(ctx); err != nil {
		s.logger.Error("Scheduled news refresh failed", logger.ErrorField(err))
	}
}

func (s *Scheduler) runAlertCheck(ctx context.Context) {
	if err := s.alerts.Check(ctx); err != nil {
		s.logger.Error("Scheduled alert check failed", logger.ErrorField(err))
	}
}
