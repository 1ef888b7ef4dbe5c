// Package scheduler запускает периодические задачи бэк-офиса по cron-расписанию.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contractors/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Jobs: операции, которые планировщик вызывает по расписанию.
type Jobs interface {
	ExpireOffers(ctx context.Context) ([]string, error)
	SendComplianceDigest(ctx context.Context) (models.ComplianceReport, error)
}

type Config struct {
	OfferSweep       string
	ComplianceDigest string
	Location         *time.Location
	JobTimeout       time.Duration
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    Jobs
	log     *zap.Logger
	timeout time.Duration
}

// parser принимает стандартные 5 полей и дескрипторы вида @every 15m.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// cronLogger направляет сообщения cron в zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New регистрирует задачи. Пустое расписание отключает задачу.
func New(cfg Config, jobs Jobs, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	cl := cronLogger{l: log.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		jobs:    jobs,
		log:     log,
		timeout: timeout,
	}

	if err := s.add("offer_sweep", cfg.OfferSweep, s.sweepOffers); err != nil {
		return nil, err
	}
	if err := s.add("compliance_digest", cfg.ComplianceDigest, s.complianceDigest); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) add(name, spec string, job func()) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		s.log.Info("scheduled job disabled", zap.String("job", name))
		return nil
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	s.log.Info("scheduled job registered", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

// Entries возвращает количество зарегистрированных задач.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач либо отмены ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) sweepOffers() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	expired, err := s.jobs.ExpireOffers(ctx)
	if err != nil {
		s.log.Error("offer sweep failed", zap.Error(err))
		return
	}
	s.log.Debug("offer sweep finished", zap.Int("expired", len(expired)))
}

func (s *Scheduler) complianceDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.jobs.SendComplianceDigest(ctx); err != nil {
		s.log.Error("compliance digest failed", zap.Error(err))
	}
}
