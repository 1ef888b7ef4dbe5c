package service

import (
	"context"
	"fmt"

	"contractors/internal/engine"
	"contractors/models"

	"go.uber.org/zap"
)

func (s *Service) Summary(ctx context.Context) (models.SummaryMetrics, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return models.SummaryMetrics{}, err
	}
	apps, err := s.apps.List(ctx)
	if err != nil {
		return models.SummaryMetrics{}, fmt.Errorf("list applications: %w", err)
	}
	return engine.Summarize(ds, len(apps), s.now()), nil
}

func (s *Service) Alerts(ctx context.Context) ([]models.Alert, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Alerts(ds, s.now()), nil
}

func (s *Service) ComplianceReport(ctx context.Context) (models.ComplianceReport, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return models.ComplianceReport{}, err
	}
	return engine.ComplianceExpirationReport(ds, s.now()), nil
}

func (s *Service) CoverageReport(ctx context.Context) (models.CoverageReport, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return models.CoverageReport{}, err
	}
	return engine.RegionalCoverageReport(ds), nil
}

// SendComplianceDigest рассылает отчёт об истекающих документах, если он не пуст.
func (s *Service) SendComplianceDigest(ctx context.Context) (models.ComplianceReport, error) {
	report, err := s.ComplianceReport(ctx)
	if err != nil {
		return models.ComplianceReport{}, err
	}
	s.log.Info("compliance digest", zap.Int("items", len(report.Items)))
	if s.notify != nil {
		s.notifyFailed("compliance_digest", s.notify.ComplianceDigest(ctx, report))
	}
	return report, nil
}
