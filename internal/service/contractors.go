package service

import (
	"context"
	"fmt"

	"contractors/internal/engine"
	"contractors/models"

	"go.uber.org/zap"
)

// SubmitApplication присваивает заявке идентификатор и время, пишет её в журнал
// и рассылает уведомление.
func (s *Service) SubmitApplication(ctx context.Context, rec models.ApplicationRecord, ip string) (models.ApplicationRecord, error) {
	rec.ApplicationID = s.newID("app")
	rec.Timestamp = s.now().UTC()
	rec.IPAddress = ip

	if err := s.apps.Append(ctx, rec); err != nil {
		return models.ApplicationRecord{}, fmt.Errorf("append application: %w", err)
	}
	s.log.Info("application received",
		zap.String("application_id", rec.ApplicationID),
		zap.String("trade_category", rec.TradeCategory),
	)
	if s.notify != nil {
		s.notifyFailed("application_received", s.notify.ApplicationReceived(ctx, rec))
	}
	return rec, nil
}

func (s *Service) Applications(ctx context.Context) ([]models.ApplicationRecord, error) {
	return s.apps.List(ctx)
}

// CreateContractor оценивает заявку и добавляет подрядчика.
func (s *Service) CreateContractor(ctx context.Context, app models.Application) (models.Contractor, error) {
	now := s.now()
	id := s.newID("ctr")
	var created models.Contractor
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		created = engine.NewContractorFromApplication(app, id, now)
		ds.Contractors = append(ds.Contractors, created)
		return nil
	})
	if err != nil {
		return models.Contractor{}, err
	}

	decision := string(engine.ComputeApprovalScore(app).Decision)
	s.metrics.ContractorCreated(decision)
	s.log.Info("contractor created",
		zap.String("contractor_id", created.ID),
		zap.Int("approval_score", created.ApprovalScore),
		zap.String("tier", string(created.TierLevel)),
		zap.String("decision", decision),
	)
	return created, nil
}

func (s *Service) Contractors(ctx context.Context) ([]models.Contractor, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Contractors, nil
}

func (s *Service) Contractor(ctx context.Context, id string) (models.ContractorDetail, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return models.ContractorDetail{}, err
	}
	return engine.Detail(ds, id, s.now())
}

func (s *Service) AddNote(ctx context.Context, id, text string) (models.Contractor, error) {
	now := s.now()
	var out models.Contractor
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		c, err := engine.AddNote(ds, id, text, now, s.newID)
		out = c
		return err
	})
	if err != nil {
		return models.Contractor{}, err
	}
	return out, nil
}

func (s *Service) PatchContractor(ctx context.Context, id string, p models.ContractorPatch) (models.Contractor, error) {
	now := s.now()
	var out models.Contractor
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		c, err := engine.PatchContractor(ds, id, p, now)
		out = c
		return err
	})
	if err != nil {
		return models.Contractor{}, err
	}
	s.log.Info("contractor updated",
		zap.String("contractor_id", out.ID),
		zap.String("status", string(out.Status)),
		zap.String("tier", string(out.TierLevel)),
	)
	return out, nil
}

func (s *Service) Projects(ctx context.Context) ([]models.Project, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Projects, nil
}

// CompleteProject фиксирует оценку проекта и возвращает обновлённого подрядчика.
func (s *Service) CompleteProject(ctx context.Context, in models.ProjectCompletion) (models.Contractor, engine.ProjectRating, error) {
	now := s.now()
	var (
		out    models.Contractor
		rating engine.ProjectRating
	)
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		var err error
		out, rating, err = engine.CompleteProject(ds, in, now, s.newID)
		return err
	})
	if err != nil {
		return models.Contractor{}, engine.ProjectRating{}, err
	}

	s.metrics.ProjectCompleted()
	s.log.Info("project completed",
		zap.String("contractor_id", out.ID),
		zap.Float64("rating", rating.Total),
		zap.Int("average_score", out.Performance.AverageScore),
	)
	return out, rating, nil
}
