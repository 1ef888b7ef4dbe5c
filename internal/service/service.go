// Package service выполняет операции бэк-офиса как циклы чтение-изменение-запись
// над хранилищем и сообщает о результатах в логи, метрики и уведомления.
package service

import (
	"context"
	"sync"
	"time"

	"contractors/internal/engine"
	"contractors/internal/metrics"
	"contractors/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store interface {
	Load(ctx context.Context) (*models.Dataset, error)
	Update(ctx context.Context, fn func(*models.Dataset) error) (*models.Dataset, error)
}

type ApplicationLog interface {
	Append(ctx context.Context, rec models.ApplicationRecord) error
	List(ctx context.Context) ([]models.ApplicationRecord, error)
}

type Notifier interface {
	ApplicationReceived(ctx context.Context, rec models.ApplicationRecord) error
	OffersSent(ctx context.Context, pkg models.Package, offers []models.Offer) error
	ComplianceDigest(ctx context.Context, report models.ComplianceReport) error
}

type Deps struct {
	Store        Store
	Applications ApplicationLog
	Notifier     Notifier
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
	NewID        engine.IDFunc
}

type Service struct {
	store   Store
	apps    ApplicationLog
	notify  Notifier
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
	newID   engine.IDFunc

	// mu сериализует циклы Update внутри процесса
	mu sync.Mutex
}

// NewID выдаёт идентификатор вида prefix_<uuid>.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func New(d Deps) *Service {
	s := &Service{
		store:   d.Store,
		apps:    d.Applications,
		notify:  d.Notifier,
		metrics: d.Metrics,
		log:     d.Logger,
		now:     d.Now,
		newID:   d.NewID,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = NewID
	}
	return s
}

// update выполняет fn в одном цикле хранилища. fn может вызываться повторно,
// поэтому побочные эффекты выполняются только после возврата.
func (s *Service) update(ctx context.Context, now time.Time, fn func(*models.Dataset) error) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var before map[string]bool
	ds, err := s.store.Update(ctx, func(ds *models.Dataset) error {
		before = probationSnapshot(ds)
		return fn(ds)
	})
	if err != nil {
		return nil, err
	}
	s.reportProbation(before, ds, now)
	return ds, nil
}

func probationSnapshot(ds *models.Dataset) map[string]bool {
	snap := make(map[string]bool, len(ds.Contractors))
	for _, c := range ds.Contractors {
		snap[c.ID] = c.Probation != nil
	}
	return snap
}

// reportProbation логирует и считает подрядчиков, впервые получивших испытательный срок.
func (s *Service) reportProbation(before map[string]bool, ds *models.Dataset, now time.Time) {
	for _, c := range ds.Contractors {
		if c.Probation == nil || before[c.ID] {
			continue
		}
		triggers := engine.ProbationTriggers(c, now)
		names := make([]string, 0, len(triggers))
		for _, t := range triggers {
			names = append(names, string(t))
			s.metrics.ProbationTriggered(string(t))
		}
		s.log.Info("contractor placed on probation",
			zap.String("contractor_id", c.ID),
			zap.String("status", string(c.Status)),
			zap.Strings("triggers", names),
			zap.Time("ends_at", c.Probation.EndDate),
		)
	}
}

func (s *Service) notifyFailed(event string, err error) {
	if err != nil {
		s.log.Warn("notification failed", zap.String("event", event), zap.Error(err))
	}
}
