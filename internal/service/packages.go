package service

import (
	"context"
	"fmt"

	"contractors/internal/engine"
	"contractors/models"

	"go.uber.org/zap"
)

func (s *Service) Packages(ctx context.Context) ([]models.Package, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Packages, nil
}

func (s *Service) CreatePackage(ctx context.Context, req models.PackageRequest) (models.Package, error) {
	now := s.now()
	var pkg models.Package
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		var err error
		pkg, err = engine.CreatePackage(ds, req, now, s.newID)
		return err
	})
	if err != nil {
		return models.Package{}, err
	}
	s.log.Info("package created",
		zap.String("package_id", pkg.ID),
		zap.String("allocation_type", string(pkg.AllocationType)),
	)
	return pkg, nil
}

// RankPackage возвращает допущенных подрядчиков по убыванию индекса надёжности.
func (s *Service) RankPackage(ctx context.Context, id string) (models.Package, []models.RankedContractor, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return models.Package{}, nil, err
	}
	pkg := ds.Package(id)
	if pkg == nil {
		return models.Package{}, nil, fmt.Errorf("package %s: %w", id, engine.ErrNotFound)
	}

	ranked := engine.Rank(ds.Contractors, *pkg, s.now())
	rows := make([]models.RankedContractor, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, r.Row())
	}
	return *pkg, rows, nil
}

// SendOffers создаёт предложения по пакету и возвращает все предложения пакета.
func (s *Service) SendOffers(ctx context.Context, id, mode string) (models.Package, []models.Offer, error) {
	mode, err := engine.ParseMode(mode)
	if err != nil {
		return models.Package{}, nil, err
	}

	now := s.now()
	var created []models.Offer
	ds, err := s.update(ctx, now, func(ds *models.Dataset) error {
		var err error
		created, err = engine.SendOffers(ds, id, mode, now, s.newID)
		return err
	})
	if err != nil {
		return models.Package{}, nil, err
	}

	pkg := *ds.Package(id)
	s.metrics.OfferSent(string(pkg.AllocationType), len(created))
	s.log.Info("offers sent",
		zap.String("package_id", pkg.ID),
		zap.String("mode", mode),
		zap.Int("offers", len(created)),
	)
	if s.notify != nil {
		s.notifyFailed("offers_sent", s.notify.OffersSent(ctx, pkg, created))
	}
	return pkg, ds.OffersForPackage(pkg.ID), nil
}

func (s *Service) Offers(ctx context.Context) ([]models.Offer, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Offers, nil
}

// RespondToOffer фиксирует ответ подрядчика; повторный ответ даёт ErrOfferNotPending.
func (s *Service) RespondToOffer(ctx context.Context, id string, action models.OfferAction) (models.Offer, error) {
	now := s.now()
	var offer models.Offer
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		o, err := engine.RespondToOffer(ds, id, action, now)
		if err != nil {
			return err
		}
		offer = *o
		return nil
	})
	if err != nil {
		return models.Offer{}, err
	}

	s.metrics.OfferResponded(string(action))
	s.log.Info("offer response recorded",
		zap.String("offer_id", offer.ID),
		zap.String("contractor_id", offer.ContractorID),
		zap.String("status", string(offer.Status)),
	)
	return offer, nil
}

// ExpireOffers переводит просроченные предложения в No Response.
func (s *Service) ExpireOffers(ctx context.Context) ([]string, error) {
	now := s.now()
	var expired []string
	_, err := s.update(ctx, now, func(ds *models.Dataset) error {
		expired = engine.ExpireOffers(ds, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(expired) > 0 {
		s.metrics.OfferExpired(len(expired))
		s.log.Info("offers expired", zap.Strings("offer_ids", expired))
	}
	return expired, nil
}
