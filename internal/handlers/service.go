package handlers

import (
	"context"

	"contractors/internal/engine"
	"contractors/models"
)

// Service: операции бэк-офиса, которые вызывают обработчики.
type Service interface {
	SubmitApplication(ctx context.Context, rec models.ApplicationRecord, ip string) (models.ApplicationRecord, error)
	Applications(ctx context.Context) ([]models.ApplicationRecord, error)
	Summary(ctx context.Context) (models.SummaryMetrics, error)

	CreateContractor(ctx context.Context, app models.Application) (models.Contractor, error)
	Contractors(ctx context.Context) ([]models.Contractor, error)
	Contractor(ctx context.Context, id string) (models.ContractorDetail, error)
	AddNote(ctx context.Context, id, text string) (models.Contractor, error)
	PatchContractor(ctx context.Context, id string, p models.ContractorPatch) (models.Contractor, error)

	Projects(ctx context.Context) ([]models.Project, error)
	CompleteProject(ctx context.Context, in models.ProjectCompletion) (models.Contractor, engine.ProjectRating, error)

	Packages(ctx context.Context) ([]models.Package, error)
	CreatePackage(ctx context.Context, req models.PackageRequest) (models.Package, error)
	RankPackage(ctx context.Context, id string) (models.Package, []models.RankedContractor, error)
	SendOffers(ctx context.Context, id, mode string) (models.Package, []models.Offer, error)

	Offers(ctx context.Context) ([]models.Offer, error)
	RespondToOffer(ctx context.Context, id string, action models.OfferAction) (models.Offer, error)

	Alerts(ctx context.Context) ([]models.Alert, error)
	ComplianceReport(ctx context.Context) (models.ComplianceReport, error)
	CoverageReport(ctx context.Context) (models.CoverageReport, error)
}
