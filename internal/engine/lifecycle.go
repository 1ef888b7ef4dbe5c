package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"contractors/models"
)

// MaxRecentScores: сколько последних оценок проектов хранится у подрядчика.
const MaxRecentScores = 10

// NormalizeRegions обрезает пробелы, отбрасывает пустые и повторяющиеся (без учёта регистра) регионы.
func NormalizeRegions(regions []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, r := range regions {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// NewContractorFromApplication создаёт подрядчика из разобранной заявки.
func NewContractorFromApplication(app models.Application, id string, now time.Time) models.Contractor {
	score := ComputeApprovalScore(app)

	name := strings.TrimSpace(app.ApplicantName)
	if name == "" {
		name = strings.TrimSpace(app.CompanyName)
	}
	if name == "" {
		name = "Contractor"
	}

	status := models.StatusActive
	if score.Decision == models.Rejected {
		status = models.StatusSuspended
	}

	documents := append([]models.Document{}, app.Uploads...)

	c := models.Contractor{
		ID:                    id,
		CreatedAt:             now.UTC(),
		ContractorName:        name,
		CompanyName:           app.CompanyName,
		TradeCategory:         strings.TrimSpace(app.TradeCategory),
		TierLevel:             score.TierLevel,
		ApprovalScore:         score.Total,
		ApprovalBreakdown:     score.Breakdown,
		Status:                status,
		RegionsCovered:        NormalizeRegions(app.RegionsCovered),
		CrewSize:              app.WorkforceSize,
		EquipmentCapabilities: app.EquipmentCapabilities,
		YearsExperience:       app.YearsOfExperience,
		Compliance: models.Compliance{
			InsuranceExpiryDate: app.InsuranceExpiryDate,
			LicenseExpiryDate:   app.LicenseExpiryDate,
			W9Submitted:         app.W9Provided,
			OSHAConfirmed:       app.OSHAConfirmed,
			LicenseVerified:     app.LicenseVerified,
			LastVerifiedAt:      now.UTC(),
		},
		Performance: models.Performance{
			RecentProjectScores: []float64{},
			Tier:                models.StandardAllocation,
		},
		ResponseHistory: models.ResponseHistory{ResponseRate: 1},
		Availability:    models.Available,
		Notes:           []models.Note{},
		Documents:       documents,
		ApplicationID:   app.ApplicationID,
	}
	return EvaluateProbation(c, now)
}

// RecordProjectScore добавляет оценку проекта в скользящую статистику подрядчика.
func RecordProjectScore(p *models.Performance, rating float64) {
	p.TotalScore += rating
	p.ProjectsCompleted++
	p.AverageScore = int(math.Round(p.TotalScore / float64(p.ProjectsCompleted)))
	p.RecentProjectScores = append(p.RecentProjectScores, rating)
	if n := len(p.RecentProjectScores); n > MaxRecentScores {
		p.RecentProjectScores = append([]float64{}, p.RecentProjectScores[n-MaxRecentScores:]...)
	}
	p.Tier = PerformanceTierFromAverage(p.AverageScore)
}

// CompleteProject фиксирует завершение проекта и пересчитывает показатели подрядчика.
// Статус, кроме приостановки, сбрасывается в Active и заново проверяется на испытательный срок.
func CompleteProject(ds *models.Dataset, in models.ProjectCompletion, now time.Time, newID IDFunc) (models.Contractor, ProjectRating, error) {
	name := strings.TrimSpace(in.ProjectName)
	if in.ContractorID == "" || name == "" {
		return models.Contractor{}, ProjectRating{}, fmt.Errorf("missing contractorId/projectName: %w", ErrInvalidProject)
	}
	c := ds.Contractor(in.ContractorID)
	if c == nil {
		return models.Contractor{}, ProjectRating{}, fmt.Errorf("contractor %s: %w", in.ContractorID, ErrNotFound)
	}

	rating := ComputeProjectRating(in.Rating)
	RecordProjectScore(&c.Performance, rating.Total)
	if !c.Status.Suspended() {
		c.Status = models.StatusActive
	}
	*c = EvaluateProbation(*c, now)

	ds.Projects = append(ds.Projects, models.Project{
		ID:           newID("prj"),
		ContractorID: c.ID,
		ProjectName:  name,
		CompletedAt:  now.UTC(),
		Rating:       rating.Total,
		Parts:        rating.Parts,
		Status:       models.ProjectCompleted,
	})
	return *c, rating, nil
}

func validatePatch(p models.ContractorPatch) error {
	if p.TierLevel != nil && !p.TierLevel.Valid() {
		return fmt.Errorf("tierLevel %q: %w", *p.TierLevel, ErrInvalidPatch)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("status %q: %w", *p.Status, ErrInvalidPatch)
	}
	if p.Availability != nil && strings.TrimSpace(string(*p.Availability)) == "" {
		return fmt.Errorf("availability is empty: %w", ErrInvalidPatch)
	}
	for field, date := range map[string]*string{
		"insuranceExpiryDate": p.InsuranceExpiryDate,
		"licenseExpiryDate":   p.LicenseExpiryDate,
	} {
		if date == nil || strings.TrimSpace(*date) == "" {
			continue
		}
		if _, ok := ParseDate(*date); !ok {
			return fmt.Errorf("%s %q: %w", field, *date, ErrInvalidPatch)
		}
	}
	if p.SafetyViolations != nil && *p.SafetyViolations < 0 {
		return fmt.Errorf("addSafetyViolations must not be negative: %w", ErrInvalidPatch)
	}
	if p.VerifiedComplaints != nil && *p.VerifiedComplaints < 0 {
		return fmt.Errorf("addVerifiedComplaints must not be negative: %w", ErrInvalidPatch)
	}
	return nil
}

// PatchContractor применяет изменения администратора и заново проверяет испытательный срок.
func PatchContractor(ds *models.Dataset, id string, p models.ContractorPatch, now time.Time) (models.Contractor, error) {
	if err := validatePatch(p); err != nil {
		return models.Contractor{}, err
	}
	c := ds.Contractor(id)
	if c == nil {
		return models.Contractor{}, fmt.Errorf("contractor %s: %w", id, ErrNotFound)
	}

	if p.TierLevel != nil {
		c.TierLevel = *p.TierLevel
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Availability != nil {
		c.Availability = models.Availability(strings.TrimSpace(string(*p.Availability)))
	}
	if p.InsuranceExpiryDate != nil {
		c.Compliance.InsuranceExpiryDate = strings.TrimSpace(*p.InsuranceExpiryDate)
	}
	if p.LicenseExpiryDate != nil {
		c.Compliance.LicenseExpiryDate = strings.TrimSpace(*p.LicenseExpiryDate)
	}
	if p.W9Submitted != nil {
		c.Compliance.W9Submitted = *p.W9Submitted
	}
	if p.OSHAConfirmed != nil {
		c.Compliance.OSHAConfirmed = *p.OSHAConfirmed
	}
	if p.LicenseVerified != nil {
		c.Compliance.LicenseVerified = *p.LicenseVerified
	}
	if p.SafetyViolations != nil {
		c.Flags.SafetyViolations += *p.SafetyViolations
	}
	if p.VerifiedComplaints != nil {
		c.Flags.VerifiedComplaints += *p.VerifiedComplaints
	}

	*c = EvaluateProbation(*c, now)
	return *c, nil
}

// AddNote добавляет заметку в начало списка.
func AddNote(ds *models.Dataset, id, text string, now time.Time, newID IDFunc) (models.Contractor, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Contractor{}, ErrInvalidNote
	}
	c := ds.Contractor(id)
	if c == nil {
		return models.Contractor{}, fmt.Errorf("contractor %s: %w", id, ErrNotFound)
	}
	note := models.Note{ID: newID("note"), CreatedAt: now.UTC(), Text: text}
	c.Notes = append([]models.Note{note}, c.Notes...)
	return *c, nil
}

// CreatePackage проверяет запрос и добавляет открытый пакет.
func CreatePackage(ds *models.Dataset, req models.PackageRequest, now time.Time, newID IDFunc) (models.Package, error) {
	name := strings.TrimSpace(req.Name)
	trade := strings.TrimSpace(req.TradeCategory)
	region := strings.TrimSpace(req.Region)
	if name == "" || trade == "" || region == "" {
		return models.Package{}, fmt.Errorf("missing name/tradeCategory/region: %w", ErrInvalidPackage)
	}
	allocation, ok := models.ParseAllocationType(string(req.AllocationType))
	if !ok {
		return models.Package{}, fmt.Errorf("allocationType %q: %w", req.AllocationType, ErrInvalidPackage)
	}

	pkg := models.Package{
		ID:             newID("pkg"),
		CreatedAt:      now.UTC(),
		Name:           name,
		TradeCategory:  trade,
		Region:         region,
		AllocationType: allocation,
		Status:         models.PackageOpen,
	}
	ds.Packages = append(ds.Packages, pkg)
	return pkg, nil
}
