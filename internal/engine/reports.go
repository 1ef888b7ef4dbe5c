package engine

import (
	"math"
	"sort"
	"time"

	"contractors/models"
)

const (
	AlertWindowDays  = 30
	ReportWindowDays = 60
	DeclineAlert     = 3
)

// Summarize собирает сводные показатели для панели администратора.
func Summarize(ds *models.Dataset, pendingApplications int, now time.Time) models.SummaryMetrics {
	m := models.SummaryMetrics{PendingApplications: pendingApplications}
	total := 0
	for _, c := range ds.Contractors {
		switch c.TierLevel {
		case models.Tier1:
			m.Tier1Count++
		case models.Tier2:
			m.Tier2Count++
		}
		if c.Status.OnProbation() {
			m.ContractorsOnProbation++
		}
		if IsExpiringWithinDays(c.Compliance.InsuranceExpiryDate, AlertWindowDays, now) {
			m.ExpiringInsuranceAlerts++
		}
		total += c.Performance.AverageScore
	}
	m.TotalApprovedContractors = m.Tier1Count + m.Tier2Count
	for _, p := range ds.Projects {
		if p.Status == models.ProjectActive {
			m.ActiveProjects++
		}
	}
	if n := len(ds.Contractors); n > 0 {
		m.AveragePerformanceScore = int(math.Round(float64(total) / float64(n)))
	}
	return m
}

// Alerts возвращает подрядчиков, у которых сработало хотя бы одно предупреждение.
func Alerts(ds *models.Dataset, now time.Time) []models.Alert {
	alerts := []models.Alert{}
	for _, c := range ds.Contractors {
		a := models.Alert{
			ContractorID:        c.ID,
			ContractorName:      c.ContractorName,
			InsuranceExpiring:   IsExpiringWithinDays(c.Compliance.InsuranceExpiryDate, AlertWindowDays, now),
			LicenseExpiring:     IsExpiringWithinDays(c.Compliance.LicenseExpiryDate, AlertWindowDays, now),
			PerformanceDropping: c.Performance.AverageScore < LowScoreThreshold,
			ThreeDeclines:       c.ResponseHistory.OffersDeclined >= DeclineAlert,
		}
		if a.InsuranceExpiring || a.LicenseExpiring || a.PerformanceDropping || a.ThreeDeclines {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

func ContractorAlerts(c models.Contractor, now time.Time) models.ContractorAlerts {
	return models.ContractorAlerts{
		InsuranceExpiring: IsExpiringWithinDays(c.Compliance.InsuranceExpiryDate, AlertWindowDays, now),
		LicenseExpiring:   IsExpiringWithinDays(c.Compliance.LicenseExpiryDate, AlertWindowDays, now),
		InsuranceExpired:  IsExpired(c.Compliance.InsuranceExpiryDate, now),
		LicenseExpired:    IsExpired(c.Compliance.LicenseExpiryDate, now),
		PerformanceLow:    c.Performance.AverageScore < LowScoreThreshold,
	}
}

// Detail собирает карточку подрядчика: запись, предупреждения и проекты.
func Detail(ds *models.Dataset, id string, now time.Time) (models.ContractorDetail, error) {
	c := ds.Contractor(id)
	if c == nil {
		return models.ContractorDetail{}, ErrNotFound
	}
	return models.ContractorDetail{
		Contractor: *c,
		Alerts:     ContractorAlerts(*c, now),
		Projects:   ds.ProjectsForContractor(id),
	}, nil
}

// ComplianceExpirationReport: страховка или лицензия истекают в ближайшие 60 дней.
func ComplianceExpirationReport(ds *models.Dataset, now time.Time) models.ComplianceReport {
	items := []models.ComplianceItem{}
	for _, c := range ds.Contractors {
		ins, lic := c.Compliance.InsuranceExpiryDate, c.Compliance.LicenseExpiryDate
		if !IsExpiringWithinDays(ins, ReportWindowDays, now) && !IsExpiringWithinDays(lic, ReportWindowDays, now) {
			continue
		}
		items = append(items, models.ComplianceItem{
			ContractorID:        c.ID,
			ContractorName:      c.ContractorName,
			InsuranceExpiryDate: ins,
			LicenseExpiryDate:   lic,
		})
	}
	return models.ComplianceReport{Type: models.ComplianceExpirationReportType, Items: items}
}

// RegionalCoverageReport считает подрядчиков по регионам, по убыванию количества.
func RegionalCoverageReport(ds *models.Dataset) models.CoverageReport {
	counts := map[string]int{}
	for _, c := range ds.Contractors {
		for _, r := range c.RegionsCovered {
			counts[r]++
		}
	}
	items := make([]models.RegionCoverage, 0, len(counts))
	for region, n := range counts {
		items = append(items, models.RegionCoverage{Region: region, ContractorCount: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ContractorCount != items[j].ContractorCount {
			return items[i].ContractorCount > items[j].ContractorCount
		}
		return items[i].Region < items[j].Region
	})
	return models.CoverageReport{Type: models.RegionalCoverageReportType, Items: items}
}
