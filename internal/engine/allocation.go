package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"contractors/models"
)

const (
	OfferWindow = 36 * time.Hour

	ModeTop3 = "top3"
	ModeAuto = "auto"
)

// ParseMode разбирает способ отправки предложений; пустое значение даёт top3.
func ParseMode(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "":
		return ModeTop3, nil
	case ModeTop3, ModeAuto:
		return m, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidMode)
}

// IDFunc выдаёт новый идентификатор с префиксом сущности.
type IDFunc func(prefix string) string

type AllocationScore struct {
	Eligible         bool
	Score            float64
	ReliabilityIndex *float64
}

// Ranked: подрядчик вместе с его оценкой по пакету.
type Ranked struct {
	Contractor *models.Contractor
	AllocationScore
}

func (r Ranked) key() float64 {
	if r.ReliabilityIndex != nil {
		return *r.ReliabilityIndex
	}
	return r.Score
}

func (r Ranked) Row() models.RankedContractor {
	return models.RankedContractor{
		ContractorID:     r.Contractor.ID,
		ContractorName:   r.Contractor.ContractorName,
		TierLevel:        r.Contractor.TierLevel,
		Status:           r.Contractor.Status,
		Score:            r.Score,
		ReliabilityIndex: r.ReliabilityIndex,
		Eligible:         r.Eligible,
	}
}

func tierWeight(t models.Tier) float64 {
	switch t {
	case models.Tier1:
		return 100
	case models.Tier2:
		return 80
	case models.Conditional:
		return 60
	}
	return 0
}

func availabilityScore(a models.Availability) float64 {
	switch a {
	case models.Available:
		return 100
	case models.Limited:
		return 60
	}
	return 30
}

func availabilityRank(a models.Availability) int {
	switch a {
	case models.Available:
		return 2
	case models.Limited:
		return 1
	}
	return 0
}

// ComplianceGate: W-9 и OSHA подтверждены, страховка не истекла.
func ComplianceGate(c models.Contractor, now time.Time) bool {
	return c.Compliance.W9Submitted && c.Compliance.OSHAConfirmed && !IsExpired(c.Compliance.InsuranceExpiryDate, now)
}

// ScoreAllocation проверяет допуск (вид работ и регион) и считает балл распределения.
func ScoreAllocation(c models.Contractor, tradeCategory, region string, now time.Time) AllocationScore {
	if c.TradeCategory != tradeCategory || !c.CoversRegion(region) {
		return AllocationScore{}
	}

	performance := clamp(float64(c.Performance.AverageScore), 0, 100)
	responseRate := clamp(c.ResponseHistory.ResponseRate, 0, 1)
	complianceOK := ComplianceGate(c, now)
	compliance := 40.0
	if complianceOK {
		compliance = 100
	}

	score := performance*0.4 +
		tierWeight(c.TierLevel)*0.2 +
		responseRate*100*0.15 +
		availabilityScore(c.Availability)*0.15 +
		compliance*0.1

	ri := ComputeReliabilityIndex(ReliabilityInput{
		PerformanceAvg: performance,
		ResponseRate:   responseRate,
		ComplianceOK:   complianceOK,
	})

	return AllocationScore{Eligible: true, Score: score, ReliabilityIndex: &ri}
}

// Rank отбирает допущенных подрядчиков и сортирует по индексу надёжности по убыванию.
// Указатели ссылаются на элементы переданного среза.
func Rank(contractors []models.Contractor, pkg models.Package, now time.Time) []Ranked {
	ranked := []Ranked{}
	for i := range contractors {
		s := ScoreAllocation(contractors[i], pkg.TradeCategory, pkg.Region, now)
		if !s.Eligible {
			continue
		}
		ranked = append(ranked, Ranked{Contractor: &contractors[i], AllocationScore: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].key() > ranked[j].key()
	})
	return ranked
}

// SelectForOffer выбирает, кому отправить предложение, в зависимости от способа распределения.
func SelectForOffer(ranked []Ranked, pkg models.Package, mode string) []Ranked {
	pool := ranked
	if pkg.AllocationType == models.DirectAward {
		pool = make([]Ranked, 0, len(ranked))
		for _, r := range ranked {
			if r.Contractor.TierLevel == models.Tier1 {
				pool = append(pool, r)
			}
		}
	}

	limit := 3
	switch {
	case pkg.AllocationType == models.EmergencyDispatch:
		pool = append([]Ranked(nil), pool...)
		sort.SliceStable(pool, func(i, j int) bool {
			ai, aj := availabilityRank(pool[i].Contractor.Availability), availabilityRank(pool[j].Contractor.Availability)
			if ai != aj {
				return ai > aj
			}
			return pool[i].Contractor.Performance.AverageScore > pool[j].Contractor.Performance.AverageScore
		})
		limit = 1
	case mode == ModeAuto:
		limit = 1
	case pkg.AllocationType == models.CompetitiveBid:
		limit = 5
	}

	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

// SendOffers ранжирует подрядчиков по пакету и создаёт предложения выбранным.
// Возвращает только предложения, созданные этим вызовом.
func SendOffers(ds *models.Dataset, packageID, mode string, now time.Time, newID IDFunc) ([]models.Offer, error) {
	pkg := ds.Package(packageID)
	if pkg == nil {
		return nil, fmt.Errorf("package %s: %w", packageID, ErrNotFound)
	}

	selected := SelectForOffer(Rank(ds.Contractors, *pkg, now), *pkg, mode)
	sentAt := now.UTC()
	created := make([]models.Offer, 0, len(selected))
	for _, r := range selected {
		offer := models.Offer{
			ID:           newID("offer"),
			PackageID:    pkg.ID,
			ContractorID: r.Contractor.ID,
			SentAt:       sentAt,
			ExpiresAt:    sentAt.Add(OfferWindow),
			Status:       models.OfferSent,
		}
		ds.Offers = append(ds.Offers, offer)
		created = append(created, offer)

		c := r.Contractor
		c.ResponseHistory.OffersSent++
		RecomputeResponseRate(&c.ResponseHistory)
		*c = EvaluateProbation(*c, now)
	}
	return created, nil
}
