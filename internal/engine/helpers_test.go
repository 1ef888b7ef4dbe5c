package engine_test

import (
	"fmt"
	"time"

	"contractors/internal/engine"
	"contractors/models"
)

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// sequentialIDs выдаёт предсказуемые идентификаторы: prefix_1, prefix_2, ...
func sequentialIDs() engine.IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

func contractor(id string, tier models.Tier, avg int) models.Contractor {
	return models.Contractor{
		ID:             id,
		ContractorName: "Contractor " + id,
		TradeCategory:  "Electrical",
		TierLevel:      tier,
		Status:         models.StatusActive,
		RegionsCovered: []string{"North", "East"},
		Compliance: models.Compliance{
			InsuranceExpiryDate: "2027-01-01",
			LicenseExpiryDate:   "2027-01-01",
			W9Submitted:         true,
			OSHAConfirmed:       true,
			LicenseVerified:     true,
		},
		Performance: models.Performance{
			AverageScore:        avg,
			RecentProjectScores: []float64{},
			Tier:                engine.PerformanceTierFromAverage(avg),
		},
		ResponseHistory: models.ResponseHistory{ResponseRate: 1},
		Availability:    models.Available,
		Notes:           []models.Note{},
	}
}

func dataset(contractors ...models.Contractor) *models.Dataset {
	ds := models.NewDataset(now)
	ds.Contractors = append(ds.Contractors, contractors...)
	return ds
}

func pkg(id string, allocation models.AllocationType) models.Package {
	return models.Package{
		ID:             id,
		Name:           "Package " + id,
		TradeCategory:  "Electrical",
		Region:         "North",
		AllocationType: allocation,
		Status:         models.PackageOpen,
	}
}
