package engine_test

import (
	"math"
	"testing"

	"contractors/internal/engine"
	"contractors/models"

	"github.com/stretchr/testify/require"
)

func strongApplication() models.Application {
	return models.Application{
		ApplicantName:     "Jane Roe",
		CompanyName:       "Roe Electric",
		TradeCategory:     "Electrical",
		YearsOfExperience: 12,
		WorkforceSize:     "11–20",
		RegionsCovered:    []string{"North"},
		COIProvided:       true,
		W9Provided:        true,
		OSHAConfirmed:     true,
		WorkAuthorized:    true,
		LicenseVerified:   true,
	}
}

func TestComputeApprovalScore_StrongApplicant(t *testing.T) {
	res := engine.ComputeApprovalScore(strongApplication())

	require.Equal(t, models.ApprovalBreakdown{
		ComplianceScore:      25,
		ExperienceScore:      25,
		CapacityScore:        17,
		ProfessionalismScore: 15,
		FinancialScore:       12,
	}, res.Breakdown)
	require.Equal(t, 94, res.Total)
	require.Equal(t, models.Tier1, res.TierLevel)
	require.Equal(t, models.Approved, res.Decision)
}

func TestComputeApprovalScore_EmptyApplication(t *testing.T) {
	res := engine.ComputeApprovalScore(models.Application{})

	require.Equal(t, 0, res.Breakdown.ComplianceScore)
	require.Equal(t, 5, res.Breakdown.ExperienceScore)
	require.Equal(t, 9, res.Breakdown.CapacityScore)
	require.Equal(t, 5, res.Breakdown.ProfessionalismScore)
	require.Equal(t, 5, res.Breakdown.FinancialScore)
	require.Equal(t, 24, res.Total)
	require.Equal(t, models.Reject, res.TierLevel)
	require.Equal(t, models.Rejected, res.Decision)
}

func TestComputeApprovalScore_TotalIsSumOfParts(t *testing.T) {
	apps := []models.Application{
		{YearsOfExperience: 3, WorkforceSize: "2-5", W9Provided: true},
		{YearsOfExperience: 8, WorkforceSize: "6-10", COIProvided: true, OSHAConfirmed: true},
		{YearsOfExperience: 1, WorkforceSize: "Self-employed", WorkAuthorized: true},
		{YearsOfExperience: math.NaN(), WorkforceSize: "20+"},
		{YearsOfExperience: -4, LicenseVerified: true},
	}
	for _, app := range apps {
		res := engine.ComputeApprovalScore(app)
		b := res.Breakdown
		require.Equal(t, b.ComplianceScore+b.ExperienceScore+b.CapacityScore+b.ProfessionalismScore+b.FinancialScore, res.Total)
		require.GreaterOrEqual(t, res.Total, 0)
		require.LessOrEqual(t, res.Total, 100)
	}
}

func TestComputeApprovalScore_CapacityBuckets(t *testing.T) {
	cases := map[string]int{
		"20+":           20,
		"11–20":         17,
		"6-10":          14,
		"2-5":           11,
		"Self-employed": 9,
		"":              9,
	}
	for workforce, want := range cases {
		res := engine.ComputeApprovalScore(models.Application{WorkforceSize: workforce})
		require.Equal(t, want, res.Breakdown.CapacityScore, workforce)
	}
}

func TestTierFromApprovalScore_Boundaries(t *testing.T) {
	cases := []struct {
		score    int
		tier     models.Tier
		decision models.Decision
	}{
		{100, models.Tier1, models.Approved},
		{85, models.Tier1, models.Approved},
		{84, models.Tier2, models.Approved},
		{70, models.Tier2, models.Approved},
		{69, models.Conditional, models.ConditionalDecision},
		{60, models.Conditional, models.ConditionalDecision},
		{59, models.Reject, models.Rejected},
		{0, models.Reject, models.Rejected},
	}
	for _, tc := range cases {
		tier, decision := engine.TierFromApprovalScore(tc.score)
		require.Equal(t, tc.tier, tier, tc.score)
		require.Equal(t, tc.decision, decision, tc.score)
	}
}

func TestComputeProjectRating_ClampsParts(t *testing.T) {
	res := engine.ComputeProjectRating(models.RatingParts{
		Quality:            45,
		Timeliness:         -3,
		Communication:      15,
		Compliance:         math.Inf(1),
		ClientSatisfaction: 12.5,
	})

	require.Equal(t, 30.0, res.Parts.Quality)
	require.Equal(t, 0.0, res.Parts.Timeliness)
	require.Equal(t, 15.0, res.Parts.Communication)
	require.Equal(t, 0.0, res.Parts.Compliance)
	require.Equal(t, 12.5, res.Parts.ClientSatisfaction)
	require.InDelta(t, 57.5, res.Total, 1e-9)
}

func TestComputeReliabilityIndex(t *testing.T) {
	require.InDelta(t, 86.0, engine.ComputeReliabilityIndex(engine.ReliabilityInput{
		PerformanceAvg: 80, ResponseRate: 1, ComplianceOK: true,
	}), 1e-9)
	require.InDelta(t, 10.0, engine.ComputeReliabilityIndex(engine.ReliabilityInput{
		PerformanceAvg: 0, ResponseRate: 0.5, ComplianceOK: false,
	}), 1e-9)
	require.InDelta(t, 100.0, engine.ComputeReliabilityIndex(engine.ReliabilityInput{
		PerformanceAvg: 140, ResponseRate: 3, ComplianceOK: true,
	}), 1e-9)
}

func TestPerformanceTierFromAverage(t *testing.T) {
	require.Equal(t, models.PriorityAllocation, engine.PerformanceTierFromAverage(90))
	require.Equal(t, models.StandardAllocation, engine.PerformanceTierFromAverage(89))
	require.Equal(t, models.StandardAllocation, engine.PerformanceTierFromAverage(80))
	require.Equal(t, models.LimitedAllocation, engine.PerformanceTierFromAverage(79))
	require.Equal(t, models.LimitedAllocation, engine.PerformanceTierFromAverage(70))
	require.Equal(t, models.FlagForReview, engine.PerformanceTierFromAverage(69))
}
