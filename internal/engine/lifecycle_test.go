package engine_test

import (
	"testing"

	"contractors/internal/engine"
	"contractors/models"

	"github.com/stretchr/testify/require"
)

func rating(total float64) models.RatingParts {
	// 30/20/15/15/20 в пропорции к total
	return models.RatingParts{
		Quality:            total * 0.3,
		Timeliness:         total * 0.2,
		Communication:      total * 0.15,
		Compliance:         total * 0.15,
		ClientSatisfaction: total * 0.2,
	}
}

func TestNewContractorFromApplication(t *testing.T) {
	app := strongApplication()
	app.ApplicationID = "app_1"
	app.RegionsCovered = []string{" North ", "north", "", "East"}
	app.Uploads = []models.Document{{Field: "coiFile", Filename: "coi.pdf", Link: "/uploads/coi.pdf"}}

	c := engine.NewContractorFromApplication(app, "ctr_1", now)

	require.Equal(t, "ctr_1", c.ID)
	require.Equal(t, "Jane Roe", c.ContractorName)
	require.Equal(t, models.Tier1, c.TierLevel)
	require.Equal(t, 94, c.ApprovalScore)
	require.Equal(t, models.StatusActive, c.Status)
	require.Equal(t, []string{"North", "East"}, c.RegionsCovered)
	require.Equal(t, models.StandardAllocation, c.Performance.Tier)
	require.Equal(t, 1.0, c.ResponseHistory.ResponseRate)
	require.Equal(t, models.Available, c.Availability)
	require.Equal(t, now, c.Compliance.LastVerifiedAt)
	require.Len(t, c.Documents, 1)
	require.Nil(t, c.Probation)
	require.Equal(t, "app_1", c.ApplicationID)
}

func TestNewContractorFromApplication_RejectedIsSuspended(t *testing.T) {
	c := engine.NewContractorFromApplication(models.Application{CompanyName: "Nobody LLC"}, "ctr_2", now)

	require.Equal(t, models.Reject, c.TierLevel)
	require.Equal(t, models.StatusSuspended, c.Status)
	require.Equal(t, "Nobody LLC", c.ContractorName)
}

func TestNewContractorFromApplication_ExpiredInsuranceStartsProbation(t *testing.T) {
	app := strongApplication()
	app.InsuranceExpiryDate = "2025-06-01"

	c := engine.NewContractorFromApplication(app, "ctr_3", now)

	require.Equal(t, models.StatusProbation, c.Status)
	require.NotNil(t, c.Probation)
}

func TestCompleteProject_LowScoresLeadToProbation(t *testing.T) {
	ds := dataset(engine.NewContractorFromApplication(strongApplication(), "ctr_1", now))
	ids := sequentialIDs()

	c, r, err := engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "ctr_1", ProjectName: "Panel swap", Rating: rating(60)}, now, ids)
	require.NoError(t, err)
	require.InDelta(t, 60.0, r.Total, 1e-9)
	require.Equal(t, models.StatusActive, c.Status)

	c, _, err = engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "ctr_1", ProjectName: "Rewire", Rating: rating(60)}, now, ids)
	require.NoError(t, err)

	require.Equal(t, 60, c.Performance.AverageScore)
	require.Equal(t, 2, c.Performance.ProjectsCompleted)
	require.Equal(t, models.FlagForReview, c.Performance.Tier)
	require.Equal(t, models.StatusProbation, c.Status)
	require.NotNil(t, c.Probation)
	require.Len(t, ds.ProjectsForContractor("ctr_1"), 2)
	require.Equal(t, models.ProjectCompleted, ds.Projects[1].Status)
}

func TestCompleteProject_ResetsProbationButNotSuspension(t *testing.T) {
	ok := contractor("ok", models.Tier1, 90)
	ok.Status = models.StatusProbation
	suspended := contractor("sus", models.Tier1, 90)
	suspended.Status = models.SuspendedFor("paperwork")
	ds := dataset(ok, suspended)

	c, _, err := engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "ok", ProjectName: "A", Rating: rating(95)}, now, sequentialIDs())
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, c.Status)

	c, _, err = engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "sus", ProjectName: "B", Rating: rating(95)}, now, sequentialIDs())
	require.NoError(t, err)
	require.Equal(t, models.SuspendedFor("paperwork"), c.Status)
}

func TestCompleteProject_KeepsTenRecentScores(t *testing.T) {
	ds := dataset(contractor("c1", models.Tier1, 0))
	ids := sequentialIDs()

	for i := 0; i < 12; i++ {
		_, _, err := engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "c1", ProjectName: "job", Rating: rating(float64(80 + i))}, now, ids)
		require.NoError(t, err)
	}

	p := ds.Contractor("c1").Performance
	require.Len(t, p.RecentProjectScores, engine.MaxRecentScores)
	require.InDelta(t, 82.0, p.RecentProjectScores[0], 1e-9)
	require.Equal(t, 12, p.ProjectsCompleted)
	require.Equal(t, 86, p.AverageScore)
}

func TestCompleteProject_Errors(t *testing.T) {
	ds := dataset(contractor("c1", models.Tier1, 90))

	_, _, err := engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "c1"}, now, sequentialIDs())
	require.ErrorIs(t, err, engine.ErrInvalidProject)

	_, _, err = engine.CompleteProject(ds, models.ProjectCompletion{ContractorID: "nope", ProjectName: "x"}, now, sequentialIDs())
	require.ErrorIs(t, err, engine.ErrNotFound)
	require.Empty(t, ds.Projects)
}

func TestPatchContractor(t *testing.T) {
	ds := dataset(contractor("c1", models.Tier2, 90))
	tier := models.Tier1
	violations := 1
	w9 := false

	c, err := engine.PatchContractor(ds, "c1", models.ContractorPatch{
		TierLevel:        &tier,
		W9Submitted:      &w9,
		SafetyViolations: &violations,
	}, now)
	require.NoError(t, err)
	require.Equal(t, models.Tier1, c.TierLevel)
	require.False(t, c.Compliance.W9Submitted)
	require.Equal(t, 1, c.Flags.SafetyViolations)
	require.Equal(t, models.StatusProbation, c.Status)

	c, err = engine.PatchContractor(ds, "c1", models.ContractorPatch{SafetyViolations: &violations}, now)
	require.NoError(t, err)
	require.Equal(t, 2, c.Flags.SafetyViolations)
}

func TestPatchContractor_ManualStatus(t *testing.T) {
	ds := dataset(contractor("c1", models.Tier1, 90))
	status := models.StatusActive
	ds.Contractors[0].Status = models.StatusProbation

	c, err := engine.PatchContractor(ds, "c1", models.ContractorPatch{Status: &status}, now)

	require.NoError(t, err)
	require.Equal(t, models.StatusActive, c.Status)
}

func TestPatchContractor_Invalid(t *testing.T) {
	ds := dataset(contractor("c1", models.Tier1, 90))
	badTier := models.Tier("Tier 9")
	badStatus := models.Status("Retired")
	badDate := "next year"
	negative := -1

	for _, p := range []models.ContractorPatch{
		{TierLevel: &badTier},
		{Status: &badStatus},
		{InsuranceExpiryDate: &badDate},
		{VerifiedComplaints: &negative},
	} {
		_, err := engine.PatchContractor(ds, "c1", p, now)
		require.ErrorIs(t, err, engine.ErrInvalidPatch)
	}

	tier := models.Tier1
	_, err := engine.PatchContractor(ds, "nope", models.ContractorPatch{TierLevel: &tier}, now)
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestAddNote_Prepends(t *testing.T) {
	ds := dataset(contractor("c1", models.Tier1, 90))
	ids := sequentialIDs()

	_, err := engine.AddNote(ds, "c1", "first", now, ids)
	require.NoError(t, err)
	c, err := engine.AddNote(ds, "c1", "  second ", now, ids)
	require.NoError(t, err)

	require.Len(t, c.Notes, 2)
	require.Equal(t, "second", c.Notes[0].Text)
	require.Equal(t, "first", c.Notes[1].Text)

	_, err = engine.AddNote(ds, "c1", "   ", now, ids)
	require.ErrorIs(t, err, engine.ErrInvalidNote)
	_, err = engine.AddNote(ds, "nope", "text", now, ids)
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestCreatePackage(t *testing.T) {
	ds := dataset()

	p, err := engine.CreatePackage(ds, models.PackageRequest{Name: "Lobby", TradeCategory: "Electrical", Region: "North"}, now, sequentialIDs())
	require.NoError(t, err)
	require.Equal(t, models.CompetitiveBid, p.AllocationType)
	require.Equal(t, models.PackageOpen, p.Status)
	require.Equal(t, "pkg_1", p.ID)
	require.Len(t, ds.Packages, 1)

	_, err = engine.CreatePackage(ds, models.PackageRequest{Name: "Lobby", TradeCategory: "Electrical"}, now, sequentialIDs())
	require.ErrorIs(t, err, engine.ErrInvalidPackage)
	_, err = engine.CreatePackage(ds, models.PackageRequest{Name: "Lobby", TradeCategory: "Electrical", Region: "North", AllocationType: "Lottery"}, now, sequentialIDs())
	require.ErrorIs(t, err, engine.ErrInvalidPackage)
	require.Len(t, ds.Packages, 1)
}
