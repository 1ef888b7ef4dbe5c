package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"contractors/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockJobs struct {
	ExpireOffersFunc         func(ctx context.Context) ([]string, error)
	SendComplianceDigestFunc func(ctx context.Context) (models.ComplianceReport, error)
}

func (m *MockJobs) ExpireOffers(ctx context.Context) ([]string, error) {
	return m.ExpireOffersFunc(ctx)
}

func (m *MockJobs) SendComplianceDigest(ctx context.Context) (models.ComplianceReport, error) {
	return m.SendComplianceDigestFunc(ctx)
}

func TestNew_RegistersJobs(t *testing.T) {
	s, err := New(Config{OfferSweep: "@every 15m", ComplianceDigest: "0 8 * * *"}, &MockJobs{}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Entries())
}

func TestNew_EmptyScheduleDisablesJob(t *testing.T) {
	s, err := New(Config{OfferSweep: "@every 1h"}, &MockJobs{}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Entries())
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(Config{OfferSweep: "every quarter hour"}, &MockJobs{}, nil)
	require.ErrorContains(t, err, "offer_sweep")

	_, err = New(Config{ComplianceDigest: "0 8 * *"}, &MockJobs{}, nil)
	require.ErrorContains(t, err, "compliance_digest")
}

func TestSweepOffers(t *testing.T) {
	calls := 0
	jobs := &MockJobs{
		ExpireOffersFunc: func(ctx context.Context) ([]string, error) {
			calls++
			_, ok := ctx.Deadline()
			require.True(t, ok)
			return []string{"offer_1"}, nil
		},
	}
	s, err := New(Config{JobTimeout: time.Second}, jobs, nil)
	require.NoError(t, err)

	s.sweepOffers()
	require.Equal(t, 1, calls)
}

func TestJobErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	jobs := &MockJobs{
		ExpireOffersFunc: func(context.Context) ([]string, error) {
			return nil, errors.New("store unavailable")
		},
		SendComplianceDigestFunc: func(context.Context) (models.ComplianceReport, error) {
			return models.ComplianceReport{}, errors.New("store unavailable")
		},
	}
	s, err := New(Config{}, jobs, zap.New(core))
	require.NoError(t, err)

	s.sweepOffers()
	s.complianceDigest()
	require.Equal(t, 1, logs.FilterMessage("offer sweep failed").Len())
	require.Equal(t, 1, logs.FilterMessage("compliance digest failed").Len())
}

func TestStartStop(t *testing.T) {
	s, err := New(Config{OfferSweep: "@every 1h"}, &MockJobs{}, nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
