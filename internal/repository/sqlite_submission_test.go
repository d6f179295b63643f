package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRepo_CreateAssignsID(t *testing.T) {
	repo := NewSQLiteSubmissionRepo(testutil.NewTestDB(t))

	sub := &domain.Submission{Kind: domain.SubmissionProfile, Status: domain.SubmissionOK}
	require.NoError(t, repo.Create(context.Background(), sub))

	assert.NotEmpty(t, sub.ID)
}

func TestSubmissionRepo_ListNewestFirst(t *testing.T) {
	repo := NewSQLiteSubmissionRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	old := testutil.NewTestSubmission(domain.SubmissionProfile, testutil.WithSubmissionTime(base))
	mid := testutil.NewTestSubmission(domain.SubmissionWebhook,
		testutil.WithSubmissionTime(base.Add(time.Minute)),
		testutil.WithSubmissionStatus(domain.SubmissionFailed))
	mid.Detail = "webhook returned 502"
	recent := testutil.NewTestSubmission(domain.SubmissionPlan, testutil.WithSubmissionTime(base.Add(time.Hour)))
	recent.Plan = domain.PlanMeal

	for _, s := range []*domain.Submission{mid, old, recent} {
		require.NoError(t, repo.Create(ctx, s))
	}

	got, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, recent.ID, got[0].ID)
	assert.Equal(t, domain.PlanMeal, got[0].Plan)
	assert.Equal(t, mid.ID, got[1].ID)
	assert.Equal(t, "webhook returned 502", got[1].Detail)
	assert.Equal(t, domain.SubmissionFailed, got[1].Status)
	assert.Equal(t, old.ID, got[2].ID)
	assert.True(t, got[2].CreatedAt.Equal(base))

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSubmissionRepo_CountByStatus(t *testing.T) {
	repo := NewSQLiteSubmissionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSubmission(domain.SubmissionProfile)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSubmission(domain.SubmissionWebhook)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSubmission(domain.SubmissionProfile,
		testutil.WithSubmissionStatus(domain.SubmissionSkipped))))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.SubmissionStatus]int{
		domain.SubmissionOK:      2,
		domain.SubmissionSkipped: 1,
	}, counts)
}
