package survey

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu    sync.Mutex
	saves []*domain.FormData
}

func (p *recordingPersister) Save(_ context.Context, fd *domain.FormData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, fd)
}

func (p *recordingPersister) last() *domain.FormData {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

func TestSession_SuccessiveUpdatesMerge(t *testing.T) {
	p := &recordingPersister{}
	s := NewSession(nil, p)
	ctx := context.Background()

	s.Update(ctx, func(fd *domain.FormData) { fd.Gender = domain.Str("female") })
	s.Update(ctx, func(fd *domain.FormData) { fd.Goal = domain.Str("lose_weight") })

	saved := p.last()
	require.NotNil(t, saved)
	assert.Equal(t, "female", *saved.Gender)
	assert.Equal(t, "lose_weight", *saved.Goal)
	assert.Len(t, p.saves, 2)
}

func TestSession_ConcurrentUpdatesAreNotLost(t *testing.T) {
	s := NewSession(nil, &recordingPersister{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, area := range []string{"belly", "arms", "chest", "back", "legs", "glutes"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(ctx, func(fd *domain.FormData) {
				fd.ProblemAreas = append(fd.ProblemAreas, area)
			})
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"belly", "arms", "chest", "back", "legs", "glutes"}, s.Snapshot().ProblemAreas)
}

func TestSession_PersistedSnapshotIsDetached(t *testing.T) {
	p := &recordingPersister{}
	s := NewSession(nil, p)
	ctx := context.Background()

	s.Update(ctx, func(fd *domain.FormData) { fd.Allergies = []string{"nuts"} })
	s.Update(ctx, func(fd *domain.FormData) { fd.Allergies[0] = "eggs" })

	assert.Equal(t, []string{"nuts"}, p.saves[0].Allergies)
	assert.Equal(t, []string{"eggs"}, p.saves[1].Allergies)
}

func TestSession_InitialDataIsCopied(t *testing.T) {
	initial := testutil.NewTestFormData()
	s := NewSession(initial, nil)

	initial.PersonalInfo.Name = "Changed"

	assert.Equal(t, "Maria", s.Snapshot().PersonalInfo.Name)
}

func TestSession_ReplaceResetsToDefaults(t *testing.T) {
	p := &recordingPersister{}
	s := NewSession(testutil.NewTestFormData(), p)

	s.Replace(context.Background(), nil)

	if diff := cmp.Diff(domain.NewFormData(), s.Snapshot()); diff != "" {
		t.Errorf("after reset (-want +got):\n%s", diff)
	}
	require.Len(t, p.saves, 1)
}
