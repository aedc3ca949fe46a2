package service

import (
	"context"
	"fmt"
	"testing"

	"maskoff-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntroductionRepo struct {
	intros []*models.Introduction
}

func (f *fakeIntroductionRepo) Create(_ context.Context, intro *models.Introduction) error {
	// Prepend so the slice stays newest-first like the real query.
	f.intros = append([]*models.Introduction{intro}, f.intros...)
	return nil
}

func (f *fakeIntroductionRepo) ListRecent(_ context.Context, limit int) ([]models.Introduction, error) {
	if len(f.intros) > limit {
		f.intros = f.intros[:limit]
	}
	out := make([]models.Introduction, 0, len(f.intros))
	for _, i := range f.intros {
		out = append(out, *i)
	}
	return out, nil
}

func introductionFixture(t *testing.T) IntroductionService {
	t.Helper()
	users := newFakeUserRepo()
	users.users["u1"] = &models.User{ID: "u1", Username: "alice"}
	users.profiles["u1"] = &models.Profile{UserID: "u1", MaskID: "mask-owl"}
	return NewIntroductionService(&fakeIntroductionRepo{}, users, nil)
}

func TestCreateIntroductionAuthoredUnderUsername(t *testing.T) {
	svc := introductionFixture(t)

	intro, err := svc.Create(context.Background(), "u1", "hi, I build things")
	require.NoError(t, err)

	assert.NotEmpty(t, intro.ID)
	assert.Equal(t, "alice", intro.Author, "introductions never use the mask")
	assert.Equal(t, "hi, I build things", intro.Content)

	_, err = svc.Create(context.Background(), "ghost", "who am I")
	assert.Error(t, err)
}

func TestListRecentIntroductionsCapped(t *testing.T) {
	svc := introductionFixture(t)

	for i := 0; i < introductionFeedLimit+10; i++ {
		_, err := svc.Create(context.Background(), "u1", fmt.Sprintf("intro %d", i))
		require.NoError(t, err)
	}

	intros, err := svc.ListRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, intros, introductionFeedLimit)

	// Newest first.
	assert.Equal(t, fmt.Sprintf("intro %d", introductionFeedLimit+9), intros[0].Content)
}
