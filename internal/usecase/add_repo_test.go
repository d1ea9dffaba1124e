package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/domain"
)

func addRepoEnv(t *testing.T) (*testEnv, *AddRepo) {
	t.Helper()
	env := newTestEnv(t)
	task, err := env.store.CreateTask("repos", "", "", "")
	require.NoError(t, err)
	require.NoError(t, env.store.SetCurrentTaskID(task.ID))
	return env, NewAddRepo(env.store, env.git)
}

func TestAddRepo_PinsForkPointAtRegistration(t *testing.T) {
	env, uc := addRepoEnv(t)
	env.git.Heads["/srv/api"] = "develop"
	env.git.Hashes["/srv/api\x00HEAD"] = "deadbeef1234"

	out, err := uc.Execute(context.Background(), AddRepoInput{Path: "/srv/api"})
	require.NoError(t, err)

	// Without --base or --commit the current branch and HEAD hash are
	// recorded, so a later sync forks from here even if HEAD moves.
	assert.Equal(t, "develop", out.Repo.BaseBranch)
	assert.Equal(t, "deadbeef1234", out.Repo.BaseCommit)
}

func TestAddRepo_ExplicitBaseBranch(t *testing.T) {
	env, uc := addRepoEnv(t)
	env.git.Branches["/srv/api\x00release"] = true
	env.git.Hashes["/srv/api\x00HEAD"] = "cafe0123"

	out, err := uc.Execute(context.Background(), AddRepoInput{Path: "/srv/api", BaseBranch: "release"})
	require.NoError(t, err)
	assert.Equal(t, "release", out.Repo.BaseBranch)
	assert.Equal(t, "cafe0123", out.Repo.BaseCommit)
}

func TestAddRepo_MissingBaseBranch(t *testing.T) {
	_, uc := addRepoEnv(t)

	_, err := uc.Execute(context.Background(), AddRepoInput{Path: "/srv/api", BaseBranch: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestAddRepo_NormalizesExplicitCommit(t *testing.T) {
	env, uc := addRepoEnv(t)
	env.git.Hashes["/srv/api\x00abc"] = "abc9876543210fedcba"

	out, err := uc.Execute(context.Background(), AddRepoInput{Path: "/srv/api", BaseCommit: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc9876543210fedcba", out.Repo.BaseCommit)
}

func TestAddRepo_NotARepository(t *testing.T) {
	env, uc := addRepoEnv(t)
	env.git.Repos["/srv/api"] = false

	_, err := uc.Execute(context.Background(), AddRepoInput{Path: "/srv/api"})
	assert.ErrorIs(t, err, domain.ErrNotARepository)
}
