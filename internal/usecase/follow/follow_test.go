package follow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/follow"
)

type mockGraph struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMockGraph(users ...*entity.User) *mockGraph {
	g := &mockGraph{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		g.users[u.ID] = u
	}
	return g
}

func clone(u *entity.User) *entity.User {
	cp := *u
	cp.Followers = append([]uuid.UUID(nil), u.Followers...)
	cp.Following = append([]uuid.UUID(nil), u.Following...)
	return &cp
}

func (g *mockGraph) UpdatePair(ctx context.Context, actorID, targetID uuid.UUID, fn func(actor, target *entity.User) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.users[actorID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	t, ok := g.users[targetID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	actor, target := clone(a), clone(t)
	if err := fn(actor, target); err != nil {
		return err
	}
	a.Following, t.Followers = actor.Following, target.Followers
	return nil
}

func (g *mockGraph) Profiles(ctx context.Context, ids []uuid.UUID) ([]entity.FollowProfile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entity.FollowProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := g.users[id]; ok {
			out = append(out, entity.FollowProfile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
		}
	}
	return out, nil
}

func (g *mockGraph) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return clone(u), nil
}

func (g *mockGraph) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	return nil, nil
}

// assertSymmetric проверяет A ∈ B.followers ⇔ B ∈ A.following для всех пар.
func assertSymmetric(t *testing.T, g *mockGraph) {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, a := range g.users {
		for _, b := range g.users {
			if a.ID == b.ID {
				continue
			}
			assert.Equal(t, b.IsFollowedBy(a.ID), contains(a.Following, b.ID), "%s -> %s", a.Name, b.Name)
		}
	}
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func newUser(name string) *entity.User {
	return &entity.User{ID: uuid.New(), Name: name, Email: name + "@example.com", Role: "learner"}
}

func TestToggleFollow_FollowThenUnfollow(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")
	g := newMockGraph(alice, bob)
	uc := follow.NewToggleFollowUseCase(g)
	ctx := context.Background()

	res, err := uc.Execute(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, res.Following)
	require.Len(t, res.Followers, 1)
	assert.Equal(t, alice.ID, res.Followers[0].ID)
	require.Len(t, res.ActorFollowing, 1)
	assert.Equal(t, bob.ID, res.ActorFollowing[0].ID)
	assert.Equal(t, "bob@example.com", res.ActorFollowing[0].Email)
	assertSymmetric(t, g)

	res, err = uc.Execute(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, res.Following)
	assert.Empty(t, res.Followers)
	assert.Empty(t, res.ActorFollowing)
	assertSymmetric(t, g)
}

func TestToggleFollow_Errors(t *testing.T) {
	alice := newUser("alice")
	g := newMockGraph(alice)
	uc := follow.NewToggleFollowUseCase(g)

	_, err := uc.Execute(context.Background(), alice.ID, alice.ID)
	assert.Equal(t, apperror.ErrCodeInvalidArgument, apperror.CodeOf(err))

	_, err = uc.Execute(context.Background(), alice.ID, uuid.New())
	assert.True(t, apperror.IsNotFound(err))

	_, err = uc.Execute(context.Background(), uuid.New(), alice.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestToggleFollow_ConcurrentStaysSymmetric(t *testing.T) {
	users := []*entity.User{newUser("a"), newUser("b"), newUser("c"), newUser("d")}
	g := newMockGraph(users...)
	uc := follow.NewToggleFollowUseCase(g)

	var wg sync.WaitGroup
	for round := 0; round < 5; round++ {
		for _, a := range users {
			for _, b := range users {
				if a.ID == b.ID {
					continue
				}
				wg.Add(1)
				go func(actor, target uuid.UUID) {
					defer wg.Done()
					_, err := uc.Execute(context.Background(), actor, target)
					assert.NoError(t, err)
				}(a.ID, b.ID)
			}
		}
	}
	wg.Wait()

	assertSymmetric(t, g)
	// нечётное число переключений каждой пары: все подписаны на всех
	for _, u := range users {
		assert.Len(t, u.Followers, len(users)-1)
		assert.Len(t, u.Following, len(users)-1)
	}
}

func TestToggle_NoDuplicates(t *testing.T) {
	a, b := newUser("a"), newUser("b")
	// рассинхронизированное состояние: a уже в following, но не в followers
	a.Following = []uuid.UUID{b.ID}

	assert.True(t, follow.Toggle(a, b))
	assert.Equal(t, []uuid.UUID{b.ID}, a.Following)
	assert.Equal(t, []uuid.UUID{a.ID}, b.Followers)
}

func TestListFollows(t *testing.T) {
	alice, bob, carol := newUser("alice"), newUser("bob"), newUser("carol")
	g := newMockGraph(alice, bob, carol)
	toggle := follow.NewToggleFollowUseCase(g)
	list := follow.NewListFollowsUseCase(g, g)
	ctx := context.Background()

	_, err := toggle.Execute(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = toggle.Execute(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	followers, err := list.Followers(ctx, carol.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)
	assert.Equal(t, alice.ID, followers[0].ID)

	following, err := list.Following(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Name)

	_, err = list.Followers(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
