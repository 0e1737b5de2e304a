package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dev-kunalpandey/tudu/api/cache"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	"github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/test/mock"
)

func TestMain(m *testing.M) {
	logging.Log = zap.NewNop()
	m.Run()
}

func newTestChecker(store Store) (*Checker, *cache.Cache) {
	c := cache.New()
	return NewChecker(store, c, 5*time.Minute, time.Minute), c
}

func intPtr(v int) *int { return &v }

func ownedTodo() *model.Todo {
	return &model.Todo{ID: 7, Text: "write report", UserID: 1, Version: 1}
}

func TestAuthorizeOwnerUpdate(t *testing.T) {
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(ownedTodo(), nil)
	checker, _ := newTestChecker(store)

	actor := Actor{ID: 1, Role: model.RoleUser}
	subject, err := checker.Authorize(context.Background(), actor, ActionUpdate, ResourceTodo, 7, intPtr(1))

	require.NoError(t, err)
	require.Equal(t, SubjectTodo, subject.Kind)
	assert.Equal(t, 7, subject.Todo.ID)
	assert.Equal(t, 1, subject.Todo.Version)
	store.AssertExpectations(t)
}

func TestAuthorizeNonOwnerDenied(t *testing.T) {
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(ownedTodo(), nil)
	checker, _ := newTestChecker(store)

	actor := Actor{ID: 2, Role: model.RoleUser}
	_, err := checker.Authorize(context.Background(), actor, ActionDelete, ResourceTodo, 7, nil)

	assert.ErrorIs(t, err, echo_errors.ErrForbidden)
}

func TestAuthorizeAdminBypassesOwnership(t *testing.T) {
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(ownedTodo(), nil)
	checker, _ := newTestChecker(store)

	admin := Actor{ID: 99, Role: model.RoleAdmin}
	subject, err := checker.Authorize(context.Background(), admin, ActionDelete, ResourceTodo, 7, nil)

	require.NoError(t, err)
	assert.Equal(t, SubjectTodo, subject.Kind)
}

func TestAuthorizeVersionConflict(t *testing.T) {
	stale := ownedTodo()
	stale.Version = 2
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(stale, nil)
	checker, _ := newTestChecker(store)

	actor := Actor{ID: 1, Role: model.RoleUser}
	_, err := checker.Authorize(context.Background(), actor, ActionUpdate, ResourceTodo, 7, intPtr(1))

	var conflict *VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 2, conflict.Current)
	assert.Equal(t, 1, conflict.Supplied)
}

func TestAuthorizeGuardRunsBeforePolicy(t *testing.T) {
	// A stale write must fail on the version check even when the actor
	// would also be denied by policy.
	stale := ownedTodo()
	stale.Version = 3
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(stale, nil)
	checker, _ := newTestChecker(store)

	other := Actor{ID: 2, Role: model.RoleUser}
	_, err := checker.Authorize(context.Background(), other, ActionUpdate, ResourceTodo, 7, intPtr(1))

	var conflict *VersionConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestAuthorizeNotFound(t *testing.T) {
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 999).Return(nil, echo_errors.ErrTodoNotFound)
	checker, _ := newTestChecker(store)

	actor := Actor{ID: 1, Role: model.RoleUser}
	_, err := checker.Authorize(context.Background(), actor, ActionUpdate, ResourceTodo, 999, intPtr(1))

	assert.ErrorIs(t, err, echo_errors.ErrTodoNotFound)
}

func TestAuthorizeCreateReturnsActor(t *testing.T) {
	store := new(mock.MockStore)
	checker, _ := newTestChecker(store)

	actor := Actor{ID: 1, Role: model.RoleUser}
	subject, err := checker.Authorize(context.Background(), actor, ActionCreate, ResourceTodo, 0, nil)

	require.NoError(t, err)
	assert.Equal(t, SubjectActor, subject.Kind)
	assert.Equal(t, actor, subject.Actor)
	store.AssertNotCalled(t, "FetchTodo")
}

func TestAuthorizeUserSelfRead(t *testing.T) {
	self := &model.User{ID: 3, Email: "a@b.c", Role: model.RoleUser}
	store := new(mock.MockStore)
	store.On("FetchUser", context.Background(), 3).Return(self, nil)
	checker, _ := newTestChecker(store)

	actor := Actor{ID: 3, Role: model.RoleUser}
	subject, err := checker.Authorize(context.Background(), actor, ActionRead, ResourceUser, 3, nil)

	require.NoError(t, err)
	require.Equal(t, SubjectUser, subject.Kind)
	assert.Equal(t, 3, subject.User.ID)
}

func TestAuthorizeWarmsCaches(t *testing.T) {
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(ownedTodo(), nil)
	checker, c := newTestChecker(store)

	actor := Actor{ID: 1, Role: model.RoleUser}
	_, err := checker.Authorize(context.Background(), actor, ActionRead, ResourceTodo, 7, nil)
	require.NoError(t, err)

	ctxVal, ok := c.Get(cache.UserPolicyContextKey(1))
	require.True(t, ok)
	assert.Equal(t, ActorContext{ID: 1, Role: model.RoleUser}, ctxVal)

	metaVal, ok := c.Get(cache.TodoMetaKey(7))
	require.True(t, ok)
	assert.Equal(t, ResourceMeta{OwnerID: 1, Version: 1}, metaVal)
}

func TestAuthorizeGuardReadsStoreNotCache(t *testing.T) {
	// Seed the meta cache with an outdated version; the guard must
	// still compare against the freshly fetched row.
	current := ownedTodo()
	current.Version = 5
	store := new(mock.MockStore)
	store.On("FetchTodo", context.Background(), 7).Return(current, nil)
	checker, c := newTestChecker(store)

	c.Set(cache.TodoMetaKey(7), ResourceMeta{OwnerID: 1, Version: 4}, time.Minute)

	actor := Actor{ID: 1, Role: model.RoleUser}
	_, err := checker.Authorize(context.Background(), actor, ActionUpdate, ResourceTodo, 7, intPtr(4))

	var conflict *VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 5, conflict.Current)
}
