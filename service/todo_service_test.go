package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dev-kunalpandey/tudu/api/audit"
	"github.com/dev-kunalpandey/tudu/api/authz"
	"github.com/dev-kunalpandey/tudu/api/cache"
	"github.com/dev-kunalpandey/tudu/api/dao"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	"github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/util"
)

func TestMain(m *testing.M) {
	logging.Log = zap.NewNop()
	viper.Set("cache.listTTL", time.Minute)
	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.issuer", "tudu-test")
	viper.Set("jwt.accessTokenExpiry", time.Hour)
	viper.Set("jwt.tempTokenExpiry", 10*time.Minute)
	viper.Set("mfa.issuer", "tudu-test")
	m.Run()
}

type fixture struct {
	db       *gorm.DB
	cache    *cache.Cache
	todos    *TodoService
	users    *UserService
	todoDAO  *dao.TodoDAO
	userDAO  *dao.UserDAO
	auditSvc audit.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Todo{}, &audit.LoginRecord{}))

	todoDAO := dao.NewTodoDAO(db)
	userDAO := dao.NewUserDAO(db)
	c := cache.New()
	checker := authz.NewChecker(dao.NewAuthzStore(todoDAO, userDAO), c, 5*time.Minute, time.Minute)
	validation := util.NewValidationUtil()
	bus := util.NewEventBus()
	auditSvc := audit.NewService(audit.NewGormRepository(db))
	notifications := util.NewNotificationService(util.NewEmailService())

	return &fixture{
		db:       db,
		cache:    c,
		todos:    NewTodoService(todoDAO, checker, c, validation, bus),
		users:    NewUserService(userDAO, checker, c, validation, notifications, auditSvc, bus),
		todoDAO:  todoDAO,
		userDAO:  userDAO,
		auditSvc: auditSvc,
	}
}

func (f *fixture) seedUser(t *testing.T, email string, role model.Role) (*model.User, authz.Actor) {
	t.Helper()
	user := &model.User{Email: email, Password: "x", Role: role}
	require.NoError(t, f.db.Create(user).Error)
	return user, authz.Actor{ID: user.ID, Role: user.Role}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func TestOwnerLifecycle(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	got, err := f.todos.GetTodo(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)

	updated, err := f.todos.UpdateTodo(ctx, alice, created.ID,
		model.TodoUpdateRequest{Done: boolPtr(true)}, intPtr(1))
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, 2, updated.Version)

	require.NoError(t, f.todos.DeleteTodo(ctx, alice, created.ID, intPtr(2)))
	_, err = f.todos.GetTodo(ctx, alice, created.ID)
	assert.ErrorIs(t, err, echo_errors.ErrTodoNotFound)
}

func TestNonOwnerIsDenied(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	_, bob := f.seedUser(t, "bob@example.com", model.RoleUser)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "private"})
	require.NoError(t, err)

	_, err = f.todos.GetTodo(ctx, bob, created.ID)
	assert.ErrorIs(t, err, echo_errors.ErrForbidden)

	_, err = f.todos.UpdateTodo(ctx, bob, created.ID,
		model.TodoUpdateRequest{Done: boolPtr(true)}, nil)
	assert.ErrorIs(t, err, echo_errors.ErrForbidden)

	err = f.todos.DeleteTodo(ctx, bob, created.ID, nil)
	assert.ErrorIs(t, err, echo_errors.ErrForbidden)

	// Untouched: still version 1 and not done.
	current, err := f.todos.GetTodo(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.False(t, current.Done)
	assert.Equal(t, 1, current.Version)
}

func TestAdminBypassesOwnership(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	_, admin := f.seedUser(t, "admin@example.com", model.RoleAdmin)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "alice's"})
	require.NoError(t, err)

	updated, err := f.todos.UpdateTodo(ctx, admin, created.ID,
		model.TodoUpdateRequest{Text: strPtr("edited by admin")}, intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, "edited by admin", updated.Text)

	require.NoError(t, f.todos.DeleteTodo(ctx, admin, created.ID, intPtr(2)))
}

func TestStaleWriteRejectedBeforePolicy(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	_, bob := f.seedUser(t, "bob@example.com", model.RoleUser)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "contended"})
	require.NoError(t, err)
	_, err = f.todos.UpdateTodo(ctx, alice, created.ID,
		model.TodoUpdateRequest{Done: boolPtr(true)}, intPtr(1))
	require.NoError(t, err)

	// Alice retries with her old version: conflict, not forbidden.
	_, err = f.todos.UpdateTodo(ctx, alice, created.ID,
		model.TodoUpdateRequest{Done: boolPtr(false)}, intPtr(1))
	var conflict *authz.VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 2, conflict.Current)
	assert.Equal(t, 1, conflict.Supplied)

	// A non-owner with a stale version also sees the conflict first:
	// the guard runs before the policy decision.
	_, err = f.todos.UpdateTodo(ctx, bob, created.ID,
		model.TodoUpdateRequest{Done: boolPtr(false)}, intPtr(1))
	require.True(t, errors.As(err, &conflict))
}

func TestUpdateWithoutIfMatchSkipsGuard(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "unguarded"})
	require.NoError(t, err)

	updated, err := f.todos.UpdateTodo(ctx, alice, created.ID,
		model.TodoUpdateRequest{Done: boolPtr(true)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version, "unguarded writes still bump the version")
}

func TestListScopesAndCaches(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	_, bob := f.seedUser(t, "bob@example.com", model.RoleUser)
	_, admin := f.seedUser(t, "admin@example.com", model.RoleAdmin)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: fmt.Sprintf("a%d", i)})
		require.NoError(t, err)
	}
	_, err := f.todos.CreateTodo(ctx, bob, model.TodoCreateRequest{Text: "b0"})
	require.NoError(t, err)

	alicePage, err := f.todos.ListTodos(ctx, alice, 0, 100)
	require.NoError(t, err)
	assert.Len(t, alicePage.Items, 3)
	assert.EqualValues(t, 3, alicePage.Total)

	adminPage, err := f.todos.ListTodos(ctx, admin, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 4, adminPage.Total)

	// Second read is served from cache.
	_, ok := f.cache.Get(cache.TodoListKey(alice.ID, 0, 100))
	assert.True(t, ok)
	again, err := f.todos.ListTodos(ctx, alice, 0, 100)
	require.NoError(t, err)
	assert.Same(t, alicePage, again)
}

func TestMutationInvalidatesListCache(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "first"})
	require.NoError(t, err)

	page, err := f.todos.ListTodos(ctx, alice, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = f.todos.UpdateTodo(ctx, alice, created.ID,
		model.TodoUpdateRequest{Text: strPtr("renamed")}, nil)
	require.NoError(t, err)

	_, ok := f.cache.Get(cache.TodoListKey(alice.ID, 0, 100))
	assert.False(t, ok, "mutations must drop cached pages")

	fresh, err := f.todos.ListTodos(ctx, alice, 0, 100)
	require.NoError(t, err)
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, "renamed", fresh.Items[0].Text)
}

func TestNestedTodoOwnership(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	_, bob := f.seedUser(t, "bob@example.com", model.RoleUser)
	ctx := context.Background()

	parent, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "parent"})
	require.NoError(t, err)

	// Bob cannot attach children to Alice's todo.
	_, err = f.todos.CreateTodo(ctx, bob, model.TodoCreateRequest{Text: "intruder", ParentID: &parent.ID})
	assert.ErrorIs(t, err, echo_errors.ErrForbidden)

	child, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "child", ParentID: &parent.ID})
	require.NoError(t, err)

	got, err := f.todos.GetTodo(ctx, alice, parent.ID)
	require.NoError(t, err)
	require.Len(t, got.Children, 1)
	assert.Equal(t, child.ID, got.Children[0].ID)
}

func TestUpdateValidation(t *testing.T) {
	f := newFixture(t)
	_, alice := f.seedUser(t, "alice@example.com", model.RoleUser)
	ctx := context.Background()

	created, err := f.todos.CreateTodo(ctx, alice, model.TodoCreateRequest{Text: "x"})
	require.NoError(t, err)

	_, err = f.todos.UpdateTodo(ctx, alice, created.ID, model.TodoUpdateRequest{}, nil)
	assert.ErrorIs(t, err, echo_errors.ErrInvalidTodoData)
}
