package dao

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dev-kunalpandey/tudu/api/audit"
	"github.com/dev-kunalpandey/tudu/api/authz"
	echo_errors "github.com/dev-kunalpandey/tudu/api/errors"
	"github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
)

func TestMain(m *testing.M) {
	logging.Log = zap.NewNop()
	m.Run()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Todo{}, &audit.LoginRecord{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Password: "x", Role: model.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func intPtr(v int) *int { return &v }

func TestCreateAndGetTodo(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	owner := seedUser(t, db, "a@example.com")

	todo := &model.Todo{Text: "buy milk", UserID: owner.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), todo))
	assert.Equal(t, 1, todo.Version, "new todos start at version 1")

	got, err := dao.GetTodoByID(context.Background(), todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)
	require.NotNil(t, got.Owner)
	assert.Equal(t, owner.ID, got.Owner.ID)
}

func TestGetTodoNotFound(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)

	_, err := dao.GetTodoByID(context.Background(), 999)
	assert.ErrorIs(t, err, echo_errors.ErrTodoNotFound)
}

func TestUpdateTodoVersionMonotonicity(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	owner := seedUser(t, db, "a@example.com")

	todo := &model.Todo{Text: "draft", UserID: owner.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), todo))

	// N successful guarded mutations leave the version at v0 + N.
	for i := 0; i < 5; i++ {
		expected := 1 + i
		updated, err := dao.UpdateTodo(context.Background(),
			todo.ID,
			map[string]interface{}{"text": fmt.Sprintf("draft %d", i)},
			intPtr(expected))
		require.NoError(t, err)
		assert.Equal(t, expected+1, updated.Version)
	}
}

func TestUpdateTodoVersionConflict(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	owner := seedUser(t, db, "a@example.com")

	todo := &model.Todo{Text: "v1", UserID: owner.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), todo))

	// Move the row to version 5.
	for i := 1; i < 5; i++ {
		_, err := dao.UpdateTodo(context.Background(), todo.ID,
			map[string]interface{}{"text": "bump"}, intPtr(i))
		require.NoError(t, err)
	}

	_, err := dao.UpdateTodo(context.Background(), todo.ID,
		map[string]interface{}{"text": "stale write"}, intPtr(4))

	var conflict *authz.VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 5, conflict.Current)
	assert.Equal(t, 4, conflict.Supplied)

	// The failed write must leave the row untouched.
	current, getErr := dao.GetTodoByID(context.Background(), todo.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 5, current.Version)
	assert.Equal(t, "bump", current.Text)
}

func TestUpdateTodoWithoutVersionStillIncrements(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	owner := seedUser(t, db, "a@example.com")

	todo := &model.Todo{Text: "v1", UserID: owner.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), todo))

	updated, err := dao.UpdateTodo(context.Background(), todo.ID,
		map[string]interface{}{"done": true}, nil)
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, 2, updated.Version)
}

func TestUpdateTodoNotFound(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)

	_, err := dao.UpdateTodo(context.Background(), 999,
		map[string]interface{}{"done": true}, intPtr(1))
	assert.ErrorIs(t, err, echo_errors.ErrTodoNotFound)
}

func TestDeleteTodoCascadesToChildren(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	owner := seedUser(t, db, "a@example.com")

	parent := &model.Todo{Text: "parent", UserID: owner.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), parent))
	child := &model.Todo{Text: "child", UserID: owner.ID, ParentID: &parent.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), child))
	grandchild := &model.Todo{Text: "grandchild", UserID: owner.ID, ParentID: &child.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), grandchild))

	require.NoError(t, dao.DeleteTodo(context.Background(), parent.ID, intPtr(1)))

	for _, id := range []int{parent.ID, child.ID, grandchild.ID} {
		_, err := dao.GetTodoByID(context.Background(), id)
		assert.ErrorIs(t, err, echo_errors.ErrTodoNotFound, "todo %d should be gone", id)
	}
}

func TestDeleteTodoVersionConflict(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	owner := seedUser(t, db, "a@example.com")

	todo := &model.Todo{Text: "keep me", UserID: owner.ID}
	require.NoError(t, dao.CreateTodo(context.Background(), todo))
	_, err := dao.UpdateTodo(context.Background(), todo.ID,
		map[string]interface{}{"done": true}, intPtr(1))
	require.NoError(t, err)

	err = dao.DeleteTodo(context.Background(), todo.ID, intPtr(1))
	var conflict *authz.VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 2, conflict.Current)

	_, err = dao.GetTodoByID(context.Background(), todo.ID)
	assert.NoError(t, err, "conflicted delete must not remove the row")
}

func TestListTodosScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	dao := NewTodoDAO(db)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, dao.CreateTodo(context.Background(),
			&model.Todo{Text: fmt.Sprintf("alice %d", i), UserID: alice.ID}))
	}
	require.NoError(t, dao.CreateTodo(context.Background(),
		&model.Todo{Text: "bob 0", UserID: bob.ID}))

	// Nested todos never show up at the top level.
	parentID := 1
	require.NoError(t, dao.CreateTodo(context.Background(),
		&model.Todo{Text: "nested", UserID: alice.ID, ParentID: &parentID}))

	aliceTodos, err := dao.ListTodos(context.Background(), alice.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, aliceTodos, 3)

	all, err := dao.ListTodos(context.Background(), 0, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	total, err := dao.CountTodos(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}
