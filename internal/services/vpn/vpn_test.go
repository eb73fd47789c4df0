package vpn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngfw-panel/internal/config"
	"ngfw-panel/internal/database"
	"ngfw-panel/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	_, err := database.Connect(config.DatabaseConfig{
		Mode:  "local",
		Local: config.LocalStore{Path: ":memory:"},
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&models.VPNUser{}))
	t.Cleanup(func() { database.DB = nil })
}

func mustCreate(t *testing.T, username string) *models.VPNUser {
	t.Helper()
	user, err := Create(CreateUserInput{Username: username, Password: "s3cret-pass"})
	require.NoError(t, err)
	return user
}

func TestCreateHashesPassword(t *testing.T) {
	setupDB(t)

	user := mustCreate(t, "alice")
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.Enabled, "users default to enabled")
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateValidation(t *testing.T) {
	setupDB(t)

	_, err := Create(CreateUserInput{Username: "  ", Password: "x"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)

	_, err = Create(CreateUserInput{Username: "bob"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestListOrderedByUsername(t *testing.T) {
	setupDB(t)

	mustCreate(t, "charlie")
	mustCreate(t, "alice")
	mustCreate(t, "bob")

	users, total, err := List(Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "charlie", users[2].Username)
}

func TestUpdateMergesFields(t *testing.T) {
	setupDB(t)

	user := mustCreate(t, "dave")

	name := "Dave Example"
	updated, err := Update(user.ID, UpdateUserInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dave Example", updated.FullName)
	assert.Equal(t, "dave", updated.Username, "untouched fields survive")

	pass := "new-pass"
	updated, err = Update(user.ID, UpdateUserInput{Password: &pass})
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword("new-pass"))
	assert.False(t, updated.CheckPassword("s3cret-pass"))

	empty := ""
	_, err = Update(user.ID, UpdateUserInput{Password: &empty})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = Update("no-such-id", UpdateUserInput{FullName: &name})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggle(t *testing.T) {
	setupDB(t)

	user := mustCreate(t, "erin")

	toggled, err := Toggle(user.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	toggled, err = Toggle(user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)

	_, err = Toggle("no-such-id")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDelete(t *testing.T) {
	setupDB(t)

	user := mustCreate(t, "frank")
	require.NoError(t, Delete(user.ID))
	assert.ErrorIs(t, Delete(user.ID), models.ErrNotFound)

	_, total, err := List(Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestNotConnected(t *testing.T) {
	database.DB = nil

	_, _, err := List(Filters{})
	assert.ErrorIs(t, err, database.ErrNotConnected)

	_, err = Create(CreateUserInput{Username: "x", Password: "y"})
	assert.ErrorIs(t, err, database.ErrNotConnected)
}
