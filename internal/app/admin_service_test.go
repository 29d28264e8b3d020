package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

func newAdminService(t *testing.T) (*AdminService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAdminService(
		repository.NewClientRepository(db),
		repository.NewTemplateRepository(db),
		repository.NewGroupRepository(db),
	)
	require.NoError(t, db.Create(&model.Group{Name: "acme", Description: "Acme Corp"}).Error)
	return svc, db
}

func TestGroupLifecycle(t *testing.T) {
	svc, _ := newAdminService(t)

	group, err := svc.CreateGroup(UpsertGroupInput{Name: "globex", Description: "Globex"})
	require.NoError(t, err)

	_, err = svc.CreateGroup(UpsertGroupInput{Name: "globex"})
	assert.ErrorIs(t, err, ErrGroupExists)

	updated, err := svc.UpdateGroup(group.ID, UpsertGroupInput{Description: "Globex Intl"})
	require.NoError(t, err)
	assert.Equal(t, "Globex Intl", updated.Description)

	_, err = svc.UpdateGroup(group.ID, UpsertGroupInput{Name: "acme"})
	assert.ErrorIs(t, err, ErrGroupExists)

	require.NoError(t, svc.DeleteGroup(group.ID))
	assert.ErrorIs(t, svc.DeleteGroup(group.ID), ErrGroupNotFound)
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAdminService(t)

	user, err := svc.CreateUser(CreateUserInput{
		Email:       "New@X.com",
		Password:    "secret",
		Name:        "New User",
		ClientGroup: "acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))

	_, err = svc.CreateUser(CreateUserInput{
		Email:       "new@x.com",
		Password:    "other",
		Name:        "Dup",
		ClientGroup: "acme",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateUserUnknownGroup(t *testing.T) {
	svc, _ := newAdminService(t)

	_, err := svc.CreateUser(CreateUserInput{
		Email:       "x@x.com",
		Password:    "p",
		Name:        "X",
		ClientGroup: "ghost",
	})
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestUpdateUser(t *testing.T) {
	svc, db := newAdminService(t)
	user := seedClient(t, db, "a@x.com", "p", "acme", true)

	inactive := false
	updated, err := svc.UpdateUser(user.ID, UpdateUserInput{
		Name:     "Renamed",
		Role:     "admin",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "admin", updated.Role)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateUser(999, UpdateUserInput{Name: "X"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdateUserRotatesPassword(t *testing.T) {
	svc, db := newAdminService(t)
	user := seedClient(t, db, "a@x.com", "old", "acme", true)

	updated, err := svc.UpdateUser(user.ID, UpdateUserInput{Password: "new"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("old")))
}

func TestTemplateLifecycle(t *testing.T) {
	svc, _ := newAdminService(t)

	temp := float32(0.4)
	template, err := svc.CreateTemplate(UpsertTemplateInput{
		Name:         "Receptionist",
		ClientGroup:  "acme",
		Instructions: "Greet visitors",
		Temperature:  &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, float32(0.4), template.Temperature)
	assert.Equal(t, float32(1.0), template.TopP)

	updated, err := svc.UpdateTemplate(template.ID, UpsertTemplateInput{Instructions: "Greet guests"})
	require.NoError(t, err)
	assert.Equal(t, "Greet guests", updated.Instructions)

	_, err = svc.CreateTemplate(UpsertTemplateInput{Name: "Orphan", ClientGroup: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownGroup)

	require.NoError(t, svc.DeleteTemplate(template.ID))
	assert.ErrorIs(t, svc.DeleteTemplate(template.ID), ErrTemplateNotFound)
}
