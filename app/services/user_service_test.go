package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/auth"
)

// fakeUserAdminStore backs the user-management service; keyed by email.
type fakeUserAdminStore struct {
	users   map[string]*models.User
	lastGot repositories.UserListFilter
}

func newFakeUserAdminStore() *fakeUserAdminStore {
	return &fakeUserAdminStore{users: map[string]*models.User{}}
}

func (f *fakeUserAdminStore) add(email, role string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Email: email, Role: role}
	f.users[email] = u
	return u
}

func (f *fakeUserAdminStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeUserAdminStore) List(ctx context.Context, filter repositories.UserListFilter) ([]models.User, int64, error) {
	f.lastGot = filter
	out := []models.User{}
	for _, u := range f.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserAdminStore) UpdateRole(ctx context.Context, email, role string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (f *fakeUserAdminStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return apperr.NotFound("User not found")
}

func TestUserListClampsPaging(t *testing.T) {
	store := newFakeUserAdminStore()
	svc := NewUserService(store)

	_, _, err := svc.List(context.Background(), repositories.UserListFilter{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, store.lastGot.Page)
	assert.Equal(t, 15, store.lastGot.Limit)

	_, _, err = svc.List(context.Background(), repositories.UserListFilter{Page: 3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 3, store.lastGot.Page)
	assert.Equal(t, 100, store.lastGot.Limit)
}

func TestUserListValidatesRoleFilter(t *testing.T) {
	store := newFakeUserAdminStore()
	store.add("ali@example.pk", models.RoleUser)
	store.add("sana@example.pk", models.RoleModerator)
	svc := NewUserService(store)

	_, _, err := svc.List(context.Background(), repositories.UserListFilter{Role: "superuser"})
	assert.True(t, apperr.IsValidation(err))

	users, total, err := svc.List(context.Background(), repositories.UserListFilter{Role: " Moderator "})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "sana@example.pk", users[0].Email)
}

func TestUpdateRoleValidatesAndNormalizes(t *testing.T) {
	store := newFakeUserAdminStore()
	store.add("ali@example.pk", models.RoleUser)
	svc := NewUserService(store)

	_, err := svc.UpdateRole(context.Background(), "ali@example.pk", "root")
	assert.True(t, apperr.IsValidation(err))

	user, err := svc.UpdateRole(context.Background(), " Ali@Example.PK ", "Moderator")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)

	_, err = svc.UpdateRole(context.Background(), "ghost@example.pk", models.RoleAdmin)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteUserPolicy(t *testing.T) {
	store := newFakeUserAdminStore()
	admin := store.add("boss@example.pk", models.RoleAdmin)
	mod := store.add("sana@example.pk", models.RoleModerator)
	store.add("ali@example.pk", models.RoleUser)
	svc := NewUserService(store)

	asAdmin := auth.Identity{UserID: admin.ID.Hex(), Role: models.RoleAdmin}
	asMod := auth.Identity{UserID: mod.ID.Hex(), Role: models.RoleModerator}

	// Nobody deletes themselves.
	err := svc.Delete(context.Background(), asAdmin, "boss@example.pk")
	assert.True(t, apperr.IsForbidden(err))

	// Moderators only delete plain user accounts.
	err = svc.Delete(context.Background(), asMod, "boss@example.pk")
	assert.True(t, apperr.IsForbidden(err))

	err = svc.Delete(context.Background(), asMod, "Ali@Example.PK")
	require.NoError(t, err)
	_, err = store.FindByEmail(context.Background(), "ali@example.pk")
	assert.True(t, apperr.IsNotFound(err))

	// Admins delete anyone else.
	err = svc.Delete(context.Background(), asAdmin, "sana@example.pk")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), asAdmin, "ghost@example.pk")
	assert.True(t, apperr.IsNotFound(err))
}
