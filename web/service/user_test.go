package service

import (
	"testing"

	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/util/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, "admin@example.com", "pw", true)
	svc := NewUserAdminService(db, testHasher)

	dto, err := svc.CreateUser(adminCtx(admin), " Writer ", "Writer@Example.com", "secret", false)
	require.NoError(t, err)
	assert.Equal(t, "Writer", dto.Nickname)
	assert.Equal(t, "writer@example.com", dto.Email)
	assert.False(t, dto.IsAdmin)

	stored := &model.User{}
	require.NoError(t, db.Where("email = ?", "writer@example.com").First(stored).Error)
	assert.True(t, testHasher.Verify("secret", stored.PasswordHash))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, "admin@example.com", "pw", true)
	svc := NewUserAdminService(db, testHasher)

	_, err := svc.CreateUser(adminCtx(admin), "a", "dup@example.com", "pw", false)
	require.NoError(t, err)
	_, err = svc.CreateUser(adminCtx(admin), "b", "DUP@example.com", "pw", false)
	assert.ErrorIs(t, err, ErrEmailExists)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "dup@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	db := setupDB(t)
	member := createUser(t, db, "member@example.com", "pw", false)
	svc := NewUserAdminService(db, testHasher)

	_, err := svc.CreateUser(adminCtx(member), "x", "x@example.com", "pw", true)
	assert.ErrorIs(t, err, ErrAdminOnly)

	_, err = svc.CreateUser(nil, "x", "x@example.com", "pw", true)
	assert.ErrorIs(t, err, ErrAuthRequired)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateUserMissingFields(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, "admin@example.com", "pw", true)
	svc := NewUserAdminService(db, testHasher)

	cases := [][3]string{
		{"", "a@example.com", "pw"},
		{"nick", "  ", "pw"},
		{"nick", "a@example.com", ""},
	}
	for _, c := range cases {
		_, err := svc.CreateUser(adminCtx(admin), c[0], c[1], c[2], false)
		assert.ErrorIs(t, err, ErrUserFieldsRequired, c)
	}
}

func TestListUsers(t *testing.T) {
	db := setupDB(t)
	createUser(t, db, "first@example.com", "pw", true)
	createUser(t, db, "second@example.com", "pw", false)
	svc := NewUserAdminService(db, testHasher)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "second@example.com", users[0].Email)
	assert.Equal(t, "first@example.com", users[1].Email)
}

func resolveCtx(t *testing.T, sessions *SessionService, userID int) *SessionContext {
	t.Helper()
	token, _, err := sessions.Issue(userID)
	require.NoError(t, err)
	ctx, err := sessions.Resolve(token)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	return ctx
}

func TestProfileRoundTrip(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, "me@example.com", "pw", false)
	cipher := crypto.NewFieldCipher("test-secret")
	svc := NewUserService(db, cipher)
	sessions := NewSessionService(db, week)

	ctx := resolveCtx(t, sessions, u.Id)
	err := svc.UpdateProfile(ctx, ProfileUpdate{
		FullName:    strPtr(" Ada Lovelace "),
		Phone:       strPtr("+1 555 0100"),
		ExternalURL: strPtr("vault.example.com/ada"),
	})
	require.NoError(t, err)

	stored := &model.User{}
	require.NoError(t, db.First(stored, u.Id).Error)
	require.NotNil(t, stored.FullName)
	assert.NotEqual(t, "Ada Lovelace", *stored.FullName)

	profile, err := svc.Profile(resolveCtx(t, sessions, u.Id))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *profile.FullName)
	assert.Equal(t, "+1 555 0100", *profile.Phone)
	assert.Equal(t, "https://vault.example.com/ada", *profile.ExternalURL)
	assert.Equal(t, "me@example.com", profile.Email)
}

func TestProfilePartialUpdateAndClear(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, "me@example.com", "pw", false)
	svc := NewUserService(db, crypto.NewFieldCipher("test-secret"))
	sessions := NewSessionService(db, week)

	ctx := resolveCtx(t, sessions, u.Id)
	require.NoError(t, svc.UpdateProfile(ctx, ProfileUpdate{FullName: strPtr("Ada"), Phone: strPtr("123")}))

	// phone cleared, name untouched
	require.NoError(t, svc.UpdateProfile(ctx, ProfileUpdate{Phone: strPtr("")}))

	stored := &model.User{}
	require.NoError(t, db.First(stored, u.Id).Error)
	assert.NotNil(t, stored.FullName)
	assert.Nil(t, stored.Phone)
	assert.Nil(t, stored.ExternalURL)

	profile, err := svc.Profile(resolveCtx(t, sessions, u.Id))
	require.NoError(t, err)
	assert.Equal(t, "Ada", *profile.FullName)
	assert.Nil(t, profile.Phone)
}

func TestProfileWithForeignSecret(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, "me@example.com", "pw", false)
	sessions := NewSessionService(db, week)

	writer := NewUserService(db, crypto.NewFieldCipher("old-secret"))
	require.NoError(t, writer.UpdateProfile(resolveCtx(t, sessions, u.Id), ProfileUpdate{FullName: strPtr("Ada")}))

	reader := NewUserService(db, crypto.NewFieldCipher("new-secret"))
	require.NoError(t, db.Model(u).Update("phone", "%%%not-base64").Error)

	profile, err := reader.Profile(resolveCtx(t, sessions, u.Id))
	require.NoError(t, err)
	assert.Nil(t, profile.Phone)
	if profile.FullName != nil {
		assert.NotEqual(t, "Ada", *profile.FullName)
	}
}

func TestProfileRequiresSession(t *testing.T) {
	svc := NewUserService(setupDB(t), crypto.NewFieldCipher("s"))

	_, err := svc.Profile(nil)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.ErrorIs(t, svc.UpdateProfile(nil, ProfileUpdate{}), ErrAuthRequired)
}
