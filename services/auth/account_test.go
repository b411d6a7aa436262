package authService

import (
	"testing"
	"time"

	"portal/models"
	"portal/models/quiz"
	"portal/testutil"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAccount(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreateUser(t, db, "bob", models.RoleUser)

	assert.Equal(t, ErrUsernameTaken, UpdateAccount(db, user, "BOB", "alice@example.com"))
	assert.Equal(t, ErrEmailTaken, UpdateAccount(db, user, "alice", "Bob@Example.com"))

	require.NoError(t, UpdateAccount(db, user, "Alice", "alice@example.com"))
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Alice", stored.Username)
}

func TestChangePassword(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)

	assert.Equal(t, ErrWrongPassword, ChangePassword(db, user, "nope", "N3w!Password99"))
	assert.True(t, errors.Is(ChangePassword(db, user, testutil.Password, "weak"), ErrWeakPassword))

	require.NoError(t, ChangePassword(db, user, testutil.Password, "N3w!Password99"))
	_, err := Authenticate(db, "alice", "N3w!Password99", time.Now())
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	require.NoError(t, db.Create(&models.UserProfile{UserID: user.ID, Title: "Dev"}).Error)

	q := quiz.Quiz{Title: "Screen", IsActive: true}
	require.NoError(t, db.Create(&q).Error)
	attempt := quiz.Attempt{UserID: user.ID, QuizID: q.ID, StartedAt: time.Now()}
	require.NoError(t, db.Create(&attempt).Error)

	assert.Equal(t, ErrConfirmMissing, DeleteAccount(db, user, "yes", testutil.Password))
	assert.Equal(t, ErrWrongPassword, DeleteAccount(db, user, "delete", "wrong"))
	require.NoError(t, DeleteAccount(db, user, " delete ", testutil.Password))

	var n int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&n)
	assert.Zero(t, n)
	db.Unscoped().Model(&quiz.Attempt{}).Where("user_id = ?", user.ID).Count(&n)
	assert.Zero(t, n)
	db.Unscoped().Model(&models.Permission{}).Where("user_id = ?", user.ID).Count(&n)
	assert.Zero(t, n)
}
