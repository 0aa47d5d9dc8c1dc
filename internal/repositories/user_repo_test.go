package repositories

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateInsertsProfile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := &models.User{Username: "sara", Email: "sara@example.com", PasswordHash: "hash", IsActive: true}
	joined := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).WithArgs("sara", "sara@example.com", "hash", true, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "date_joined"}).AddRow(int64(4), joined))
	mock.ExpectExec(`INSERT INTO user_profiles`).WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, NewUserRepo(mock).Create(context.Background(), user))
	assert.Equal(t, int64(4), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateDuplicateUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	user := &models.User{Username: "sara", PasswordHash: "hash", IsActive: true}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).WithArgs("sara", "", "hash", true, false).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err = NewUserRepo(mock).Create(context.Background(), user)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetActiveUnknownUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE users SET is_active`).WithArgs(false, int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewUserRepo(mock).SetActive(context.Background(), 9, false)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserRepo_GetByUsernameNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM users WHERE username`).WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "is_active", "is_staff", "date_joined"}))

	_, err = NewUserRepo(mock).GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
