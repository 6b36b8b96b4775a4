package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestLoadIndexQueryError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "buildings"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := s.LoadIndex(context.Background())
	assert.ErrorContains(t, err, "failed to load buildings")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSessionsRollsBackOnUnknownBuilding(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "buildings" WHERE name = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectRollback()

	err := s.ReplaceSessions(context.Background(), "Nowhere", []SessionRecord{
		{Room: "1", StartMinute: 60, EndMinute: 120},
	})
	assert.ErrorIs(t, err, ErrUnknownBuilding)
	assert.NoError(t, mock.ExpectationsWereMet())
}
