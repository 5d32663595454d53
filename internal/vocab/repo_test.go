package vocab_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/apps/backend/internal/vocab"
)

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := vocab.NewPostgresRepo(db)

	t.Run("Success", func(t *testing.T) {
		data := `{"enabled_flag":"true","duration_multipliers":{"per day":30},"hourly_label":"per hour","monthly_label":"per month","hourly_full_time_hours":160,"hourly_part_time_hours":80,"currency_codes":{"₹":"INR"},"notice_periods":{"immediate":{"min_weeks":0,"max_weeks":0}}}`

		rows := sqlmock.NewRows([]string{"id", "version", "data"}).
			AddRow(1, 3, []byte(data))

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, version, data FROM vocabulary WHERE id = 1")).
			WillReturnRows(rows)

		v, err := repo.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, v.Version)
		assert.Equal(t, "true", v.EnabledFlag)
		assert.Equal(t, 30.0, v.DurationMultipliers["per day"])
		assert.Equal(t, "INR", v.CurrencyCodes["₹"])
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
			WillReturnError(sqlmock.ErrCancelled)

		v, err := repo.Get(context.Background())
		assert.Error(t, err)
		assert.Nil(t, v)
	})
}

func TestPostgresRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := vocab.NewPostgresRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE vocabulary SET data = $1, version = version + 1, updated_at = NOW() WHERE id = 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), vocab.Defaults())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Seed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := vocab.NewPostgresRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vocabulary (id, version, data) VALUES (1, $1, $2) ON CONFLICT (id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Seed(context.Background(), vocab.Defaults())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
