package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derece-app/derece-api/internal/models"
)

func TestTopicRepositoryFindBySubjectTitle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "category", "subject", "title", "slug", "description", "study_hours", "test_hours", "review_hours", "order_index", "created_at"}).
		AddRow("t1", "AYT", "Matematik", "Türev", "ayt_matematik_turev", "", 0, 0, 0, 999, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(subject) = LOWER($1) AND LOWER(title) = LOWER($2) LIMIT 1")).
		WithArgs("matematik", "TÜREV").
		WillReturnRows(rows)

	topic, err := repo.FindBySubjectTitle(context.Background(), "matematik", "TÜREV")
	require.NoError(t, err)
	require.NotNil(t, topic)
	assert.Equal(t, "ayt_matematik_turev", topic.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryFindBySubjectTitleNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectQuery("SELECT id, category, subject").
		WithArgs("Fizik", "Optik").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	topic, err := repo.FindBySubjectTitle(context.Background(), "Fizik", "Optik")
	require.NoError(t, err)
	assert.Nil(t, topic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectExec("INSERT INTO topics").
		WillReturnResult(sqlmock.NewResult(1, 1))

	topic := &models.Topic{Category: models.CategoryAYT, Subject: "Matematik", Title: "Türev", Slug: "ayt_matematik_turev"}
	require.NoError(t, repo.Create(context.Background(), topic))
	assert.NotEmpty(t, topic.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
