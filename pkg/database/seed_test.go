package database_test

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
	"lms_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSampleDataRunsOnce(t *testing.T) {
	db := testutil.DB(t)

	require.NoError(t, database.SeedSampleData(db))
	require.NoError(t, database.SeedSampleData(db))

	var courses, instructors, contents int64
	require.NoError(t, db.Model(&model.Course{}).Count(&courses).Error)
	require.NoError(t, db.Model(&model.User{}).Where("is_instructor = ?", true).Count(&instructors).Error)
	require.NoError(t, db.Model(&model.Content{}).Count(&contents).Error)

	assert.EqualValues(t, 5, courses)
	assert.EqualValues(t, 1, instructors)
	assert.EqualValues(t, 4, contents)
}

func TestResetDropsData(t *testing.T) {
	db := testutil.DB(t)
	require.NoError(t, database.SeedSampleData(db))

	require.NoError(t, database.Reset(db))

	var courses int64
	require.NoError(t, db.Model(&model.Course{}).Count(&courses).Error)
	assert.Zero(t, courses)
}
