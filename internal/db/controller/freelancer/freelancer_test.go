package freelancer

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Freelancer{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedFreelancers inserts test data into the database.
func seedFreelancers(t *testing.T, db *gorm.DB, freelancers []models.Freelancer) {
	t.Helper()
	for _, f := range freelancers {
		err := db.Create(&f).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            uint64
		seedData      []models.Freelancer
		expectedError error
		expectedName  string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            1,
			expectedError: ErrDBNil,
		},
		{
			name:          "freelancer not found",
			dbParam:       db,
			id:            999,
			expectedError: ErrFreelancerNotFound,
		},
		{
			name:    "successful get",
			dbParam: db,
			id:      1,
			seedData: []models.Freelancer{
				{ID: 1, Name: "Anna", Farbe: "#ff8800"},
			},
			expectedName: "Anna",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM freelancers")
			}

			if tc.seedData != nil {
				seedFreelancers(t, tc.dbParam, tc.seedData)
			}

			freelancer, err := Get(tc.dbParam, tc.id)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, freelancer)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, freelancer)
				assert.Equal(t, tc.expectedName, freelancer.Name)
			}
		})
	}
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		seedData      []models.Freelancer
		expectedError error
		expectedNames []string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			expectedError: ErrDBNil,
		},
		{
			name:          "empty database",
			dbParam:       db,
			expectedNames: []string{},
		},
		{
			name:    "ordered by name, archived included",
			dbParam: db,
			seedData: []models.Freelancer{
				{Name: "Mia"},
				{Name: "Anna", Archiviert: true},
				{Name: "Lena"},
			},
			expectedNames: []string{"Anna", "Lena", "Mia"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM freelancers")
			}

			if tc.seedData != nil {
				seedFreelancers(t, tc.dbParam, tc.seedData)
			}

			freelancers, err := GetAll(tc.dbParam)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, freelancers)
			} else {
				require.NoError(t, err)
				require.Len(t, freelancers, len(tc.expectedNames))
				for i, want := range tc.expectedNames {
					assert.Equal(t, want, freelancers[i].Name)
				}
			}
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		params        Params
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			params:        Params{Name: "Anna"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			params:        Params{Adresse: "Hauptstr. 1"},
			expectedError: ErrFreelancerNameEmpty,
		},
		{
			name:    "successful create",
			dbParam: db,
			params:  Params{Name: "Anna", Adresse: "Hauptstr. 1", Farbe: "#ff8800"},
		},
		{
			name:    "archive flag is ignored at creation",
			dbParam: db,
			params:  Params{Name: "Lena", Archiviert: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM freelancers")
			}

			freelancer, err := Create(tc.dbParam, tc.params)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, freelancer)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, freelancer)
				assert.NotZero(t, freelancer.ID)
				assert.Equal(t, tc.params.Name, freelancer.Name)
				assert.Equal(t, tc.params.Adresse, freelancer.Adresse)
				assert.Equal(t, tc.params.Farbe, freelancer.Farbe)
				assert.False(t, freelancer.Archiviert)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            uint64
		params        Params
		seedData      []models.Freelancer
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            1,
			params:        Params{Name: "Anna"},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			id:            1,
			params:        Params{},
			expectedError: ErrFreelancerNameEmpty,
		},
		{
			name:          "freelancer not found",
			dbParam:       db,
			id:            999,
			params:        Params{Name: "Anna"},
			expectedError: ErrFreelancerNotFound,
		},
		{
			name:    "successful update with archive",
			dbParam: db,
			id:      1,
			params:  Params{Name: "Anna M.", Adresse: "Neue Str. 2", Farbe: "#00ff00", Archiviert: true},
			seedData: []models.Freelancer{
				{ID: 1, Name: "Anna", Adresse: "Hauptstr. 1", Farbe: "#ff8800"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM freelancers")
			}

			if tc.seedData != nil {
				seedFreelancers(t, tc.dbParam, tc.seedData)
			}

			freelancer, err := Update(tc.dbParam, tc.id, tc.params)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, freelancer)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, freelancer)
				assert.Equal(t, tc.params.Name, freelancer.Name)
				assert.Equal(t, tc.params.Adresse, freelancer.Adresse)
				assert.Equal(t, tc.params.Farbe, freelancer.Farbe)
				assert.Equal(t, tc.params.Archiviert, freelancer.Archiviert)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            uint64
		seedData      []models.Freelancer
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            1,
			expectedError: ErrDBNil,
		},
		{
			name:          "freelancer not found",
			dbParam:       db,
			id:            999,
			expectedError: ErrFreelancerNotFound,
		},
		{
			name:    "successful delete",
			dbParam: db,
			id:      1,
			seedData: []models.Freelancer{
				{ID: 1, Name: "Anna"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM freelancers")
			}

			if tc.seedData != nil {
				seedFreelancers(t, tc.dbParam, tc.seedData)
			}

			err := Delete(tc.dbParam, tc.id)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)

				var count int64
				tc.dbParam.Model(&models.Freelancer{}).Where("id = ?", tc.id).Count(&count)
				assert.Zero(t, count)
			}
		})
	}
}

func TestIntegration(t *testing.T) {
	db := setupTestDB(t)

	// Create a freelancer
	created, err := Create(db, Params{Name: "Anna", Adresse: "Hauptstr. 1", Farbe: "#ff8800"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.Archiviert)

	// Read it back
	got, err := Get(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)

	// Archive via update
	updated, err := Update(db, created.ID, Params{Name: "Anna", Adresse: "Hauptstr. 1", Farbe: "#ff8800", Archiviert: true})
	require.NoError(t, err)
	assert.True(t, updated.Archiviert)

	// Delete and verify
	require.NoError(t, Delete(db, created.ID))

	_, err = Get(db, created.ID)
	require.ErrorIs(t, err, ErrFreelancerNotFound)
}
