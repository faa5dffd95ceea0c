package repository_test

import (
	"testing"

	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	testingutil "github.com/anatolia-telecom/backoffice/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemainingUsesRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewRemainingUsesRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("DecreaseConsumesUnits", func(t *testing.T) {
			_, err := fixtures.CreateTestBalance(user.ID, models.ServiceTypeSMS, 100)
			require.NoError(t, err)

			balance, err := repo.Decrease(ctx, user.ID, models.ServiceTypeSMS, 30)
			require.NoError(t, err)
			require.NotNil(t, balance)
			assert.Equal(t, 70, balance.RemainingCount)
		})

		t.Run("DecreaseBelowZeroRejected", func(t *testing.T) {
			_, err := repo.Decrease(ctx, user.ID, models.ServiceTypeSMS, 1000)
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

			// Balance untouched after the failed decrease
			balance, err := repo.ByUserAndService(ctx, user.ID, models.ServiceTypeSMS)
			require.NoError(t, err)
			require.NotNil(t, balance)
			assert.Equal(t, 70, balance.RemainingCount)
		})

		t.Run("DecreaseMissingRow", func(t *testing.T) {
			balance, err := repo.Decrease(ctx, user.ID, models.ServiceTypeCall, 1)
			assert.NoError(t, err)
			assert.Nil(t, balance)
		})

		t.Run("IncreaseExisting", func(t *testing.T) {
			balance, err := repo.Increase(ctx, user.ID, models.ServiceTypeSMS, 50)
			require.NoError(t, err)
			require.NotNil(t, balance)
			assert.Equal(t, 120, balance.RemainingCount)
		})

		t.Run("IncreaseCreatesRow", func(t *testing.T) {
			balance, err := repo.Increase(ctx, user.ID, models.ServiceTypeEmail, 25)
			require.NoError(t, err)
			require.NotNil(t, balance)
			assert.Equal(t, 25, balance.RemainingCount)
			assert.Equal(t, 25, balance.TotalAllocated)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.PhoneNumber, found.PhoneNumber)
		})

		t.Run("ByIDAbsent", func(t *testing.T) {
			found, err := repo.ByID(ctx, 999999)
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByPhone", func(t *testing.T) {
			found, err := repo.ByPhone(ctx, user.PhoneNumber)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		t.Run("Search", func(t *testing.T) {
			results, err := repo.Search(ctx, "Yilmaz", 10)
			require.NoError(t, err)
			assert.NotEmpty(t, results)
		})

		t.Run("Update", func(t *testing.T) {
			name := "Fatma"
			updated, err := repo.Update(ctx, user.ID, models.UserPatch{Name: &name})
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, "Fatma", updated.Name)
			assert.Equal(t, user.Surname, updated.Surname)
		})

		return nil
	})
	require.NoError(t, err)
}
