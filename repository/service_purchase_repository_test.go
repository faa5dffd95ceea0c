package repository_test

import (
	"testing"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	testingutil "github.com/anatolia-telecom/backoffice/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePurchaseRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewServicePurchaseRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		savePurchaseAt := func(at time.Time) *models.ServicePurchase {
			p := &models.ServicePurchase{
				UserID:        user.ID,
				ServiceType:   models.ServiceTypeSMS,
				Count:         10,
				UnitPrice:     0.5,
				PurchasePrice: 5,
				PurchaseDate:  at,
			}
			require.NoError(t, repo.Save(ctx, p))
			return p
		}

		t.Run("ListByMonthBoundary", func(t *testing.T) {
			lastOfJuly := savePurchaseAt(time.Date(2026, time.July, 31, 23, 59, 59, 0, time.UTC))
			firstOfAugust := savePurchaseAt(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))

			july, err := repo.ListByMonth(ctx, 2026, time.July)
			require.NoError(t, err)
			require.Len(t, july, 1)
			assert.Equal(t, lastOfJuly.ID, july[0].ID)

			// A purchase stamped exactly at midnight on the 1st belongs
			// to the new month, never to both
			august, err := repo.ListByMonth(ctx, 2026, time.August)
			require.NoError(t, err)
			require.Len(t, august, 1)
			assert.Equal(t, firstOfAugust.ID, august[0].ID)
		})

		t.Run("ListByMonthEmpty", func(t *testing.T) {
			purchases, err := repo.ListByMonth(ctx, 2026, time.January)
			require.NoError(t, err)
			assert.Empty(t, purchases)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPackageRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPackageRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("DetailsRoundTrip", func(t *testing.T) {
			created, err := fixtures.CreateTestPackage("Detay Paketi", "12 ay", 99)
			require.NoError(t, err)

			loaded, err := repo.ByID(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, models.PackageDetails{
				"internet_gb": "20",
				"minutes":     "1000",
				"sms":         "500",
			}, loaded.Details)
		})

		return nil
	})
	require.NoError(t, err)
}
