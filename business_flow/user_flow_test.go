package businessflow_test

import (
	"testing"

	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	testingutil "github.com/anatolia-telecom/backoffice/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewUserFlow(
			repository.NewUserRepository(testDB.DB),
			repository.NewSubscriptionRepository(testDB.DB),
		)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("CreateAndFetch", func(t *testing.T) {
			created, err := flow.CreateUser(ctx, &dto.CreateUserRequest{
				Name:        "Mehmet",
				Surname:     "Demir",
				PhoneNumber: "+905001112233",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Mehmet", created.Name)

			byPhone, err := flow.GetUserByPhone(ctx, "+905001112233")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byPhone.ID)
		})

		t.Run("DuplicatePhoneRejected", func(t *testing.T) {
			_, err := flow.CreateUser(ctx, &dto.CreateUserRequest{
				Name:        "Ali",
				Surname:     "Kaya",
				PhoneNumber: "+905001112233",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPhoneAlreadyUsed(err))
		})

		t.Run("UpdateToTakenPhoneRejected", func(t *testing.T) {
			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			taken := "+905001112233"
			_, err = flow.UpdateUser(ctx, other.ID, &dto.UpdateUserRequest{PhoneNumber: &taken}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPhoneAlreadyUsed(err))
		})

		t.Run("GetUserPackage", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			pkg, err := fixtures.CreateTestPackage("Kullanici Paketi", "yok", 85)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSubscription(user.ID, pkg.ID)
			require.NoError(t, err)

			result, err := flow.GetUserPackage(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, pkg.ID, result.ID)

			bare, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			_, err = flow.GetUserPackage(ctx, bare.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNoActiveSubscription(err))
		})

		t.Run("UnknownUser", func(t *testing.T) {
			_, err := flow.GetUser(ctx, 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestBalanceFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewBalanceFlow(
			repository.NewUserRepository(testDB.DB),
			repository.NewRemainingUsesRepository(testDB.DB),
		)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		_, err = fixtures.CreateTestBalance(user.ID, models.ServiceTypeSMS, 50)
		require.NoError(t, err)

		t.Run("Decrease", func(t *testing.T) {
			result, err := flow.DecreaseBalance(ctx, &dto.AdjustBalanceRequest{
				UserID:      user.ID,
				ServiceType: models.ServiceTypeSMS,
				Count:       20,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 30, result.RemainingCount)
		})

		t.Run("InsufficientBalance", func(t *testing.T) {
			_, err := flow.DecreaseBalance(ctx, &dto.AdjustBalanceRequest{
				UserID:      user.ID,
				ServiceType: models.ServiceTypeSMS,
				Count:       500,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInsufficientBalance(err))
		})

		t.Run("MissingBalanceRow", func(t *testing.T) {
			_, err := flow.DecreaseBalance(ctx, &dto.AdjustBalanceRequest{
				UserID:      user.ID,
				ServiceType: models.ServiceTypeCall,
				Count:       1,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsBalanceNotFound(err))
		})

		t.Run("IncreaseCreatesRow", func(t *testing.T) {
			result, err := flow.IncreaseBalance(ctx, &dto.AdjustBalanceRequest{
				UserID:      user.ID,
				ServiceType: models.ServiceTypeEmail,
				Count:       15,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, 15, result.RemainingCount)
		})

		return nil
	})
	require.NoError(t, err)
}
