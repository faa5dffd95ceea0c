package businessflow_test

import (
	"testing"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	testingutil "github.com/anatolia-telecom/backoffice/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerServiceFlow(testDB *testingutil.TestDB) businessflow.CustomerServiceFlow {
	return businessflow.NewCustomerServiceFlow(
		repository.NewUserRepository(testDB.DB),
		repository.NewSubscriptionRepository(testDB.DB),
		repository.NewRemainingUsesRepository(testDB.DB),
		repository.NewInvoiceRepository(testDB.DB),
		repository.NewProblemRepository(testDB.DB),
		repository.NewAgentIntentLogRepository(testDB.DB),
	)
}

func TestCustomerInfoByPhone(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newCustomerServiceFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		pkg, err := fixtures.CreateTestPackage("Servis Paketi", "12 ay", 130)
		require.NoError(t, err)
		_, err = fixtures.CreateTestSubscription(user.ID, pkg.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestBalance(user.ID, models.ServiceTypeSMS, 200)
		require.NoError(t, err)

		info, err := flow.CustomerInfoByPhone(ctx, user.PhoneNumber)
		require.NoError(t, err)

		assert.Equal(t, user.ID, info.User.ID)
		require.NotNil(t, info.ActiveSubscription)
		assert.Equal(t, pkg.ID, info.ActiveSubscription.PackageID)
		require.Len(t, info.RemainingUses, 1)
		assert.Equal(t, 200, info.RemainingUses[0].RemainingCount)
		assert.Empty(t, info.UnpaidInvoices)
		assert.Zero(t, info.UnpaidTotal)

		t.Run("UnknownPhone", func(t *testing.T) {
			_, err := flow.CustomerInfoByPhone(ctx, "+900000000000")
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRegisterComplaint(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newCustomerServiceFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		result, err := flow.RegisterComplaint(ctx, &dto.ComplaintRequest{
			PhoneNumber: user.PhoneNumber,
			Location:    "Kadikoy",
			Description: "No signal since this morning",
			Priority:    "high",
		}, metadata)
		require.NoError(t, err)

		assert.Equal(t, "Kadikoy", result.Problem.Location)
		assert.Equal(t, "high", result.Problem.Priority)
		assert.Equal(t, "open", result.Problem.Status)
		assert.WithinDuration(t, time.Now().UTC().Add(48*time.Hour), result.Problem.EstimatedCompletionTime, time.Minute)

		// The complaint also lands in the interaction history
		history, err := flow.InteractionHistory(ctx, user.ID, 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, models.IntentComplaint, history[0].Intent)

		return nil
	})
	require.NoError(t, err)
}

func TestLogInteraction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newCustomerServiceFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		confidence := 0.92
		logged, err := flow.LogInteraction(ctx, &dto.LogInteractionRequest{
			UserID:     &user.ID,
			Intent:     "bilgi",
			Message:    "Paketimde kac dakika kaldi?",
			Confidence: &confidence,
		}, metadata)
		require.NoError(t, err)
		assert.Equal(t, "bilgi", logged.Intent)
		require.NotNil(t, logged.Confidence)
		assert.InDelta(t, 0.92, *logged.Confidence, 0.001)

		t.Run("UnknownUserRejected", func(t *testing.T) {
			unknown := uint(999999)
			_, err := flow.LogInteraction(ctx, &dto.LogInteractionRequest{
				UserID:  &unknown,
				Intent:  "bilgi",
				Message: "test",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
