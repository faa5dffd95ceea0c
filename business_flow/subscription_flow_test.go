package businessflow_test

import (
	"testing"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/repository"
	testingutil "github.com/anatolia-telecom/backoffice/testing"
	"github.com/anatolia-telecom/backoffice/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitmentDuration(t *testing.T) {
	cases := []struct {
		commitment string
		months     int
	}{
		{"12 ay", 12},
		{"24 ay", 24},
		{"6 ay", 6},
		{"12ay", 12},
		{" 12 ay ", 12},
		{"24 AY", 24},
		{"yok", 0},
		{"Yok", 0},
		{"", 0},
		{"   ", 0},
		{"belirsiz", 0},
		{"ay 12", 0},
	}

	for _, tc := range cases {
		t.Run(tc.commitment, func(t *testing.T) {
			assert.Equal(t, tc.months, businessflow.ParseCommitmentDuration(tc.commitment))
		})
	}
}

func newSubscriptionFlow(testDB *testingutil.TestDB) businessflow.SubscriptionFlow {
	return businessflow.NewSubscriptionFlow(
		testDB.DB,
		repository.NewUserRepository(testDB.DB),
		repository.NewPackageRepository(testDB.DB),
		repository.NewSubscriptionRepository(testDB.DB),
		repository.NewPackageChangeRequestRepository(testDB.DB),
	)
}

func TestApproveChangeRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSubscriptionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("ActivatesSubscriptionWithCommitment", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			pkg, err := fixtures.CreateTestPackage("Mega Mobile", "12 ay", 150)
			require.NoError(t, err)
			request, err := fixtures.CreateTestChangeRequest(user.ID, pkg.ID)
			require.NoError(t, err)

			result, err := flow.ApproveChangeRequest(ctx, request.ID, metadata)
			require.NoError(t, err)

			assert.Equal(t, "approved", result.Request.Status)
			assert.NotNil(t, result.Request.ProcessedAt)

			sub := result.Subscription
			assert.Equal(t, user.ID, sub.UserID)
			assert.Equal(t, pkg.ID, sub.PackageID)
			require.NotNil(t, sub.ContractMonths)
			assert.Equal(t, 12, *sub.ContractMonths)
			require.NotNil(t, sub.EndDate)
			assert.WithinDuration(t, sub.StartDate.Add(12*30*24*time.Hour), *sub.EndDate, time.Second)
			assert.True(t, utils.IsTrue(sub.IsActive))
		})

		t.Run("NoCommitmentLeavesOpenEnd", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			pkg, err := fixtures.CreateTestPackage("Esnek Mobile", "yok", 90)
			require.NoError(t, err)
			request, err := fixtures.CreateTestChangeRequest(user.ID, pkg.ID)
			require.NoError(t, err)

			result, err := flow.ApproveChangeRequest(ctx, request.ID, metadata)
			require.NoError(t, err)

			require.NotNil(t, result.Subscription.ContractMonths)
			assert.Equal(t, 0, *result.Subscription.ContractMonths)
			assert.Nil(t, result.Subscription.EndDate)
		})

		t.Run("DeactivatesPreviousSubscription", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			oldPkg, err := fixtures.CreateTestPackage("Eski Paket", "yok", 80)
			require.NoError(t, err)
			newPkg, err := fixtures.CreateTestPackage("Yeni Paket", "24 ay", 120)
			require.NoError(t, err)
			oldSub, err := fixtures.CreateTestSubscription(user.ID, oldPkg.ID)
			require.NoError(t, err)
			request, err := fixtures.CreateTestChangeRequest(user.ID, newPkg.ID)
			require.NoError(t, err)

			result, err := flow.ApproveChangeRequest(ctx, request.ID, metadata)
			require.NoError(t, err)
			assert.NotEqual(t, oldSub.ID, result.Subscription.ID)

			subRepo := repository.NewSubscriptionRepository(testDB.DB)
			active, err := subRepo.ActiveByUser(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, active)
			assert.Equal(t, result.Subscription.ID, active.ID)
			assert.Equal(t, newPkg.ID, active.PackageID)

			previous, err := subRepo.ByID(ctx, oldSub.ID)
			require.NoError(t, err)
			require.NotNil(t, previous)
			assert.False(t, utils.IsTrue(previous.IsActive))
			assert.NotNil(t, previous.EndDate)
		})

		t.Run("AlreadyProcessedRejected", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			pkg, err := fixtures.CreateTestPackage("Tek Sefer", "yok", 70)
			require.NoError(t, err)
			request, err := fixtures.CreateTestChangeRequest(user.ID, pkg.ID)
			require.NoError(t, err)

			_, err = flow.ApproveChangeRequest(ctx, request.ID, metadata)
			require.NoError(t, err)

			_, err = flow.ApproveChangeRequest(ctx, request.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsChangeRequestAlreadyProcessed(err))
		})

		t.Run("UnknownRequest", func(t *testing.T) {
			_, err := flow.ApproveChangeRequest(ctx, 999999, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsChangeRequestNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRejectChangeRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSubscriptionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		pkg, err := fixtures.CreateTestPackage("Istenmeyen", "12 ay", 200)
		require.NoError(t, err)
		request, err := fixtures.CreateTestChangeRequest(user.ID, pkg.ID)
		require.NoError(t, err)

		result, err := flow.RejectChangeRequest(ctx, request.ID, metadata)
		require.NoError(t, err)
		assert.Equal(t, "rejected", result.Status)
		assert.NotNil(t, result.ProcessedAt)

		// No subscription was created
		subRepo := repository.NewSubscriptionRepository(testDB.DB)
		active, err := subRepo.ActiveByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, active)

		return nil
	})
	require.NoError(t, err)
}

func TestCreateChangeRequest(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSubscriptionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		pkg, err := fixtures.CreateTestPackage("Hedef Paket", "yok", 110)
		require.NoError(t, err)

		t.Run("Pending", func(t *testing.T) {
			result, err := flow.CreateChangeRequest(ctx, &dto.CreateChangeRequestRequest{
				UserID:             user.ID,
				RequestedPackageID: pkg.ID,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "pending", result.Status)
			assert.Nil(t, result.ProcessedAt)
		})

		t.Run("UnknownUser", func(t *testing.T) {
			_, err := flow.CreateChangeRequest(ctx, &dto.CreateChangeRequestRequest{
				UserID:             999999,
				RequestedPackageID: pkg.ID,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("UnknownPackage", func(t *testing.T) {
			_, err := flow.CreateChangeRequest(ctx, &dto.CreateChangeRequestRequest{
				UserID:             user.ID,
				RequestedPackageID: 999999,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPackageNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCommitmentTime(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newSubscriptionFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		pkg, err := fixtures.CreateTestPackage("Taahhutlu", "12 ay", 160)
		require.NoError(t, err)
		request, err := fixtures.CreateTestChangeRequest(user.ID, pkg.ID)
		require.NoError(t, err)
		_, err = flow.ApproveChangeRequest(ctx, request.ID, metadata)
		require.NoError(t, err)

		result, err := flow.CommitmentTime(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Taahhutlu", result.PackageName)
		assert.False(t, result.Expired)
		assert.InDelta(t, 360, result.RemainingDays, 1)

		t.Run("NoSubscription", func(t *testing.T) {
			other, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			_, err = flow.CommitmentTime(ctx, other.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNoActiveSubscription(err))
		})

		return nil
	})
	require.NoError(t, err)
}
