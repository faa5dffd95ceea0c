package businessflow_test

import (
	"testing"

	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/config"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	testingutil "github.com/anatolia-telecom/backoffice/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBillingFlow(testDB *testingutil.TestDB) businessflow.BillingFlow {
	return businessflow.NewBillingFlow(
		testDB.DB,
		repository.NewUserRepository(testDB.DB),
		repository.NewSubscriptionRepository(testDB.DB),
		repository.NewServicePurchaseRepository(testDB.DB),
		repository.NewInvoiceRepository(testDB.DB),
		repository.NewInvoiceItemRepository(testDB.DB),
		config.BillingConfig{TaxRate: 0.18, ChargeWindowDays: 30},
	)
}

func TestGenerateInvoice(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newBillingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("PackageFeePlusPurchases", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			pkg, err := fixtures.CreateTestPackage("Fatura Paketi", "12 ay", 100)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSubscription(user.ID, pkg.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestPurchase(user.ID, models.ServiceTypeSMS, 40, 0.5)
			require.NoError(t, err)

			invoice, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
			require.NoError(t, err)

			assert.Equal(t, user.ID, invoice.UserID)
			assert.Equal(t, "pending", invoice.Status)
			assert.InDelta(t, 120, invoice.TotalAmount, 0.001)
			require.Len(t, invoice.Items, 2)

			byType := map[string]dto.InvoiceItemDTO{}
			for _, item := range invoice.Items {
				byType[item.ServiceType] = item
			}
			assert.InDelta(t, 100, byType[models.ServiceTypePackage].TotalPrice, 0.001)
			assert.Equal(t, 1, byType[models.ServiceTypePackage].Quantity)
			assert.InDelta(t, 20, byType[models.ServiceTypeSMS].TotalPrice, 0.001)
			assert.Equal(t, 40, byType[models.ServiceTypeSMS].Quantity)
		})

		t.Run("RerunSkipsBilledPurchases", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			pkg, err := fixtures.CreateTestPackage("Tekrar Paketi", "yok", 100)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSubscription(user.ID, pkg.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestPurchase(user.ID, models.ServiceTypeEmail, 10, 2)
			require.NoError(t, err)

			first, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
			require.NoError(t, err)
			assert.InDelta(t, 120, first.TotalAmount, 0.001)

			second, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
			require.NoError(t, err)
			assert.InDelta(t, 100, second.TotalAmount, 0.001)
			require.Len(t, second.Items, 1)
			assert.Equal(t, models.ServiceTypePackage, second.Items[0].ServiceType)
		})

		t.Run("NoSubscriptionNoPurchases", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			invoice, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
			require.NoError(t, err)
			assert.InDelta(t, 0, invoice.TotalAmount, 0.001)
			assert.Empty(t, invoice.Items)
		})

		t.Run("UnknownUser", func(t *testing.T) {
			_, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: 999999}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMarkInvoicePaid(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newBillingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		pkg, err := fixtures.CreateTestPackage("Odeme Paketi", "yok", 50)
		require.NoError(t, err)
		_, err = fixtures.CreateTestSubscription(user.ID, pkg.ID)
		require.NoError(t, err)

		invoice, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
		require.NoError(t, err)

		paid, err := flow.MarkInvoicePaid(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "paid", paid.Status)
		assert.NotNil(t, paid.PaidAt)

		t.Run("SecondPaymentRejected", func(t *testing.T) {
			_, err := flow.MarkInvoicePaid(ctx, invoice.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvoiceAlreadyPaid(err))
		})

		t.Run("UnknownInvoice", func(t *testing.T) {
			_, err := flow.MarkInvoicePaid(ctx, 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvoiceNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListInvoices(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newBillingFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		pkg, err := fixtures.CreateTestPackage("Liste Paketi", "yok", 75)
		require.NoError(t, err)
		_, err = fixtures.CreateTestSubscription(user.ID, pkg.ID)
		require.NoError(t, err)

		first, err := flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
		require.NoError(t, err)
		_, err = flow.GenerateInvoice(ctx, &dto.GenerateInvoiceRequest{UserID: user.ID}, metadata)
		require.NoError(t, err)

		t.Run("ByUser", func(t *testing.T) {
			invoices, err := flow.ListInvoicesByUser(ctx, user.ID)
			require.NoError(t, err)
			assert.Len(t, invoices, 2)
		})

		t.Run("UnpaidThenPaid", func(t *testing.T) {
			unpaid, err := flow.ListUnpaidInvoices(ctx)
			require.NoError(t, err)
			assert.Len(t, unpaid, 2)

			_, err = flow.MarkInvoicePaid(ctx, first.ID)
			require.NoError(t, err)

			unpaid, err = flow.ListUnpaidInvoices(ctx)
			require.NoError(t, err)
			assert.Len(t, unpaid, 1)
		})

		t.Run("Items", func(t *testing.T) {
			items, err := flow.ListInvoiceItems(ctx, first.ID)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, models.ServiceTypePackage, items[0].ServiceType)
		})

		return nil
	})
	require.NoError(t, err)
}
