// Package testing provides test utilities and database setup for testing the back office system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active subscriber with a unique phone number
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)
	email := fmt.Sprintf("ayse.yilmaz.%s@example.com", randomDigits)

	user := &models.User{
		Name:        "Ayse",
		Surname:     "Yilmaz",
		PhoneNumber: fmt.Sprintf("+905%s", randomDigits),
		Email:       &email,
		IsActive:    utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestPackage creates an active mobile package
func (tf *TestFixtures) CreateTestPackage(name, commitment string, monthlyFee float64) (*models.Package, error) {
	pkg := &models.Package{
		Name:       name,
		Type:       models.PackageTypeMobile,
		Details:    models.PackageDetails{"internet_gb": "20", "minutes": "1000", "sms": "500"},
		Commitment: commitment,
		MonthlyFee: monthlyFee,
		IsActive:   utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(pkg).Error; err != nil {
		return nil, fmt.Errorf("failed to create test package: %w", err)
	}
	return pkg, nil
}

// CreateTestSubscription creates an active subscription linking user and package
func (tf *TestFixtures) CreateTestSubscription(userID, packageID uint) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:    userID,
		PackageID: packageID,
		StartDate: utils.UTCNow(),
		IsActive:  utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create test subscription: %w", err)
	}
	return sub, nil
}

// CreateTestPurchase creates an unbilled service purchase dated now
func (tf *TestFixtures) CreateTestPurchase(userID uint, serviceType string, count int, unitPrice float64) (*models.ServicePurchase, error) {
	purchase := &models.ServicePurchase{
		UserID:        userID,
		ServiceType:   serviceType,
		Count:         count,
		UnitPrice:     unitPrice,
		PurchasePrice: float64(count) * unitPrice,
		PurchaseDate:  utils.UTCNow(),
		IsUsed:        utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(purchase).Error; err != nil {
		return nil, fmt.Errorf("failed to create test purchase: %w", err)
	}
	return purchase, nil
}

// CreateTestBalance creates a prepaid balance row for a user and service type
func (tf *TestFixtures) CreateTestBalance(userID uint, serviceType string, count int) (*models.RemainingUses, error) {
	balance := &models.RemainingUses{
		UserID:         userID,
		ServiceType:    serviceType,
		RemainingCount: count,
		TotalAllocated: count,
	}

	if err := tf.DB.DB.Create(balance).Error; err != nil {
		return nil, fmt.Errorf("failed to create test balance: %w", err)
	}
	return balance, nil
}

// CreateTestChangeRequest creates a pending package change request
func (tf *TestFixtures) CreateTestChangeRequest(userID, requestedPackageID uint) (*models.PackageChangeRequest, error) {
	request := &models.PackageChangeRequest{
		UserID:             userID,
		RequestedPackageID: requestedPackageID,
		Status:             models.ChangeRequestStatusPending,
		RequestedAt:        utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create test change request: %w", err)
	}
	return request, nil
}
