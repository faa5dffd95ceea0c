package businessflow

import (
	"context"
	"strings"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
)

// UserFlow defines user management operations
type UserFlow interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error)
	GetUser(ctx context.Context, id uint) (*dto.UserDTO, error)
	GetUserByPhone(ctx context.Context, phone string) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context, limit, offset int) (*dto.UserListResponse, error)
	GetUserPackage(ctx context.Context, id uint) (*dto.PackageDTO, error)
}

// UserFlowImpl implements UserFlow
type UserFlowImpl struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
}

func NewUserFlow(userRepo repository.UserRepository, subscriptionRepo repository.SubscriptionRepository) UserFlow {
	return &UserFlowImpl{userRepo: userRepo, subscriptionRepo: subscriptionRepo}
}

// CreateUser registers a user; the phone number must not already be taken
func (f *UserFlowImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	existing, err := f.userRepo.ByPhone(ctx, phone)
	if err != nil {
		return nil, NewBusinessError("USER_FETCH_FAILED", "failed to check phone number", err)
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyUsed
	}

	user := models.User{
		Name:        strings.TrimSpace(req.Name),
		Surname:     strings.TrimSpace(req.Surname),
		PhoneNumber: phone,
		Email:       req.Email,
	}
	if err := f.userRepo.Save(ctx, &user); err != nil {
		return nil, NewBusinessError("USER_CREATE_FAILED", "failed to create user", err)
	}

	d := ToUserDTO(user)
	return &d, nil
}

// GetUser returns one user by ID
func (f *UserFlowImpl) GetUser(ctx context.Context, id uint) (*dto.UserDTO, error) {
	user, err := getUser(ctx, f.userRepo, id)
	if err != nil {
		return nil, err
	}
	d := ToUserDTO(*user)
	return &d, nil
}

// GetUserByPhone returns one user by phone number
func (f *UserFlowImpl) GetUserByPhone(ctx context.Context, phone string) (*dto.UserDTO, error) {
	user, err := getUserByPhone(ctx, f.userRepo, phone)
	if err != nil {
		return nil, err
	}
	d := ToUserDTO(*user)
	return &d, nil
}

// UpdateUser applies the provided fields to the user
func (f *UserFlowImpl) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error) {
	if req.PhoneNumber != nil {
		other, err := f.userRepo.ByPhone(ctx, *req.PhoneNumber)
		if err != nil {
			return nil, NewBusinessError("USER_FETCH_FAILED", "failed to check phone number", err)
		}
		if other != nil && other.ID != id {
			return nil, ErrPhoneAlreadyUsed
		}
	}

	updated, err := f.userRepo.Update(ctx, id, models.UserPatch{
		Name:        req.Name,
		Surname:     req.Surname,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return nil, NewBusinessError("USER_UPDATE_FAILED", "failed to update user", err)
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	d := ToUserDTO(*updated)
	return &d, nil
}

// DeleteUser removes a user
func (f *UserFlowImpl) DeleteUser(ctx context.Context, id uint) error {
	deleted, err := f.userRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("USER_DELETE_FAILED", "failed to delete user", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns a page of users with the total count
func (f *UserFlowImpl) ListUsers(ctx context.Context, limit, offset int) (*dto.UserListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := f.userRepo.ByFilter(ctx, models.UserFilter{}, "id ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "failed to list users", err)
	}
	total, err := f.userRepo.Count(ctx, models.UserFilter{})
	if err != nil {
		return nil, NewBusinessError("USER_COUNT_FAILED", "failed to count users", err)
	}

	resp := &dto.UserListResponse{
		Message: "Users retrieved",
		Items:   []dto.UserDTO{},
		Total:   total,
	}
	for _, u := range users {
		resp.Items = append(resp.Items, ToUserDTO(*u))
	}
	return resp, nil
}

// GetUserPackage returns the package behind the user's active subscription
func (f *UserFlowImpl) GetUserPackage(ctx context.Context, id uint) (*dto.PackageDTO, error) {
	if _, err := getUser(ctx, f.userRepo, id); err != nil {
		return nil, err
	}
	sub, err := f.subscriptionRepo.ActiveByUser(ctx, id)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_FETCH_FAILED", "failed to fetch active subscription", err)
	}
	if sub == nil || sub.Package == nil {
		return nil, ErrNoActiveSubscription
	}
	d := ToPackageDTO(*sub.Package)
	return &d, nil
}
