package businessflow

import (
	"context"
	"strings"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
)

// PackageFlow defines tariff package management operations
type PackageFlow interface {
	CreatePackage(ctx context.Context, req *dto.CreatePackageRequest, metadata *ClientMetadata) (*dto.PackageDTO, error)
	GetPackage(ctx context.Context, id uint) (*dto.PackageDTO, error)
	UpdatePackage(ctx context.Context, id uint, req *dto.UpdatePackageRequest, metadata *ClientMetadata) (*dto.PackageDTO, error)
	DeletePackage(ctx context.Context, id uint) error
	ListPackages(ctx context.Context) ([]dto.PackageDTO, error)
	ListActivePackages(ctx context.Context) ([]dto.PackageDTO, error)
	ListPackageUsers(ctx context.Context, id uint) ([]dto.UserDTO, error)
}

// PackageFlowImpl implements PackageFlow
type PackageFlowImpl struct {
	packageRepo repository.PackageRepository
	userRepo    repository.UserRepository
}

func NewPackageFlow(packageRepo repository.PackageRepository, userRepo repository.UserRepository) PackageFlow {
	return &PackageFlowImpl{packageRepo: packageRepo, userRepo: userRepo}
}

// CreatePackage defines a new tariff package
func (f *PackageFlowImpl) CreatePackage(ctx context.Context, req *dto.CreatePackageRequest, metadata *ClientMetadata) (*dto.PackageDTO, error) {
	commitment := strings.TrimSpace(req.Commitment)
	if commitment == "" {
		commitment = models.CommitmentNone
	}

	pkg := models.Package{
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		Details:    models.PackageDetails(req.Details),
		Commitment: commitment,
		MonthlyFee: req.MonthlyFee,
	}
	if err := f.packageRepo.Save(ctx, &pkg); err != nil {
		return nil, NewBusinessError("PACKAGE_CREATE_FAILED", "failed to create package", err)
	}

	d := ToPackageDTO(pkg)
	return &d, nil
}

// GetPackage returns one package by ID
func (f *PackageFlowImpl) GetPackage(ctx context.Context, id uint) (*dto.PackageDTO, error) {
	pkg, err := getPackage(ctx, f.packageRepo, id)
	if err != nil {
		return nil, err
	}
	d := ToPackageDTO(*pkg)
	return &d, nil
}

// UpdatePackage applies the provided fields to the package
func (f *PackageFlowImpl) UpdatePackage(ctx context.Context, id uint, req *dto.UpdatePackageRequest, metadata *ClientMetadata) (*dto.PackageDTO, error) {
	patch := models.PackagePatch{
		Name:       req.Name,
		Type:       req.Type,
		Commitment: req.Commitment,
		MonthlyFee: req.MonthlyFee,
		IsActive:   req.IsActive,
	}
	if req.Details != nil {
		patch.Details = models.PackageDetails(*req.Details)
	}

	updated, err := f.packageRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, NewBusinessError("PACKAGE_UPDATE_FAILED", "failed to update package", err)
	}
	if updated == nil {
		return nil, ErrPackageNotFound
	}

	d := ToPackageDTO(*updated)
	return &d, nil
}

// DeletePackage removes a package
func (f *PackageFlowImpl) DeletePackage(ctx context.Context, id uint) error {
	deleted, err := f.packageRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("PACKAGE_DELETE_FAILED", "failed to delete package", err)
	}
	if !deleted {
		return ErrPackageNotFound
	}
	return nil
}

// ListPackages lists all packages
func (f *PackageFlowImpl) ListPackages(ctx context.Context) ([]dto.PackageDTO, error) {
	packages, err := f.packageRepo.ByFilter(ctx, models.PackageFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PACKAGE_LIST_FAILED", "failed to list packages", err)
	}
	return toPackageDTOs(packages), nil
}

// ListActivePackages lists only packages open for sale
func (f *PackageFlowImpl) ListActivePackages(ctx context.Context) ([]dto.PackageDTO, error) {
	packages, err := f.packageRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("PACKAGE_LIST_FAILED", "failed to list active packages", err)
	}
	return toPackageDTOs(packages), nil
}

// ListPackageUsers lists users whose legacy package reference points at the package
func (f *PackageFlowImpl) ListPackageUsers(ctx context.Context, id uint) ([]dto.UserDTO, error) {
	if _, err := getPackage(ctx, f.packageRepo, id); err != nil {
		return nil, err
	}
	users, err := f.userRepo.ListByPackage(ctx, id)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "failed to list package users", err)
	}
	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserDTO(*u))
	}
	return out, nil
}

func toPackageDTOs(packages []*models.Package) []dto.PackageDTO {
	out := make([]dto.PackageDTO, 0, len(packages))
	for _, p := range packages {
		out = append(out, ToPackageDTO(*p))
	}
	return out
}
