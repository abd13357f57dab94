// Package businessflow contains the core business logic and use cases for customer profiles
package businessflow

import (
	"context"

	"github.com/shirfam/shirfam-backend/app/dto"
	"github.com/shirfam/shirfam-backend/repository"
	"github.com/shirfam/shirfam-backend/utils"
)

// ProfileFlow exposes the authenticated customer's profile
type ProfileFlow interface {
	GetProfile(ctx context.Context, customerID uint) (*dto.CustomerDTO, error)
	UpdateProfile(ctx context.Context, customerID uint, req *dto.UpdateProfileRequest) (*dto.CustomerDTO, error)
}

// ProfileFlowImpl implements the profile flow
type ProfileFlowImpl struct {
	customerRepo repository.CustomerRepository
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(customerRepo repository.CustomerRepository) ProfileFlow {
	return &ProfileFlowImpl{customerRepo: customerRepo}
}

func (f *ProfileFlowImpl) GetProfile(ctx context.Context, customerID uint) (*dto.CustomerDTO, error) {
	customer, err := getCustomer(ctx, f.customerRepo, customerID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}

	customerDTO := ToCustomerDTO(*customer)
	return &customerDTO, nil
}

// UpdateProfile edits the mutable profile fields. Phone and email are
// identity fields and stay fixed after signup.
func (f *ProfileFlowImpl) UpdateProfile(ctx context.Context, customerID uint, req *dto.UpdateProfileRequest) (*dto.CustomerDTO, error) {
	customer, err := getCustomer(ctx, f.customerRepo, customerID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", ErrAccountInactive)
	}

	err = f.customerRepo.UpdateProfile(ctx, customerID, req.FirstName, req.LastName, req.Address, req.CompanyName)
	if err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}

	updated, err := getCustomer(ctx, f.customerRepo, customerID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}

	customerDTO := ToCustomerDTO(*updated)
	return &customerDTO, nil
}
