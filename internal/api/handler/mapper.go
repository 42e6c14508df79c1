package handler

import (
	"github.com/99minutos/storefront-api/internal/core/domain"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

func toNewAccountInput(req createAccountRequest) domain.NewAccountInput {
	return domain.NewAccountInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	}
}

func toAccountChanges(id string, req updateAccountRequest) domain.AccountChanges {
	changes := domain.AccountChanges{
		ID:        id,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		changes.Role = &role
	}
	return changes
}

func toNewItemInput(req createItemRequest) domain.NewItemInput {
	return domain.NewItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
	}
}

func toItemChanges(id string, req updateItemRequest) domain.ItemChanges {
	return domain.ItemChanges{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
	}
}
