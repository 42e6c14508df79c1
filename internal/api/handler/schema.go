package handler

import "github.com/99minutos/storefront-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// dataResponse wraps every successful payload.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(data any) dataResponse {
	return dataResponse{Success: true, Data: data}
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=100"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type authPayload struct {
	Token string          `json:"token"`
	User  *domain.Account `json:"user"`
}

// --- Accounts ---

type createAccountRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=100"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
	Role      string `json:"role"       validate:"omitempty,oneof=standard administrator"`
}

// updateAccountRequest fields are optional; a present field is applied even
// when it holds the zero value.
type updateAccountRequest struct {
	ID        string  `json:"id,omitempty"`
	Email     *string `json:"email"      validate:"omitnil,email"`
	Password  *string `json:"password"   validate:"omitnil,min=8,max=100"`
	FirstName *string `json:"first_name" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"last_name"  validate:"omitnil,min=1,max=100"`
	Role      *string `json:"role"       validate:"omitnil,oneof=standard administrator"`
}

// --- Catalog ---

type createItemRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"required,min=1,max=500"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Category    string  `json:"category"    validate:"required,min=1,max=50"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url"`
	InStock     *bool   `json:"in_stock"`
}

type updateItemRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        *string  `json:"name"        validate:"omitnil,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,min=1,max=500"`
	Price       *float64 `json:"price"       validate:"omitnil,gt=0"`
	Category    *string  `json:"category"    validate:"omitnil,min=1,max=50"`
	ImageURL    *string  `json:"image_url"   validate:"omitnil,url"`
	InStock     *bool    `json:"in_stock"`
}
