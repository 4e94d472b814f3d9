package dto

// CustomerRegisterRequest payload for new customers.
type CustomerRegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Validate checks required fields, email format and password length.
func (r CustomerRegisterRequest) Validate() error {
	return validateStruct(r)
}

// CustomerLoginRequest payload for login.
type CustomerLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks required fields and email format.
func (r CustomerLoginRequest) Validate() error {
	return validateStruct(r)
}

// CustomerResponse is the public view of a customer.
type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Message  string           `json:"message"`
	Customer CustomerResponse `json:"customer"`
}

// LoginResponse standard response for login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// MessageResponse carries a bare message.
type MessageResponse struct {
	Message string `json:"message"`
}
