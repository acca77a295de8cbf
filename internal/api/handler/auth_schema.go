package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// sessionUserResponse is the user shape returned by the auth endpoints and
// mirrored into the client-readable "user" cookie. Display only.
type sessionUserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id,omitempty"`
}

type authResponse struct {
	User sessionUserResponse `json:"user"`
}
