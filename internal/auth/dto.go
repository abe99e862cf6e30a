package auth

// SignupParams carries a signup request into the service.
type SignupParams struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginParams carries a login request into the service.
type LoginParams struct {
	Email    string
	Password string
}
