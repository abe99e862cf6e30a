package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soilminds/soilminds-backend/api/responses"
	"github.com/soilminds/soilminds-backend/api/validators"
	"github.com/soilminds/soilminds-backend/internal/auth"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

type signupPayload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account and its starter field.
func Signup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload signupPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Signup(ctx, auth.SignupParams{
			Name:            payload.Name,
			Email:           payload.Email,
			Password:        payload.Password,
			ConfirmPassword: payload.ConfirmPassword,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"message": "Account created successfully",
			"user":    user,
		})
	}
}

// Login authenticates by email and password.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Login(ctx, auth.LoginParams{Email: payload.Email, Password: payload.Password})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"message": "Login successful",
			"user":    user,
		})
	}
}

// GetUser returns the public view of one account.
func GetUser(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.GetUser(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"user": user})
	}
}

// Logout acknowledges the request; the client clears its own state.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, responses.M{"message": "Logged out successfully"})
	}
}
