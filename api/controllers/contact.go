package controllers

import (
	"net/http"

	"github.com/soilminds/soilminds-backend/api/responses"
	"github.com/soilminds/soilminds-backend/api/validators"
	"github.com/soilminds/soilminds-backend/internal/contact"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	UserID  *uint  `json:"userId"`
}

// SendContactEmail handles the contact form.
func SendContactEmail(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload contactPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Send(ctx, contact.SendParams{
			Name:    payload.Name,
			Email:   payload.Email,
			Message: payload.Message,
			UserID:  payload.UserID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"message":   result.Message,
			"emailSent": result.EmailSent,
		})
	}
}

// SentEmails returns the user's recent contact submissions.
func SentEmails(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := validators.ParseQueryID(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if userID == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "userId is required"))
			return
		}

		emails, err := svc.SentEmails(ctx, *userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"emails": emails})
	}
}
