package controllers

import (
	"net/http"

	"github.com/soilminds/soilminds-backend/api/responses"
	"github.com/soilminds/soilminds-backend/api/validators"
	"github.com/soilminds/soilminds-backend/internal/fields"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

type createFieldPayload struct {
	UserID   uint   `json:"userId"`
	Name     string `json:"name"`
	Location string `json:"location"`
	FarmID   *uint  `json:"farmId"`
}

type updateFieldPayload struct {
	FieldID  uint   `json:"fieldId"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type deleteFieldPayload struct {
	FieldID uint `json:"fieldId"`
}

// CreateField adds a field directly under a user.
func CreateField(svc fields.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createFieldPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		field, err := svc.Create(ctx, fields.CreateParams{
			UserID:   payload.UserID,
			Name:     payload.Name,
			Location: payload.Location,
			FarmID:   payload.FarmID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"message": "Field created successfully",
			"field":   field,
		})
	}
}

// ListFields returns a user's fields with their reading counts.
func ListFields(svc fields.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := validators.ParseQueryID(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if userID == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "User ID is required"))
			return
		}

		list, err := svc.List(ctx, *userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"fields": list})
	}
}

// UpdateField renames or relocates a field.
func UpdateField(svc fields.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload updateFieldPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		field, err := svc.Update(ctx, fields.UpdateParams{
			FieldID:  payload.FieldID,
			Name:     payload.Name,
			Location: payload.Location,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"message": "Field updated successfully",
			"field":   field,
		})
	}
}

// DeleteField removes a field and its readings.
func DeleteField(svc fields.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload deleteFieldPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, payload.FieldID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"message": "Field deleted successfully"})
	}
}
