package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soilminds/soilminds-backend/api/responses"
	"github.com/soilminds/soilminds-backend/api/validators"
	"github.com/soilminds/soilminds-backend/internal/farms"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

type farmPayload struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type completeFarmPayload struct {
	UserID uint `json:"userId"`
}

// ListFarms returns the dashboard account's farms with their fields.
func ListFarms(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"farms": list})
	}
}

// CreateFarm adds a farm for the dashboard account.
func CreateFarm(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload farmPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		farm, err := svc.Create(ctx, farms.CreateParams{Name: payload.Name, Location: payload.Location})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"farm": farm})
	}
}

// CompleteFarm closes a farm for further sampling.
func CompleteFarm(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		farmID, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload completeFarmPayload
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		farm, err := svc.Complete(ctx, farmID, payload.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"farm": farm})
	}
}

// AddFarmField creates a field inside a farm.
func AddFarmField(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		farmID, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload farmPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		field, err := svc.AddField(ctx, farms.AddFieldParams{
			FarmID:   farmID,
			Name:     payload.Name,
			Location: payload.Location,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"field": field})
	}
}

// DeleteFarm removes a farm and everything under it.
func DeleteFarm(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		farmID, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, farmID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{"message": "Farm deleted successfully"})
	}
}
