package controllers

import (
	"net/http"

	"github.com/soilminds/soilminds-backend/api/responses"
	"github.com/soilminds/soilminds-backend/api/validators"
	"github.com/soilminds/soilminds-backend/internal/readings"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

type generatePayload struct {
	UserID *uint `json:"userId"`
	FarmID *uint `json:"farmId"`
}

// GenerateReading simulates one reading and assigns it round-robin.
func GenerateReading(svc readings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload generatePayload
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Generate(ctx, readings.GenerateParams{
			UserID: payload.UserID,
			FarmID: payload.FarmID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"assignedFieldId": result.AssignedFieldID,
			"reading":         result.Reading,
			"farmId":          result.FarmID,
		})
	}
}

// LatestReading returns the newest reading as dashboard gauges.
func LatestReading(svc readings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fieldID, err := validators.ParseQueryID(r, "fieldId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		farmID, err := validators.ParseQueryID(r, "farmId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Latest(ctx, fieldID, farmID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if result.Raw == nil {
			responses.WriteSuccess(w, responses.M{
				"readings": result.Readings,
				"message":  "No readings found",
			})
			return
		}

		responses.WriteSuccess(w, responses.M{
			"readings":   result.Readings,
			"rawReading": result.Raw,
		})
	}
}

// ListReadings returns the reading timeline for charts.
func ListReadings(svc readings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fieldID, err := validators.ParseQueryID(r, "fieldId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		farmID, err := validators.ParseQueryID(r, "farmId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 200, 1, 1000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, readings.ListQuery{
			FieldID: fieldID,
			FarmID:  farmID,
			Limit:   limit,
			Skip:    skip,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"total":    result.Total,
			"count":    len(result.Readings),
			"readings": result.Readings,
		})
	}
}

// PredictReading scores the newest reading via the ML service.
func PredictReading(svc readings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		result, err := svc.Predict(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"reading":         result.Reading,
			"predictions":     result.Predictions,
			"recommendations": result.Recommendations,
		})
	}
}

// MLStatus proxies the model status, degrading to "unavailable" on failure.
func MLStatus(svc readings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteRaw(w, http.StatusOK, svc.MLStatus(r.Context()))
	}
}
