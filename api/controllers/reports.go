package controllers

import (
	"fmt"
	"net/http"

	"github.com/soilminds/soilminds-backend/api/responses"
	"github.com/soilminds/soilminds-backend/api/validators"
	"github.com/soilminds/soilminds-backend/internal/reports"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

// GetReport aggregates a user's readings into a soil-health summary.
func GetReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, fieldID, err := reportQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := svc.Build(ctx, userID, fieldID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.M{
			"totalReadings":    report.TotalReadings,
			"dateRange":        report.DateRange,
			"avgMoisture":      report.AvgMoisture,
			"avgTemperature":   report.AvgTemperature,
			"avgPh":            report.AvgPh,
			"avgCo2":           report.AvgCo2,
			"avgNitrate":       report.AvgNitrate,
			"healthScore":      report.HealthScore,
			"healthAssessment": report.HealthAssessment,
			"readings":         report.Readings,
		})
	}
}

// DownloadReport streams the HTML report as an attachment.
func DownloadReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, fieldID, err := reportQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		download, err := svc.Render(ctx, userID, fieldID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", download.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(download.Body)
	}
}

func reportQuery(r *http.Request) (uint, *uint, error) {
	userID, err := validators.ParseQueryID(r, "userId")
	if err != nil {
		return 0, nil, err
	}
	if userID == nil {
		return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "User ID is required")
	}
	fieldID, err := validators.ParseQueryID(r, "fieldId")
	if err != nil {
		return 0, nil, err
	}
	return *userID, fieldID, nil
}
