package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/soilminds/soilminds-backend/api/responses"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
)

// Pinger is a dependency that can confirm its own availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, responses.M{"status": "ok"})
	}
}

// HealthReady reports readiness: the database and redis must both answer.
func HealthReady(db, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var combined error
		if db != nil {
			combined = multierr.Append(combined, db.Ping(ctx))
		}
		if cache != nil {
			combined = multierr.Append(combined, cache.Ping(ctx))
		}

		if combined != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "service not ready"))
			return
		}

		responses.WriteSuccess(w, responses.M{"status": "ready"})
	}
}
