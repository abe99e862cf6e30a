package readings

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/logger"
	"github.com/soilminds/soilminds-backend/pkg/mlservice"
)

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Locker serializes generation per farm (or per user when unscoped) across
// instances.
type Locker interface {
	Acquire(ctx context.Context, scope, id string) (func(context.Context) error, error)
}

// DefaultUserProvider resolves the provisioned account that owns simulated
// readings when no user is given.
type DefaultUserProvider interface {
	EnsureDefaultUser(ctx context.Context) (*models.User, error)
}

// Service defines sensor reading operations. Generate is the heart of the
// system: it rotates simulated readings across fields round-robin.
type Service interface {
	Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error)
	Latest(ctx context.Context, fieldID, farmID *uint) (*LatestResult, error)
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	Predict(ctx context.Context) (*PredictResult, error)
	MLStatus(ctx context.Context) map[string]any
}

// ServiceParams wires the readings service dependencies.
type ServiceParams struct {
	Repo        Repository
	Tx          TxRunner
	Lock        Locker
	DefaultUser DefaultUserProvider
	Generator   *Generator
	ML          mlservice.Caller
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	tx          TxRunner
	lock        Locker
	defaultUser DefaultUserProvider
	generator   *Generator
	ml          mlservice.Caller
	logger      *logger.Logger
}

// NewService wires reading dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "readings repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Lock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "lock required")
	}
	if params.DefaultUser == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "default user provider required")
	}
	if params.ML == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ml client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if params.Generator == nil {
		params.Generator = NewGenerator(nil)
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		lock:        params.Lock,
		defaultUser: params.DefaultUser,
		generator:   params.Generator,
		ml:          params.ML,
		logger:      params.Logger,
	}, nil
}

// Generate creates one simulated reading and assigns it to the next field in
// rotation. Candidate fields are the farm's fields (creation order) when a
// farm is given, otherwise all of the user's fields. The field after the one
// that received the previous reading gets this one; a prior field that has
// left the candidate list resets the rotation to the first candidate.
//
// Selection and insert run in one transaction under a redis lock so
// concurrent calls cannot assign the same slot twice.
func (s *service) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	var userID uint
	if params.UserID != nil {
		userID = *params.UserID
	} else {
		owner, err := s.defaultUser.EnsureDefaultUser(ctx)
		if err != nil {
			return nil, err
		}
		userID = owner.ID
	}

	scope, lockID := "generate:user", strconv.FormatUint(uint64(userID), 10)
	if params.FarmID != nil {
		scope, lockID = "generate:farm", strconv.FormatUint(uint64(*params.FarmID), 10)
	}
	release, err := s.lock.Acquire(ctx, scope, lockID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Reading generation already in progress")
	}
	defer func() {
		if err := release(ctx); err != nil {
			s.logger.Error(ctx, "release generation lock", err)
		}
	}()

	var result *GenerateResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var selectedFarm *models.Farm
		var candidates []models.Field

		if params.FarmID != nil {
			farm, err := repo.FarmByID(ctx, *params.FarmID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up farm")
			}
			if farm == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Farm not found")
			}
			if farm.UserID != userID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "Farm belongs to another user")
			}
			if farm.Completed {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "Farm sampling is completed")
			}
			selectedFarm = farm
			candidates = farm.Fields
		} else {
			fields, err := repo.FieldsByUser(ctx, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fields")
			}
			candidates = fields
		}

		// First reading ever: provision a farm and field to sample into.
		if len(candidates) == 0 {
			if selectedFarm == nil {
				farm := &models.Farm{Name: "Default Farm", Location: "Unknown", UserID: userID}
				if err := repo.CreateFarm(ctx, farm); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default farm")
				}
				selectedFarm = farm
			}
			location := "Default Location"
			field := &models.Field{Name: "Field 1", Location: &location, UserID: userID, FarmID: &selectedFarm.ID}
			if err := repo.CreateField(ctx, field); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default field")
			}
			candidates = []models.Field{*field}
		}

		last, err := repo.LastReading(ctx, userID, params.FarmID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up last reading")
		}

		next := candidates[0]
		if last != nil {
			lastIndex := -1
			for i, field := range candidates {
				if field.ID == last.FieldID {
					lastIndex = i
					break
				}
			}
			// lastIndex stays -1 when the previous field left the candidate
			// set; (-1+1) mod len restarts the rotation at the first field.
			next = candidates[(lastIndex+1)%len(candidates)]
		}

		sample := s.generator.Next()
		reading := &models.SensorReading{
			SoilMoisture: sample.SoilMoisture,
			Temperature:  sample.Temperature,
			Co2:          sample.Co2,
			Nitrate:      sample.Nitrate,
			Ph:           sample.Ph,
			FieldID:      next.ID,
			UserID:       userID,
		}
		if err := repo.CreateReading(ctx, reading); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reading")
		}

		result = &GenerateResult{AssignedFieldID: next.ID, Reading: reading}
		if selectedFarm != nil {
			result.FarmID = &selectedFarm.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"field_id": result.AssignedFieldID, "user_id": userID}
	if result.FarmID != nil {
		fields["farm_id"] = *result.FarmID
	}
	s.logger.Info(s.logger.WithFields(ctx, fields), "reading generated")
	return result, nil
}

// Latest returns the newest reading as dashboard gauges, "--" placeholders
// when nothing matches the filter.
func (s *service) Latest(ctx context.Context, fieldID, farmID *uint) (*LatestResult, error) {
	reading, err := s.repo.Latest(ctx, fieldID, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up latest reading")
	}
	if reading == nil {
		return &LatestResult{Readings: emptyGauges()}, nil
	}

	ts := reading.Timestamp
	return &LatestResult{
		Readings: LatestReadings{
			SoilMoisture: MetricReading{Value: reading.SoilMoisture, Unit: "%", Timestamp: &ts},
			Temperature:  MetricReading{Value: reading.Temperature, Unit: "°C", Timestamp: &ts},
			Co2:          MetricReading{Value: reading.Co2, Unit: "ppm", Timestamp: &ts},
			Nitrate:      MetricReading{Value: reading.Nitrate, Unit: "mg/L", Timestamp: &ts},
			Ph:           MetricReading{Value: reading.Ph, Unit: "", Timestamp: &ts},
		},
		Raw: reading,
	}, nil
}

const defaultListLimit = 200

func (s *service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	if query.Limit <= 0 {
		query.Limit = defaultListLimit
	}
	if query.Skip < 0 {
		query.Skip = 0
	}
	readings, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list readings")
	}
	if readings == nil {
		readings = []models.SensorReading{}
	}
	return &ListResult{Total: total, Readings: readings}, nil
}

// Predict forwards the newest reading to the scoring service.
func (s *service) Predict(ctx context.Context) (*PredictResult, error) {
	reading, err := s.repo.Latest(ctx, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up latest reading")
	}
	if reading == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No readings found to predict on")
	}

	prediction, err := s.ml.PredictHealth(ctx, mlservice.HealthInput{
		CO2PPM:      reading.Co2,
		NitratePPM:  reading.Nitrate,
		PH:          reading.Ph,
		TempC:       reading.Temperature,
		MoisturePct: reading.SoilMoisture,
	})
	if err != nil {
		return nil, err
	}
	return &PredictResult{
		Reading:         reading,
		Predictions:     prediction.Predictions,
		Recommendations: prediction.Recommendations,
	}, nil
}

// MLStatus proxies the model status. Failures degrade to an "unavailable"
// payload rather than an error so the dashboard widget renders.
func (s *service) MLStatus(ctx context.Context) map[string]any {
	status, err := s.ml.Status(ctx)
	if err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "ml status unavailable")
		return map[string]any{
			"success": false,
			"status":  "unavailable",
			"message": "ML service not available",
		}
	}
	out := map[string]any{"success": true}
	for key, value := range status {
		out[key] = value
	}
	return out
}

func emptyGauges() LatestReadings {
	return LatestReadings{
		SoilMoisture: MetricReading{Value: "--", Unit: "%"},
		Temperature:  MetricReading{Value: "--", Unit: "°C"},
		Co2:          MetricReading{Value: "--", Unit: "ppm"},
		Nitrate:      MetricReading{Value: "--", Unit: "mg/L"},
		Ph:           MetricReading{Value: "--", Unit: ""},
	}
}
