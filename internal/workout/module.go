// Package workout wires the workout tracking module: the exercise catalog,
// weekday plans, logged sets, the activity calendar, and progress graphs.
package workout

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/pkg/validator"
	"github.com/liftlog/liftlog/internal/workout/inbound"
	"github.com/liftlog/liftlog/internal/workout/outbound/db"
	"github.com/liftlog/liftlog/internal/workout/outbound/memory"
	"github.com/liftlog/liftlog/internal/workout/usecase"
)

type Dependency struct {
	// DBConn may be nil, in which case workout data lives in process memory.
	DBConn    *pgxpool.Pool
	Router    *router.Router      `validate:"required"`
	Config    config.Config       `validate:"required"`
	Clock     clock.Clocker       `validate:"required"`
	Validator validator.Validator `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		Validator: dep.Validator,
		Config:    dep.Config,
		Clock:     dep.Clock,
	}
	if dep.DBConn != nil {
		ucDep.RepoDB = db.NewDB(dep.DBConn)
	} else {
		ucDep.RepoDB = memory.NewMemory()
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep))

	return nil
}
