package repository

//go:generate go run go.uber.org/mock/mockgen -source=./participation.go -destination=../mocks/participation_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/internal/domains/attraction/model"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/logger"
	gRepo "sizopi/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryMissingAnimals = `SELECT requested.id::text
		FROM UNNEST($1::uuid[]) AS requested(id)
		LEFT JOIN hewan ON hewan.id = requested.id
		WHERE hewan.id IS NULL`

type Participation interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Participation) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Participation, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
	// MissingAnimalsTx returns the ids in animalIDs that have no hewan row.
	MissingAnimalsTx(ctx context.Context, sqltx *sqlx.Tx, animalIDs []string) ([]string, error)
}

type participationImpl struct {
	gRepo.Repository[model.Participation]
	otel otel.Otel
}

func NewParticipation(db *postgres.Connection, otel otel.Otel) Participation {
	return &participationImpl{
		Repository: gRepo.NewRepository[model.Participation](model.ParticipationEntityName, model.ParticipationTableName, model.FieldFacility, db, otel),
		otel:       otel,
	}
}

func (r *participationImpl) MissingAnimalsTx(ctx context.Context, sqltx *sqlx.Tx, animalIDs []string) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".participation.MissingAnimalsTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryMissingAnimals)

	missing := []string{}
	if len(animalIDs) == 0 {
		return missing, nil
	}

	if err := sqlx.SelectContext(ctx, sqltx, &missing, queryMissingAnimals, pq.Array(animalIDs)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to check animals: %w", err)
	}

	return missing, nil
}

func ParticipantsOf(facility string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldFacility,
				Value:    facility,
				Operator: gDto.FilterOperatorEq,
				Table:    model.ParticipationTableName,
			},
		},
	}
}
