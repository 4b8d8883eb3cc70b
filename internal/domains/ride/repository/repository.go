package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/internal/domains/ride/model"
	gDto "sizopi/shared/dto"
	gRepo "sizopi/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Ride interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Ride) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Ride, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Ride, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Ride]
}

func New(db *postgres.Connection, otel otel.Otel) Ride {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Ride](model.EntityName, model.TableName, model.FieldName, db, otel),
	}
}

func ByName(name string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Value:    name,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
