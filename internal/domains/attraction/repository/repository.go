package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/internal/domains/attraction/model"
	gDto "sizopi/shared/dto"
	gRepo "sizopi/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Attraction interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Attraction) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Attraction, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Attraction, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Attraction]
}

func New(db *postgres.Connection, otel otel.Otel) Attraction {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Attraction](model.EntityName, model.TableName, model.FieldName, db, otel),
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
