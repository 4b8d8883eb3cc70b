package repository

//go:generate go run go.uber.org/mock/mockgen -source=./assignment.go -destination=../mocks/assignment_mock.go -package=mocks

import (
	"context"

	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/internal/domains/attraction/model"
	gDto "sizopi/shared/dto"
	gRepo "sizopi/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Assignment keeps the trainer history of attractions. The newest row is the
// current trainer.
type Assignment interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Assignment) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)
}

type assignmentImpl struct {
	gRepo.Repository[model.Assignment]
}

func NewAssignment(db *postgres.Connection, otel otel.Otel) Assignment {
	return &assignmentImpl{
		Repository: gRepo.NewRepository[model.Assignment](model.AssignmentEntityName, model.AssignmentTableName, model.FieldTrainer, db, otel),
	}
}

func AssignmentsOf(attraction string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Value:    attraction,
				Operator: gDto.FilterOperatorEq,
				Table:    model.AssignmentTableName,
			},
		},
	}
}
