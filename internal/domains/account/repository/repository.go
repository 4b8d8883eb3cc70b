package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/shared/constant"
	"sizopi/shared/logger"

	"github.com/jmoiron/sqlx"
)

// queryRole resolves the role tables in one round trip. A user listed in more
// than one table gets the role with the lowest priority number.
const queryRole = `SELECT role FROM (
		SELECT 'staf_admin' AS role, 1 AS prio FROM staf_admin WHERE username_sa = $1
		UNION ALL
		SELECT 'dokter_hewan', 2 FROM dokter_hewan WHERE username_dh = $1
		UNION ALL
		SELECT 'penjaga_hewan', 3 FROM penjaga_hewan WHERE username_jh = $1
		UNION ALL
		SELECT 'pelatih_hewan', 4 FROM pelatih_hewan WHERE username_lh = $1
		UNION ALL
		SELECT 'pengunjung', 5 FROM pengunjung WHERE username_p = $1
	) roles
	ORDER BY prio
	LIMIT 1`

type Account interface {
	// GetRole returns the role of username, or an empty string when the user
	// has none.
	GetRole(ctx context.Context, username string) (string, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Account {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) GetRole(ctx context.Context, username string) (string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".account.GetRole")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRole)

	var role string
	if err := sqlx.GetContext(ctx, r.db.Read, &role, queryRole, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return constant.Empty, nil
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return constant.Empty, fmt.Errorf("failed to resolve role: %w", err)
	}

	return role, nil
}
