// Package repository holds the generic table gateway every domain
// repository embeds. Columns come from struct tags: `db` names the column,
// `table` marks a column read from a joined table and `column` renames it
// in the select list. A model may expose GetJoinQuery to add a JOIN to reads.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sizopi/infras/otel"
	"sizopi/infras/postgres"
	"sizopi/shared/constant"
	"sizopi/shared/dto"
	"sizopi/shared/logger"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

const updateArgPrefix = "set_"

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("empty update")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Repository[T any] struct {
	db     *postgres.Connection
	otel   otel.Otel
	entity string
	schema schema
}

func NewRepository[T any](entityName, tableName, keyColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:     dbConnection,
		otel:   otl,
		entity: entityName,
		schema: describe[T](tableName, keyColumn),
	}
}

func (repo *Repository[T]) trace(ctx context.Context, op, query string) (context.Context, otel.Scope) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		constant.OtelRepositoryScopeName+"."+repo.entity+"."+op)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return ctx, scope
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// prepared runs fn against query prepared on prep, closing the statement after.
func (repo *Repository[T]) prepared(ctx context.Context, prep preparer, op, query string, fn func(*sqlx.NamedStmt) error) error {
	ctx, scope := repo.trace(ctx, op, query)
	defer scope.End()

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare "+op, err)
	}
	defer stmt.Close()

	if err = fn(stmt); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return repo.fail(scope, op, err)
	}

	return err
}

func (repo *Repository[T]) exec(ctx context.Context, exec execer, op, query string, arg any) (int64, error) {
	ctx, scope := repo.trace(ctx, op, query)
	defer scope.End()

	result, err := exec.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, repo.fail(scope, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows of "+op, err)
	}

	return affected, nil
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	_, err := repo.exec(ctx, sqltx, "insert", repo.schema.insertQuery(), model)

	return err
}

// InsertBulkTx writes all models in one multi-row INSERT.
func (repo *Repository[T]) InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	_, err := repo.exec(ctx, sqltx, "bulk insert", repo.schema.insertQuery(), models)

	return err
}

func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exists bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.schema.table, where)
	err := repo.prepared(ctx, sqltx, "check existence", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exists, args)
	})

	return exists, err
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, false, columns)
}

// GetForUpdateTx reads a row inside sqltx and locks it until the transaction ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (T, error) {
	return repo.get(ctx, sqltx, filter, true, nil)
}

func (repo *Repository[T]) get(ctx context.Context, prep preparer, filter dto.FilterGroup, lock bool, columns []string) (T, error) {
	var model T

	where, args := whereClause(filter)
	if where == "" {
		return model, errRequiredFilter
	}

	query := repo.schema.selectQuery(columns) + where
	if lock {
		query += " FOR UPDATE OF " + repo.schema.table
	}

	err := repo.prepared(ctx, prep, "get", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	return model, err
}

// GetAll pages with params. Callers restrict SortBy to known columns before
// it reaches the query.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := whereClause(filter)
	query := repo.schema.selectQuery(columns) + where + pageClause(params, args)

	models := []T{}
	err := repo.prepared(ctx, repo.db.Read, "list", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s%s",
		repo.schema.table, repo.schema.key, repo.schema.table, repo.schema.join, where)

	var count int
	err := repo.prepared(ctx, repo.db.Read, "count", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

// Delete removes matching rows and reports how many were removed.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (int64, error) {
	return repo.delete(ctx, sqltx, filter)
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, filter dto.FilterGroup) (int64, error) {
	where, args := whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	return repo.exec(ctx, exec, "delete", "DELETE FROM "+repo.schema.table+where, args)
}

// UpdateTx applies set to matching rows and reports how many were changed.
func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, set map[string]any, filter dto.FilterGroup) (int64, error) {
	if len(set) == 0 {
		return 0, errEmptyUpdate
	}

	where, args := whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	query := "UPDATE " + repo.schema.table + " SET " + setClause(set, args) + where

	return repo.exec(ctx, sqltx, "update", query, args)
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

// setClause renders assignments in column order. Values are bound under a
// prefix so they cannot collide with filter arguments on the same column.
func setClause(set map[string]any, args map[string]any) string {
	assignments := make([]string, 0, len(set))

	for _, col := range slices.Sorted(maps.Keys(set)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s%s", col, updateArgPrefix, col))
		args[updateArgPrefix+col] = set[col]
	}

	return strings.Join(assignments, ", ")
}

func pageClause(params dto.QueryParams, args map[string]any) string {
	var clause string

	if params.SortBy != "" && params.SortDir != "" {
		clause += fmt.Sprintf(" ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		clause += " LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			clause += " OFFSET :offset"
		}
	}

	return clause
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) selectExpr() string {
	if c.alias != "" {
		return c.table + "." + c.name + " AS " + c.alias
	}

	return c.table + "." + c.name
}

// schema is the column layout of T, resolved once per repository.
type schema struct {
	table   string
	key     string
	join    string
	columns []column
	owned   []string
}

type joiner interface {
	GetJoinQuery() string
}

func describe[T any](table, key string) schema {
	var zero T

	s := schema{table: table, key: key}
	s.collect(reflect.TypeOf(zero))

	if j, ok := any(zero).(joiner); ok {
		s.join = " " + j.GetJoinQuery()
	}

	return s
}

func (s *schema) collect(t reflect.Type) {
	for field := range fieldsOf(t) {
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			s.collect(field.Type)

			continue
		}

		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}

		table := field.Tag.Get("table")
		if table == "" {
			table = s.table
		}

		if table == s.table {
			s.owned = append(s.owned, name)
		}

		if alias := field.Tag.Get("column"); alias != "" {
			s.columns = append(s.columns, column{name: alias, table: table, alias: name})
		} else {
			s.columns = append(s.columns, column{name: name, table: table})
		}
	}
}

func fieldsOf(t reflect.Type) func(func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if !yield(t.Field(i)) {
				return
			}
		}
	}
}

// selectQuery lists every column, or only those named in pick.
func (s *schema) selectQuery(pick []string) string {
	exprs := make([]string, 0, len(s.columns))

	for _, col := range s.columns {
		if len(pick) > 0 && !slices.Contains(pick, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return "SELECT " + strings.Join(exprs, ", ") + " FROM " + s.table + s.join
}

// insertQuery covers only the columns stored in the table itself.
func (s *schema) insertQuery() string {
	binds := make([]string, len(s.owned))
	for i, name := range s.owned {
		binds[i] = ":" + name
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, strings.Join(s.owned, ", "), strings.Join(binds, ", "))
}
