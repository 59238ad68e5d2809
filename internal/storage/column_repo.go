// internal/storage/column_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/domain"
)

const columnFields = `column_id, schema_id, name, col_order, kind,
	range_low, range_high, first_name, last_name, job_name, company_name, phone_number`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanColumn reads one schema_columns row and rebuilds the payload selected by kind.
func scanColumn(row rowScanner) (*domain.Column, error) {
	var (
		col                                      domain.Column
		kind                                     string
		rangeLow, rangeHigh                      sql.NullInt64
		firstName, lastName, job, company, phone sql.NullString
	)
	if err := row.Scan(&col.ID, &col.SchemaID, &col.Name, &col.Order, &kind,
		&rangeLow, &rangeHigh, &firstName, &lastName, &job, &company, &phone); err != nil {
		return nil, err
	}

	// Only the columns of the stored kind are read back
	switch domain.Kind(kind) {
	case domain.KindInteger:
		col.Integer = &domain.IntegerAttrs{RangeLow: nullInt(rangeLow), RangeHigh: nullInt(rangeHigh)}
	case domain.KindFullName:
		col.FullName = &domain.FullNameAttrs{FirstName: nullString(firstName), LastName: nullString(lastName)}
	case domain.KindJob:
		col.Job = &domain.JobAttrs{JobName: nullString(job)}
	case domain.KindCompany:
		col.Company = &domain.CompanyAttrs{CompanyName: nullString(company)}
	case domain.KindPhone:
		col.Phone = &domain.PhoneAttrs{PhoneNumber: nullString(phone)}
	default:
		return nil, fmt.Errorf("column %d has unknown kind %q", col.ID, kind)
	}
	return &col, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// payloadArgs returns the kind tag followed by the seven payload columns in
// table order. Fields of other kinds are NULL.
func payloadArgs(col *domain.Column) ([]any, error) {
	kind, ok := col.Kind()
	if !ok {
		return nil, apperrors.NewServerError(fmt.Sprintf("column '%s' must carry exactly one kind payload", col.Name), nil)
	}
	// kind, range_low, range_high, first_name, last_name, job_name, company_name, phone_number
	args := []any{string(kind), nil, nil, nil, nil, nil, nil, nil}
	switch kind {
	case domain.KindInteger:
		args[1], args[2] = ptrArg(col.Integer.RangeLow), ptrArg(col.Integer.RangeHigh)
	case domain.KindFullName:
		args[3], args[4] = ptrArg(col.FullName.FirstName), ptrArg(col.FullName.LastName)
	case domain.KindJob:
		args[5] = ptrArg(col.Job.JobName)
	case domain.KindCompany:
		args[6] = ptrArg(col.Company.CompanyName)
	case domain.KindPhone:
		args[7] = ptrArg(col.Phone.PhoneNumber)
	}
	return args, nil
}

func ptrArg[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// --- Column Operations ---

// CreateColumn inserts col and sets its ID.
func CreateColumn(ctx context.Context, q Querier, col *domain.Column) (*domain.Column, error) {
	// --- Build Arguments ---
	payload, err := payloadArgs(col)
	if err != nil {
		return nil, err
	}
	args := append([]any{col.SchemaID, col.Name, col.Order}, payload...)

	// --- Execute Insert ---

	sqlStatement := `INSERT INTO schema_columns (schema_id, name, col_order, kind,
		range_low, range_high, first_name, last_name, job_name, company_name, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := q.ExecContext(ctx, sqlStatement, args...)
	if err != nil {
		if translated, ok := translateWriteError(err, col.SchemaID); ok {
			return nil, translated
		}
		customLog.Warnf("Storage: Failed to insert column '%s' for schema %d: %v", col.Name, col.SchemaID, err)
		return nil, fmt.Errorf("database error during column creation: %w", err)
	}
	col.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve column ID after creation: %w", err)
	}
	return col, nil
}

// GetColumn retrieves a column by id.
func GetColumn(ctx context.Context, q Querier, id int64) (*domain.Column, error) {
	row := q.QueryRowContext(ctx, `SELECT `+columnFields+` FROM schema_columns WHERE column_id = ? LIMIT 1`, id)
	col, err := scanColumn(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(ResourceColumn, id)
		}
		customLog.Warnf("Storage: Failed to find column %d: %v", id, err)
		return nil, fmt.Errorf("database error finding column: %w", err)
	}
	return col, nil
}

// ListColumns returns the columns of a schema sorted by order. A missing schema
// yields an empty slice.
func ListColumns(ctx context.Context, q Querier, schemaID int64) ([]domain.Column, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+columnFields+` FROM schema_columns WHERE schema_id = ? ORDER BY col_order, column_id`, schemaID)
	if err != nil {
		customLog.Warnf("Storage: Error listing columns for schema %d: %v", schemaID, err)
		return nil, fmt.Errorf("database error listing columns: %w", err)
	}
	defer rows.Close()

	columns := make([]domain.Column, 0) // Empty slice for a schema without columns
	for rows.Next() {
		col, err := scanColumn(rows)
		if err != nil {
			customLog.Warnf("Storage: Error scanning column for schema %d: %v", schemaID, err)
			return nil, fmt.Errorf("failed processing column list: %w", err)
		}
		columns = append(columns, *col)
	}
	if err = rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating columns for schema %d: %v", schemaID, err)
		return nil, fmt.Errorf("failed reading column list: %w", err)
	}
	return columns, nil
}

// MaxColumnOrder returns the highest order in the schema; ok is false when the
// schema has no columns.
func MaxColumnOrder(ctx context.Context, q Querier, schemaID int64) (maxOrder int64, ok bool, err error) {
	var v sql.NullInt64 // MAX over no rows is NULL
	if err := q.QueryRowContext(ctx, `SELECT MAX(col_order) FROM schema_columns WHERE schema_id = ?`, schemaID).Scan(&v); err != nil {
		return 0, false, fmt.Errorf("database error reading max column order: %w", err)
	}
	return v.Int64, v.Valid, nil
}

// UpdateColumn writes the identity fields (name, order) of a column.
func UpdateColumn(ctx context.Context, q Querier, col *domain.Column) error {
	result, err := q.ExecContext(ctx, `UPDATE schema_columns SET name = ?, col_order = ? WHERE column_id = ?`, col.Name, col.Order, col.ID)
	if err != nil {
		if translated, ok := translateWriteError(err, col.SchemaID); ok {
			return translated
		}
		customLog.Warnf("Storage: Failed to update column %d: %v", col.ID, err)
		return fmt.Errorf("database error during column update: %w", err)
	}
	return expectOneRow(result, ResourceColumn, col.ID)
}

// UpdateColumnDetails writes the name and the kind payload of a column. The
// stored kind must match the payload; kind changes go through the column registry.
func UpdateColumnDetails(ctx context.Context, q Querier, col *domain.Column) error {
	payload, err := payloadArgs(col)
	if err != nil {
		return err
	}
	// name, the seven payload columns, then the WHERE pair (id, kind)
	args := append([]any{col.Name}, payload[1:]...)
	args = append(args, col.ID, payload[0])

	sqlStatement := `UPDATE schema_columns SET name = ?,
		range_low = ?, range_high = ?, first_name = ?, last_name = ?, job_name = ?, company_name = ?, phone_number = ?
		WHERE column_id = ? AND kind = ?`
	result, err := q.ExecContext(ctx, sqlStatement, args...)
	if err != nil {
		if translated, ok := translateWriteError(err, col.SchemaID); ok {
			return translated
		}
		customLog.Warnf("Storage: Failed to update details of column %d: %v", col.ID, err)
		return fmt.Errorf("database error during column details update: %w", err)
	}
	// Zero rows means the column is gone or has another kind
	return expectOneRow(result, ResourceColumn, col.ID)
}

// DeleteColumn removes a column by id.
func DeleteColumn(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM schema_columns WHERE column_id = ?`, id)
	if err != nil {
		customLog.Warnf("Storage: Error deleting column %d: %v", id, err)
		return fmt.Errorf("database error deleting column: %w", err)
	}
	return expectOneRow(result, ResourceColumn, id)
}

func expectOneRow(result sql.Result, resource string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming %s change: %w", resource, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(resource, id)
	}
	return nil
}
