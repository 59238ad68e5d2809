// internal/storage/schema_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/domain"
)

// Resource names used in NotFoundError.
const (
	ResourceSchema = "schema"
	ResourceColumn = "column"
)

// today is the modified_date stamp. Replaced in tests.
var today = func() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// translateWriteError turns SQLite constraint failures into domain errors:
// the two per-schema uniqueness rules become ValidationErrors naming the pair,
// a dangling schema reference becomes a NotFoundError. ok is false when err is
// not a constraint failure we know about.
func translateWriteError(err error, schemaID int64) (translated error, ok bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return nil, false
	}
	msg := sqliteErr.Error()
	// SQLite names the violated index columns in the message text
	switch {
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(msg, "schema_columns.name"):
		return apperrors.NewValidationError("Schema column with this Schema and Name already exists.", "schema", "name"), true
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(msg, "schema_columns.col_order"):
		return apperrors.NewValidationError("Schema column with this Schema and Order already exists.", "schema", "order"), true
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
		return apperrors.NewNotFoundError(ResourceSchema, schemaID), true
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck: // separator, quote or payload shape
		return apperrors.NewValidationError(msg), true
	}
	return nil, false
}

// --- Schema Operations ---

// CreateSchema inserts a schema with the given name and default formatting options.
func CreateSchema(ctx context.Context, q Querier, name string) (*domain.Schema, error) {
	schema := &domain.Schema{
		Name:            name,
		ColumnSeparator: domain.SeparatorComma,
		StringCharacter: domain.QuoteDouble,
		ModifiedDate:    today(),
	}

	sqlStatement := `INSERT INTO schemas (name, column_separator, string_character, modified_date) VALUES (?, ?, ?, ?)`
	result, err := q.ExecContext(ctx, sqlStatement, schema.Name, schema.ColumnSeparator, schema.StringCharacter, schema.ModifiedDate)
	if err != nil {
		customLog.Warnf("Storage: Failed to insert schema '%s': %v", name, err)
		return nil, fmt.Errorf("database error during schema creation: %w", err)
	}
	schema.ID, err = result.LastInsertId()
	if err != nil {
		customLog.Warnf("Storage: Failed to get last insert ID for schema '%s': %v", name, err)
		return nil, fmt.Errorf("failed to retrieve schema ID after creation: %w", err)
	}
	return schema, nil
}

// CreateDraftSchema creates "New Schema" with its seed Integer column
// ("First Column", order 1, range -20..40) in a single transaction.
func CreateDraftSchema(ctx context.Context, db *sql.DB) (*domain.Schema, error) {
	var schema *domain.Schema
	err := WithTransaction(ctx, db, func(tx *sql.Tx) error {
		var err error
		// 1. Insert the schema header
		schema, err = CreateSchema(ctx, tx, domain.DefaultSchemaName)
		if err != nil {
			return err
		}
		// 2. Seed the first column
		low, high := int64(domain.DefaultRangeLow), int64(domain.DefaultRangeHigh)
		_, err = CreateColumn(ctx, tx, &domain.Column{
			SchemaID: schema.ID,
			Name:     domain.DefaultFirstColumnName,
			Order:    1,
			Integer:  &domain.IntegerAttrs{RangeLow: &low, RangeHigh: &high},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	customLog.Printf("Storage: Created draft schema %d", schema.ID)
	return schema, nil
}

// GetSchema retrieves a schema by id.
func GetSchema(ctx context.Context, q Querier, id int64) (*domain.Schema, error) {
	sqlStatement := `SELECT schema_id, name, column_separator, string_character, modified_date FROM schemas WHERE schema_id = ? LIMIT 1`
	var schema domain.Schema
	err := q.QueryRowContext(ctx, sqlStatement, id).Scan(&schema.ID, &schema.Name, &schema.ColumnSeparator, &schema.StringCharacter, &schema.ModifiedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(ResourceSchema, id)
		}
		customLog.Warnf("Storage: Failed to find schema %d: %v", id, err)
		return nil, fmt.Errorf("database error finding schema: %w", err)
	}
	return &schema, nil
}

// ListSchemas returns every schema with its column count, oldest first.
func ListSchemas(ctx context.Context, q Querier) ([]domain.SchemaSummary, error) {
	query := `
	SELECT s.schema_id, s.name, s.modified_date, COUNT(c.column_id)
	FROM schemas s LEFT JOIN schema_columns c ON c.schema_id = s.schema_id
	GROUP BY s.schema_id
	ORDER BY s.schema_id;`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		customLog.Warnf("Storage: Error listing schemas: %v", err)
		return nil, fmt.Errorf("database error listing schemas: %w", err)
	}
	defer rows.Close()

	var schemas []domain.SchemaSummary
	for rows.Next() {
		var s domain.SchemaSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.ModifiedDate, &s.ColumnCount); err != nil {
			customLog.Warnf("Storage: Error scanning schema row: %v", err)
			return nil, fmt.Errorf("failed processing schema list: %w", err)
		}
		schemas = append(schemas, s)
	}
	if err = rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating schema list: %v", err)
		return nil, fmt.Errorf("failed reading schema list: %w", err)
	}

	if schemas == nil {
		schemas = make([]domain.SchemaSummary, 0) // Return empty slice, not nil
	}
	return schemas, nil
}

// UpdateSchema writes the header fields of schema and stamps modified_date.
func UpdateSchema(ctx context.Context, q Querier, schema *domain.Schema) error {
	stamp := today()
	sqlStatement := `UPDATE schemas SET name = ?, column_separator = ?, string_character = ?, modified_date = ? WHERE schema_id = ?`
	result, err := q.ExecContext(ctx, sqlStatement, schema.Name, schema.ColumnSeparator, schema.StringCharacter, stamp, schema.ID)
	if err != nil {
		if translated, ok := translateWriteError(err, schema.ID); ok {
			return translated
		}
		customLog.Warnf("Storage: Failed to update schema %d: %v", schema.ID, err)
		return fmt.Errorf("database error during schema update: %w", err)
	}

	// Check if the schema was actually found and updated
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm schema update: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(ResourceSchema, schema.ID)
	}
	schema.ModifiedDate = stamp
	return nil
}

// DeleteSchema removes a schema; its columns go with it through the FK cascade.
func DeleteSchema(ctx context.Context, q Querier, id int64) error {
	// Foreign keys must be on for the cascade (see ConnectSchemaDB)
	result, err := q.ExecContext(ctx, `DELETE FROM schemas WHERE schema_id = ?`, id)
	if err != nil {
		customLog.Warnf("Storage: Error deleting schema %d: %v", id, err)
		return fmt.Errorf("database error deleting schema: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		customLog.Warnf("Storage: Error getting RowsAffected for delete schema %d: %v", id, err)
		return fmt.Errorf("failed confirming schema deletion: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(ResourceSchema, id)
	}
	return nil
}
