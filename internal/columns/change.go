package columns

import (
	"context"
	"database/sql"

	"github.com/Annany2002/nebula-schemas/internal/domain"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

var customLog = logger.NewLogger()

// Replace deletes col and inserts a column of newKind with the given name and
// order in the same schema. The old payload is discarded and the new one gets
// the kind defaults. q should be a transaction; see ChangeKind.
func Replace(ctx context.Context, q storage.Querier, col *domain.Column, newKind domain.Kind, name string, order int64) (*domain.Column, error) {
	replacement := &domain.Column{SchemaID: col.SchemaID, Name: name, Order: order}
	if err := SetDefaults(replacement, newKind); err != nil {
		return nil, err
	}
	if err := storage.DeleteColumn(ctx, q, col.ID); err != nil {
		return nil, err
	}
	created, err := storage.CreateColumn(ctx, q, replacement)
	if err != nil {
		return nil, err
	}
	customLog.Printf("Columns: Column %d of schema %d replaced by %s column %d", col.ID, col.SchemaID, newKind, created.ID)
	return created, nil
}

// ChangeKind runs Replace in its own transaction. On failure the old column is
// left intact.
func ChangeKind(ctx context.Context, db *sql.DB, col *domain.Column, newKind domain.Kind, name string, order int64) (*domain.Column, error) {
	var created *domain.Column
	err := storage.WithTransaction(ctx, db, func(tx *sql.Tx) error {
		var err error
		created, err = Replace(ctx, tx, col, newKind, name, order)
		return err
	})
	if err != nil {
		customLog.Warnf("Columns: Kind change of column %d to %s failed: %v", col.ID, newKind, err)
		return nil, err
	}
	return created, nil
}
