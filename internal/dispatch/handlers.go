// internal/dispatch/handlers.go
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/columns"
	"github.com/Annany2002/nebula-schemas/internal/domain"
	"github.com/Annany2002/nebula-schemas/internal/forms"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

// addColumn creates the column described by the add row. Every field of the
// form must be valid on its own; row edits are discarded. A duplicate name or
// order of the new column is logged and ignored.
func (d *Dispatcher) addColumn(ctx context.Context, schemaID int64, p forms.Payload) (Result, error) {
	form, err := forms.Build(ctx, d.db, &schemaID)
	if err != nil {
		return Result{}, err
	}
	sub, ok := forms.ParseSchemaForm(form, p, forms.ModeAdd)
	if !ok {
		return Result{}, apperrors.NewServerError(fmt.Sprintf("add column form for schema %d is invalid", schemaID), nil)
	}

	col := &domain.Column{SchemaID: schemaID, Name: sub.Add.Name, Order: sub.Add.Order}
	if err := columns.SetDefaults(col, sub.Add.Kind); err != nil {
		return Result{}, err
	}
	if _, err := storage.CreateColumn(ctx, d.db, col); err != nil {
		if !apperrors.IsValidation(err) {
			return Result{}, err
		}
		customLog.Warnf("Dispatch: Column '%s' (order %d) not added to schema %d: %v", col.Name, col.Order, schemaID, err)
	} else {
		customLog.Printf("Dispatch: Added %s column %d to schema %d", sub.Add.Kind, col.ID, schemaID)
	}
	return Result{SchemaID: &schemaID}, nil
}

// deleteColumn removes a column; the schema id is read before the delete.
func (d *Dispatcher) deleteColumn(ctx context.Context, columnID int64, _ forms.Payload) (Result, error) {
	col, err := storage.GetColumn(ctx, d.db, columnID)
	if err != nil {
		return Result{}, err
	}
	schemaID := col.SchemaID
	if err := storage.DeleteColumn(ctx, d.db, columnID); err != nil {
		return Result{}, err
	}
	return Result{SchemaID: &schemaID}, nil
}

// editColumnDetails returns the pre-filled detail form. Nothing is written.
func (d *Dispatcher) editColumnDetails(ctx context.Context, columnID int64, _ forms.Payload) (Result, error) {
	col, err := storage.GetColumn(ctx, d.db, columnID)
	if err != nil {
		return Result{}, err
	}
	form, err := forms.BuildDetail(col)
	if err != nil {
		return Result{}, err
	}
	schemaID := col.SchemaID
	return Result{SchemaID: &schemaID, Detail: form}, nil
}

// submitSchema validates the header and every row and writes them in one
// transaction. An invalid form, or one rejected by a uniqueness rule, is
// returned with its field errors and nothing is committed.
func (d *Dispatcher) submitSchema(ctx context.Context, schemaID int64, p forms.Payload) (Result, error) {
	form, err := forms.Build(ctx, d.db, &schemaID)
	if err != nil {
		return Result{}, err
	}
	sub, ok := forms.ParseSchemaForm(form, p, forms.ModeSubmit)
	if !ok {
		return Result{SchemaID: &schemaID, Schema: form}, nil
	}

	err = storage.WithTransaction(ctx, d.db, func(tx *sql.Tx) error {
		return applySubmission(ctx, tx, form, sub)
	})
	var conflict *rowConflict
	switch {
	case errors.As(err, &conflict):
		form.AddFieldError(conflict.field(), conflict.err.Message)
		return Result{SchemaID: &schemaID, Schema: form}, nil
	case apperrors.IsValidation(err):
		verr, _ := apperrors.AsValidation(err)
		form.Errors = append(form.Errors, verr.Message)
		return Result{SchemaID: &schemaID, Schema: form}, nil
	case err != nil:
		return Result{}, err
	}
	customLog.Printf("Dispatch: Schema %d saved with %d columns", schemaID, len(sub.Columns))
	return Result{SchemaID: &schemaID}, nil
}

// rowConflict ties a uniqueness failure to the row that caused it.
type rowConflict struct {
	columnID int64
	err      *apperrors.ValidationError
}

func (e *rowConflict) Error() string {
	return fmt.Sprintf("column %d: %v", e.columnID, e.err)
}

func (e *rowConflict) field() string {
	for _, f := range e.err.Fields {
		if f == "order" {
			return forms.ColumnOrderField(e.columnID)
		}
	}
	return forms.ColumnNameField(e.columnID)
}

func parkedName(columnID int64) string {
	return fmt.Sprintf("~parked~%d~", columnID)
}

// applySubmission writes the header, then every row. Rows are first moved to
// parked names and orders so that swaps within the submission do not trip
// the uniqueness rules half way. Rows deleted since the form was built are
// skipped.
func applySubmission(ctx context.Context, tx *sql.Tx, form *forms.SchemaForm, sub *forms.SchemaSubmission) error {
	schema := &domain.Schema{
		ID:              sub.SchemaID,
		Name:            sub.Name,
		ColumnSeparator: sub.Separator,
		StringCharacter: sub.Quote,
	}
	if err := storage.UpdateSchema(ctx, tx, schema); err != nil {
		return err
	}

	stored := make(map[int64]domain.Column, len(form.Rows))
	for _, row := range form.Rows {
		stored[row.Column.ID] = row.Column
	}

	maxOrder, _, err := storage.MaxColumnOrder(ctx, tx, sub.SchemaID)
	if err != nil {
		return err
	}
	for _, ch := range sub.Columns {
		maxOrder = max(maxOrder, ch.Order)
	}

	live := make([]forms.ColumnChange, 0, len(sub.Columns))
	for i, ch := range sub.Columns {
		parked := &domain.Column{ID: ch.ColumnID, SchemaID: sub.SchemaID, Name: parkedName(ch.ColumnID), Order: maxOrder + 1 + int64(i)}
		if err := storage.UpdateColumn(ctx, tx, parked); err != nil {
			if apperrors.IsNotFound(err) {
				customLog.Printf("Dispatch: Column %d vanished before save, skipping", ch.ColumnID)
				continue
			}
			return err
		}
		live = append(live, ch)
	}

	for _, ch := range live {
		col := stored[ch.ColumnID]
		kind, err := columns.KindOf(&col)
		if err != nil {
			return err
		}
		if kind != ch.Kind {
			_, err = columns.Replace(ctx, tx, &col, ch.Kind, ch.Name, ch.Order)
		} else {
			err = storage.UpdateColumn(ctx, tx, &domain.Column{ID: ch.ColumnID, SchemaID: sub.SchemaID, Name: ch.Name, Order: ch.Order})
		}
		if verr, ok := apperrors.AsValidation(err); ok && len(verr.Fields) > 0 {
			return &rowConflict{columnID: ch.ColumnID, err: verr}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// saveColumn validates the detail form of one column and writes its name and
// kind fields. Format and uniqueness errors come back on the detail form.
func (d *Dispatcher) saveColumn(ctx context.Context, columnID int64, p forms.Payload) (Result, error) {
	col, err := storage.GetColumn(ctx, d.db, columnID)
	if err != nil {
		return Result{}, err
	}
	schemaID := col.SchemaID
	form, err := forms.BuildDetail(col)
	if err != nil {
		return Result{}, err
	}
	updated, ok := forms.ParseDetailForm(form, p)
	if !ok {
		return Result{SchemaID: &schemaID, Detail: form}, nil
	}

	if err := storage.UpdateColumnDetails(ctx, d.db, updated); err != nil {
		verr, ok := apperrors.AsValidation(err)
		if !ok {
			return Result{}, err
		}
		form.AddFieldError(forms.FieldName, verr.Message)
		return Result{SchemaID: &schemaID, Detail: form}, nil
	}
	customLog.Printf("Dispatch: Saved details of column %d", columnID)
	return Result{SchemaID: &schemaID}, nil
}
