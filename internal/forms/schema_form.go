// internal/forms/schema_form.go
package forms

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Annany2002/nebula-schemas/internal/domain"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

var customLog = logger.NewLogger()

// Header and add-row form keys.
const (
	FieldName            = "name"
	FieldColumnSeparator = "column_separator"
	FieldStringCharacter = "string_character"
	FieldAddName         = "add_column_name"
	FieldAddType         = "add_column_type"
	FieldAddOrder        = "add_column_order"
)

const (
	nameRules = "required,max=100"
	kindRules = "required,columnkind"
)

// Row form keys of column id.
func ColumnNameField(id int64) string  { return fmt.Sprintf("col_name_%d", id) }
func ColumnTypeField(id int64) string  { return fmt.Sprintf("col_type_%d", id) }
func ColumnOrderField(id int64) string { return fmt.Sprintf("col_order_%d", id) }

// ColumnRow is the row-group of one existing column.
type ColumnRow struct {
	Column domain.Column
	Name   Input
	Kind   Input
	Order  Input
	Delete Action
	Edit   Action
}

// SchemaForm describes the schema edit page.
type SchemaForm struct {
	Schema    domain.Schema
	Name      Input
	Separator Input
	Quote     Input
	Rows      []ColumnRow
	AddName   Input
	AddKind   Input
	AddOrder  Input
	Submit    Action
	AddColumn Action
	Errors    []string
}

// Legend is the fieldset title, the stored schema name.
func (f *SchemaForm) Legend() string {
	return f.Schema.Name
}

// ColumnChange is one validated row of a submitted schema form.
type ColumnChange struct {
	ColumnID int64
	Name     string
	Kind     domain.Kind
	Order    int64
}

// SchemaSubmission is the validated content of a submitted schema form.
type SchemaSubmission struct {
	SchemaID  int64
	Name      string
	Separator string
	Quote     string
	Columns   []ColumnChange
	Add       *ColumnChange
}

// Build loads the schema form for schemaID. A nil schemaID creates a draft
// schema first. An unknown id yields a NotFoundError.
func Build(ctx context.Context, db *sql.DB, schemaID *int64) (*SchemaForm, error) {
	var (
		schema *domain.Schema
		err    error
	)
	if schemaID == nil {
		schema, err = storage.CreateDraftSchema(ctx, db)
	} else {
		schema, err = storage.GetSchema(ctx, db, *schemaID)
	}
	if err != nil {
		return nil, err
	}

	columns, err := storage.ListColumns(ctx, db, schema.ID)
	if err != nil {
		return nil, err
	}
	maxOrder, hasColumns, err := storage.MaxColumnOrder(ctx, db, schema.ID)
	if err != nil {
		return nil, err
	}
	nextOrder := int64(1)
	if hasColumns {
		nextOrder = maxOrder + 1
	}
	return NewSchemaForm(schema, columns, nextOrder), nil
}

// NewSchemaForm pre-fills the form from stored state. columns must be sorted by order.
func NewSchemaForm(schema *domain.Schema, columns []domain.Column, nextOrder int64) *SchemaForm {
	form := &SchemaForm{
		Schema:    *schema,
		Name:      textInput(FieldName, "Name", schema.Name),
		Separator: selectInput(FieldColumnSeparator, "Column separator", schema.ColumnSeparator, domain.SeparatorChoices),
		Quote:     selectInput(FieldStringCharacter, "String character", schema.StringCharacter, domain.QuoteChoices),
		AddName:   textInput(FieldAddName, "New column name", domain.DefaultNewColumnName),
		AddKind:   selectInput(FieldAddType, "Column type", "", domain.KindChoices),
		AddOrder:  numberInput(FieldAddOrder, "Order", strconv.FormatInt(nextOrder, 10)),
		Submit:    Action{Type: ActionSubmitSchema, Target: schema.ID, Label: "Submit"},
		AddColumn: Action{Type: ActionAddColumn, Target: schema.ID, Label: "Add New Column"},
	}
	for _, col := range columns {
		kind, _ := col.Kind()
		form.Rows = append(form.Rows, ColumnRow{
			Column: col,
			Name:   textInput(ColumnNameField(col.ID), "Column name", col.Name),
			Kind:   selectInput(ColumnTypeField(col.ID), "Column type", string(kind), domain.KindChoices),
			Order:  numberInput(ColumnOrderField(col.ID), "Order", strconv.FormatInt(col.Order, 10)),
			Delete: Action{Type: ActionDeleteColumn, Target: col.ID, Label: "Delete"},
			Edit:   Action{Type: ActionEditColumn, Target: col.ID, Label: "Edit Details"},
		})
	}
	return form
}

// ParseMode selects which parts of the schema form are validated.
type ParseMode int

const (
	// ModeSubmit validates the header and the rows, and rejects two rows
	// claiming the same name or order. The add row is ignored.
	ModeSubmit ParseMode = iota
	// ModeAdd validates every field on its own plus the add row. Row edits
	// are not saved by an add, so duplicates between rows are not checked.
	ModeAdd
)

// ParseSchemaForm binds p onto form and validates it according to mode.
// Inputs keep the submitted values and carry their errors, so an invalid
// form can be rendered back as is.
func ParseSchemaForm(form *SchemaForm, p Payload, mode ParseMode) (*SchemaSubmission, bool) {
	sub := &SchemaSubmission{SchemaID: form.Schema.ID}
	valid := true

	// --- Header ---
	form.Name.Value = p.Get(FieldName)
	valid = form.Name.check(nameRules) && valid
	sub.Name = form.Name.Value

	form.Separator.Value = p.Get(FieldColumnSeparator)
	valid = form.Separator.check("required,separator") && valid
	sub.Separator = form.Separator.Value

	form.Quote.Value = p.Get(FieldStringCharacter)
	valid = form.Quote.check("required,quotechar") && valid
	sub.Quote = form.Quote.Value

	// --- Column rows ---
	names := make(map[string]*Input)
	orders := make(map[int64]*Input)
	for i := range form.Rows {
		row := &form.Rows[i]
		change, ok := bindRow(&row.Name, &row.Kind, &row.Order, p)
		if !ok {
			valid = false
			continue
		}
		change.ColumnID = row.Column.ID
		if mode == ModeSubmit && !uniqueInForm(change, &row.Name, &row.Order, names, orders) {
			valid = false
			continue
		}
		sub.Columns = append(sub.Columns, change)
	}

	// --- Add row ---
	if mode == ModeAdd {
		change, ok := bindRow(&form.AddName, &form.AddKind, &form.AddOrder, p)
		if ok {
			sub.Add = &change
		} else {
			valid = false
		}
	}

	if !valid {
		customLog.Printf("Forms: Schema form for schema %d rejected", form.Schema.ID)
		return nil, false
	}
	return sub, true
}

func bindRow(name, kind, order *Input, p Payload) (ColumnChange, bool) {
	name.Value = p.Get(name.Name)
	kind.Value = p.Get(kind.Name)
	order.Value = p.Get(order.Name)

	nameOK := name.check(nameRules)
	kindOK := kind.check(kindRules)
	n, orderOK := order.order()
	if !nameOK || !kindOK || !orderOK {
		return ColumnChange{}, false
	}
	return ColumnChange{Name: name.Value, Kind: domain.Kind(kind.Value), Order: n}, true
}

// uniqueInForm flags two rows of the same submission claiming one name or order.
func uniqueInForm(change ColumnChange, name, order *Input, names map[string]*Input, orders map[int64]*Input) bool {
	ok := true
	if _, dup := names[change.Name]; dup {
		name.Errors = append(name.Errors, "Schema column with this Schema and Name already exists.")
		ok = false
	}
	if _, dup := orders[change.Order]; dup {
		order.Errors = append(order.Errors, "Schema column with this Schema and Order already exists.")
		ok = false
	}
	names[change.Name] = name
	orders[change.Order] = order
	return ok
}

// AddFieldError attaches a message to the input named field, or to the form
// when no input carries that name.
func (f *SchemaForm) AddFieldError(field, msg string) {
	for _, in := range f.inputs() {
		if in.Name == field {
			in.Errors = append(in.Errors, msg)
			return
		}
	}
	f.Errors = append(f.Errors, msg)
}

func (f *SchemaForm) inputs() []*Input {
	inputs := []*Input{&f.Name, &f.Separator, &f.Quote}
	for i := range f.Rows {
		inputs = append(inputs, &f.Rows[i].Name, &f.Rows[i].Kind, &f.Rows[i].Order)
	}
	return append(inputs, &f.AddName, &f.AddKind, &f.AddOrder)
}
