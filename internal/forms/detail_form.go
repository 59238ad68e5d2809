// internal/forms/detail_form.go
package forms

import (
	"strconv"

	"github.com/Annany2002/nebula-schemas/internal/columns"
	"github.com/Annany2002/nebula-schemas/internal/domain"
)

// DetailForm is the single-column form with the kind-specific fields.
type DetailForm struct {
	Column domain.Column
	Kind   domain.Kind
	Name   Input
	Fields []Input
	Save   Action
	Errors []string

	attrs []columns.Field
}

// KindLabel is shown as the form title.
func (f *DetailForm) KindLabel() string {
	return f.Kind.Label()
}

// BuildDetail pre-fills the detail form of col.
func BuildDetail(col *domain.Column) (*DetailForm, error) {
	kind, err := columns.KindOf(col)
	if err != nil {
		return nil, err
	}
	entry, _ := columns.Lookup(kind)
	values, err := columns.Values(col)
	if err != nil {
		return nil, err
	}

	form := &DetailForm{
		Column: *col,
		Kind:   kind,
		Name:   textInput(FieldName, "Name", col.Name),
		Save:   Action{Type: ActionSaveColumn, Target: col.ID, Label: "Save changes"},
	}
	for _, field := range entry.Fields {
		in := textInput(field.Name, field.Label, values[field.Name])
		if field.Type == columns.IntegerField {
			in.Type = "number"
		}
		form.Fields = append(form.Fields, in)
		form.attrs = append(form.attrs, field)
	}
	return form, nil
}

// ParseDetailForm binds p onto form and validates it. On success it returns a
// copy of the column with the submitted name and payload; schema and order
// are untouched.
func ParseDetailForm(form *DetailForm, p Payload) (*domain.Column, bool) {
	valid := true

	form.Name.Value = p.Get(FieldName)
	valid = form.Name.check(nameRules) && valid

	values := make(map[string]string, len(form.Fields))
	for i := range form.Fields {
		in := &form.Fields[i]
		in.Value = p.Get(in.Name)
		attr := form.attrs[i]
		ok := in.check(attr.Rules)
		if ok && attr.Type == columns.IntegerField && in.Value != "" {
			if _, err := strconv.ParseInt(in.Value, 10, 64); err != nil {
				in.Errors = append(in.Errors, msgWholeNumber)
				ok = false
			}
		}
		valid = ok && valid
		values[in.Name] = in.Value
	}
	if !valid {
		return nil, false
	}

	col := form.Column
	col.Name = form.Name.Value
	if err := columns.Apply(&col, form.Kind, values); err != nil {
		form.Errors = append(form.Errors, err.Error())
		return nil, false
	}
	return &col, true
}

// AddFieldError attaches msg to the named input, or to the form.
func (f *DetailForm) AddFieldError(field, msg string) {
	if field == FieldName {
		f.Name.Errors = append(f.Name.Errors, msg)
		return
	}
	for i := range f.Fields {
		if f.Fields[i].Name == field {
			f.Fields[i].Errors = append(f.Fields[i].Errors, msg)
			return
		}
	}
	f.Errors = append(f.Errors, msg)
}
