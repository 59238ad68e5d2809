// internal/forms/actions.go
package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionField is the form key carrying an explicit "<type>:<id>" action.
const ActionField = "action"

// ActionType names a submit action of the schema or detail form.
type ActionType string

const (
	ActionAddColumn    ActionType = "add_column"
	ActionDeleteColumn ActionType = "delete_column"
	ActionEditColumn   ActionType = "edit_column"
	ActionSubmitSchema ActionType = "submit_schema"
	ActionSaveColumn   ActionType = "save_column"
)

// LegacyPrefix returns the prefix of the older "<prefix><id>" button names.
func (t ActionType) LegacyPrefix() string {
	switch t {
	case ActionAddColumn:
		return "add_column_btn_"
	case ActionDeleteColumn:
		return "delete_col_"
	case ActionEditColumn:
		return "edit_col_"
	case ActionSubmitSchema:
		return "submit_form_"
	case ActionSaveColumn:
		return "save_schema_columns_chng_btn_"
	}
	return ""
}

// Action is a submit button: a type and the id it targets (schema id for add
// and submit, column id for the rest).
type Action struct {
	Type   ActionType
	Target int64
	Label  string
}

// Name is the button's form key.
func (a Action) Name() string {
	return ActionField
}

// Value is the button's submitted value, "<type>:<id>".
func (a Action) Value() string {
	return fmt.Sprintf("%s:%d", a.Type, a.Target)
}

// ParseActionValue decodes "<type>:<id>". The id must be a plain non-negative
// decimal integer.
func ParseActionValue(v string) (ActionType, int64, bool) {
	typ, rawID, found := strings.Cut(v, ":")
	if !found {
		return "", 0, false
	}
	id, ok := parseID(rawID)
	if !ok {
		return "", 0, false
	}
	return ActionType(typ), id, true
}

// ParseLegacyName decodes a "<prefix><id>" button name for t.
func ParseLegacyName(t ActionType, key string) (int64, bool) {
	prefix := t.LegacyPrefix()
	if prefix == "" || !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	return parseID(strings.TrimPrefix(key, prefix))
}

func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
