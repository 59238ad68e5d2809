// internal/forms/fields.go
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Annany2002/nebula-schemas/internal/core"
	"github.com/Annany2002/nebula-schemas/internal/domain"
)

const (
	msgRequired    = "This field is required."
	msgWholeNumber = "Enter a whole number."
	msgMinZero     = "Ensure this value is greater than or equal to 0."
)

// Input is one rendered form control with its current value and errors.
type Input struct {
	Name    string
	Label   string
	Type    string // text, number or select
	Value   string
	Choices []domain.Choice
	Errors  []string
}

// HasErrors reports whether validation attached any message to the input.
func (in Input) HasErrors() bool {
	return len(in.Errors) > 0
}

func textInput(name, label, value string) Input {
	return Input{Name: name, Label: label, Type: "text", Value: value}
}

func numberInput(name, label, value string) Input {
	return Input{Name: name, Label: label, Type: "number", Value: value}
}

func selectInput(name, label, value string, choices []domain.Choice) Input {
	return Input{Name: name, Label: label, Type: "select", Value: value, Choices: choices}
}

// check runs the validator rules against the input's value and records
// readable messages. Returns true when the value passed.
func (in *Input) check(rules string) bool {
	err := core.Validator().Var(in.Value, rules)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		in.Errors = append(in.Errors, err.Error())
		return false
	}
	for _, fe := range verrs {
		in.Errors = append(in.Errors, message(fe, in.Value))
	}
	return false
}

// order parses a non-negative integer order. Errors go onto the input.
func (in *Input) order() (int64, bool) {
	if !in.check("required") {
		return 0, false
	}
	n, err := strconv.ParseInt(in.Value, 10, 64)
	if err != nil {
		in.Errors = append(in.Errors, msgWholeNumber)
		return 0, false
	}
	if n < 0 {
		in.Errors = append(in.Errors, msgMinZero)
		return 0, false
	}
	return n, true
}

func message(fe validator.FieldError, value string) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(value))
	case "numeric":
		return msgWholeNumber
	case "phone":
		return core.PhoneFormatMessage
	case "separator", "quotechar", "columnkind":
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", value)
	}
	return "Enter a valid value."
}
