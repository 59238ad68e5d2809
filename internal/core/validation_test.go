// internal/core/validation_test.go
package core

import (
	"testing"
)

func TestIsValidPhone(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    bool
		comment string
	}{
		{"valid international", "+421960321654", true, ""},
		{"valid nine digits", "123456789", true, ""},
		{"valid leading one and plus", "+1123456789", true, ""},
		{"valid fifteen digits", "123456789012345", true, ""},
		{"invalid eight digits", "12345678", false, "too short"},
		{"invalid seventeen digits", "01234567891234567", false, "too long"},
		{"invalid letters", "fq62gf", false, "non-digits"},
		{"invalid empty", "", false, "empty string"},
		{"invalid inner plus", "12+3456789", false, "plus not leading"},
		{"invalid spaces", "+421 960 321 654", false, "contains spaces"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsValidPhone(tc.input)
			if got != tc.want {
				t.Errorf("IsValidPhone(%q) = %v; want %v. %s", tc.input, got, tc.want, tc.comment)
			}
		})
	}
}

func TestChoiceValidators(t *testing.T) {
	testCases := []struct {
		name  string
		fn    func(string) bool
		input string
		want  bool
	}{
		{"separator comma", IsValidSeparator, ",", true},
		{"separator semicolon", IsValidSeparator, ";", true},
		{"separator tab", IsValidSeparator, "\t", false},
		{"quote double", IsValidQuoteChar, `"`, true},
		{"quote single", IsValidQuoteChar, "'", true},
		{"quote backtick", IsValidQuoteChar, "`", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.input); got != tc.want {
				t.Errorf("%s(%q) = %v; want %v", tc.name, tc.input, got, tc.want)
			}
		})
	}
}

func TestValidatorCustomTags(t *testing.T) {
	v := Validator()

	testCases := []struct {
		name    string
		value   string
		tag     string
		wantErr bool
	}{
		{"phone ok", "+421960321654", "phone", false},
		{"phone bad", "12345678", "phone", true},
		{"phone optional empty", "", "omitempty,phone", false},
		{"separator ok", ";", "separator", false},
		{"separator bad", "|", "separator", true},
		{"quotechar ok", "'", "quotechar", false},
		{"columnkind ok", "FullNameColumn", "columnkind", false},
		{"columnkind bad", "DateColumn", "columnkind", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Var(tc.value, tc.tag)
			if (err != nil) != tc.wantErr {
				t.Errorf("Var(%q, %q) error = %v; wantErr %v", tc.value, tc.tag, err, tc.wantErr)
			}
		})
	}
}
