// Package columns is the static table of column kinds: their labels, default
// payloads and the fields shown on the detail form.
package columns

import (
	"fmt"
	"strconv"

	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/domain"
)

// FieldType selects how a detail field is rendered and parsed.
type FieldType int

const (
	TextField FieldType = iota
	IntegerField
)

// Field describes one kind-specific attribute.
type Field struct {
	Name  string // form key, also the storage column name
	Label string
	Type  FieldType
	Rules string // validator tags applied to the submitted string
}

// Entry is the registry record for one kind.
type Entry struct {
	Kind   domain.Kind
	Fields []Field

	reset  func(c *domain.Column)
	values func(c *domain.Column) map[string]string
	apply  func(c *domain.Column, v map[string]string) error
}

// Label returns the name shown in the kind choice.
func (e Entry) Label() string {
	return e.Kind.Label()
}

var registry = map[domain.Kind]Entry{
	domain.KindInteger: {
		Kind: domain.KindInteger,
		Fields: []Field{
			{Name: "range_low", Label: "Range low", Type: IntegerField, Rules: "omitempty,numeric"},
			{Name: "range_high", Label: "Range high", Type: IntegerField, Rules: "omitempty,numeric"},
		},
		reset: func(c *domain.Column) {
			low, high := int64(domain.DefaultRangeLow), int64(domain.DefaultRangeHigh)
			c.Integer = &domain.IntegerAttrs{RangeLow: &low, RangeHigh: &high}
		},
		values: func(c *domain.Column) map[string]string {
			return map[string]string{
				"range_low":  intValue(c.Integer.RangeLow),
				"range_high": intValue(c.Integer.RangeHigh),
			}
		},
		apply: func(c *domain.Column, v map[string]string) error {
			low, err := optInt(v["range_low"])
			if err != nil {
				return err
			}
			high, err := optInt(v["range_high"])
			if err != nil {
				return err
			}
			c.Integer = &domain.IntegerAttrs{RangeLow: low, RangeHigh: high}
			return nil
		},
	},
	domain.KindFullName: {
		Kind: domain.KindFullName,
		Fields: []Field{
			{Name: "first_name", Label: "First name", Rules: "omitempty,max=10"},
			{Name: "last_name", Label: "Last name", Rules: "omitempty,max=15"},
		},
		reset: func(c *domain.Column) { c.FullName = &domain.FullNameAttrs{} },
		values: func(c *domain.Column) map[string]string {
			return map[string]string{
				"first_name": strValue(c.FullName.FirstName),
				"last_name":  strValue(c.FullName.LastName),
			}
		},
		apply: func(c *domain.Column, v map[string]string) error {
			c.FullName = &domain.FullNameAttrs{FirstName: optString(v["first_name"]), LastName: optString(v["last_name"])}
			return nil
		},
	},
	domain.KindJob: {
		Kind:   domain.KindJob,
		Fields: []Field{{Name: "job_name", Label: "Job name", Rules: "omitempty,max=100"}},
		reset:  func(c *domain.Column) { c.Job = &domain.JobAttrs{} },
		values: func(c *domain.Column) map[string]string {
			return map[string]string{"job_name": strValue(c.Job.JobName)}
		},
		apply: func(c *domain.Column, v map[string]string) error {
			c.Job = &domain.JobAttrs{JobName: optString(v["job_name"])}
			return nil
		},
	},
	domain.KindCompany: {
		Kind:   domain.KindCompany,
		Fields: []Field{{Name: "company_name", Label: "Company name", Rules: "omitempty,max=100"}},
		reset:  func(c *domain.Column) { c.Company = &domain.CompanyAttrs{} },
		values: func(c *domain.Column) map[string]string {
			return map[string]string{"company_name": strValue(c.Company.CompanyName)}
		},
		apply: func(c *domain.Column, v map[string]string) error {
			c.Company = &domain.CompanyAttrs{CompanyName: optString(v["company_name"])}
			return nil
		},
	},
	domain.KindPhone: {
		Kind:   domain.KindPhone,
		Fields: []Field{{Name: "phone_number", Label: "Phone number", Rules: "omitempty,max=17,phone"}},
		reset:  func(c *domain.Column) { c.Phone = &domain.PhoneAttrs{} },
		values: func(c *domain.Column) map[string]string {
			return map[string]string{"phone_number": strValue(c.Phone.PhoneNumber)}
		},
		apply: func(c *domain.Column, v map[string]string) error {
			c.Phone = &domain.PhoneAttrs{PhoneNumber: optString(v["phone_number"])}
			return nil
		},
	},
}

// Lookup returns the registry entry of kind.
func Lookup(kind domain.Kind) (Entry, bool) {
	e, ok := registry[kind]
	return e, ok
}

// Entries returns every kind in display order.
func Entries() []Entry {
	entries := make([]Entry, 0, len(domain.KindChoices))
	for _, choice := range domain.KindChoices {
		entries = append(entries, registry[domain.Kind(choice.Value)])
	}
	return entries
}

// KindOf resolves the kind of a stored column. A column without exactly one
// payload is corrupt and reported as a ServerError.
func KindOf(col *domain.Column) (domain.Kind, error) {
	kind, ok := col.Kind()
	if !ok {
		return "", apperrors.NewServerError(fmt.Sprintf("column %d has no single kind payload", col.ID), nil)
	}
	return kind, nil
}

func entryFor(kind domain.Kind) (Entry, error) {
	e, ok := registry[kind]
	if !ok {
		return Entry{}, apperrors.NewValidationError(fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", kind), "kind")
	}
	return e, nil
}

func clearPayload(c *domain.Column) {
	c.Integer, c.FullName, c.Job, c.Company, c.Phone = nil, nil, nil, nil, nil
}

// SetDefaults replaces the payload of col with the defaults of kind.
func SetDefaults(col *domain.Column, kind domain.Kind) error {
	e, err := entryFor(kind)
	if err != nil {
		return err
	}
	clearPayload(col)
	e.reset(col)
	return nil
}

// Values returns the payload of col keyed by field name. Empty string stands for NULL.
func Values(col *domain.Column) (map[string]string, error) {
	kind, err := KindOf(col)
	if err != nil {
		return nil, err
	}
	return registry[kind].values(col), nil
}

// Apply replaces the payload of col with values interpreted as kind.
func Apply(col *domain.Column, kind domain.Kind, values map[string]string) error {
	e, err := entryFor(kind)
	if err != nil {
		return err
	}
	clearPayload(col)
	return e.apply(col, values)
}

func intValue(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optInt(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("Enter a whole number.")
	}
	return &n, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
