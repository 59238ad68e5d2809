// internal/domain/models.go
package domain

import "time"

// Column separator choices
const (
	SeparatorComma     = ","
	SeparatorSemicolon = ";"
)

// String character (quote) choices
const (
	QuoteDouble = `"`
	QuoteSingle = "'"
)

const (
	DefaultSchemaName      = "New Schema"
	DefaultFirstColumnName = "First Column"
	DefaultNewColumnName   = "New column"
	DefaultRangeLow        = -20
	DefaultRangeHigh       = 40
)

// Choice is a wire token paired with the label shown to the user.
type Choice struct {
	Value string
	Label string
}

var SeparatorChoices = []Choice{
	{SeparatorComma, "Comma(,)"},
	{SeparatorSemicolon, "Semicolon(;)"},
}

var QuoteChoices = []Choice{
	{QuoteDouble, `Double-quote(")`},
	{QuoteSingle, "Single-quote(')"},
}

// Schema is a named, ordered set of column definitions plus output formatting options.
type Schema struct {
	ID              int64
	Name            string
	ColumnSeparator string
	StringCharacter string
	ModifiedDate    time.Time
}

// Kind is the discriminant of a column. Its value is the wire tag.
type Kind string

const (
	KindInteger  Kind = "IntegerColumn"
	KindFullName Kind = "FullNameColumn"
	KindJob      Kind = "JobColumn"
	KindCompany  Kind = "CompanyColumn"
	KindPhone    Kind = "PhoneColumn"
)

// KindChoices lists every kind in display order.
var KindChoices = []Choice{
	{string(KindInteger), "Integer"},
	{string(KindFullName), "Full Name"},
	{string(KindJob), "Job"},
	{string(KindPhone), "Phone"},
	{string(KindCompany), "Company"},
}

// ParseKind maps a wire tag to a Kind.
func ParseKind(tag string) (Kind, bool) {
	switch Kind(tag) {
	case KindInteger, KindFullName, KindJob, KindCompany, KindPhone:
		return Kind(tag), true
	}
	return "", false
}

// Label returns the human readable name of the kind.
func (k Kind) Label() string {
	for _, c := range KindChoices {
		if c.Value == string(k) {
			return c.Label
		}
	}
	return string(k)
}

// Kind-specific payloads. Exactly one is set on a Column.

type IntegerAttrs struct {
	RangeLow  *int64
	RangeHigh *int64
}

type FullNameAttrs struct {
	FirstName *string
	LastName  *string
}

type JobAttrs struct {
	JobName *string
}

type CompanyAttrs struct {
	CompanyName *string
}

type PhoneAttrs struct {
	PhoneNumber *string
}

// Column is one typed field of a schema.
type Column struct {
	ID       int64
	SchemaID int64
	Name     string
	Order    int64

	Integer  *IntegerAttrs
	FullName *FullNameAttrs
	Job      *JobAttrs
	Company  *CompanyAttrs
	Phone    *PhoneAttrs
}

// Kind returns the discriminant of the column. ok is false unless exactly one
// payload is populated.
func (c *Column) Kind() (kind Kind, ok bool) {
	n := 0
	if c.Integer != nil {
		kind, n = KindInteger, n+1
	}
	if c.FullName != nil {
		kind, n = KindFullName, n+1
	}
	if c.Job != nil {
		kind, n = KindJob, n+1
	}
	if c.Company != nil {
		kind, n = KindCompany, n+1
	}
	if c.Phone != nil {
		kind, n = KindPhone, n+1
	}
	if n != 1 {
		return "", false
	}
	return kind, true
}

// SchemaSummary is a row of the schema list page.
type SchemaSummary struct {
	ID           int64
	Name         string
	ModifiedDate time.Time
	ColumnCount  int
}
