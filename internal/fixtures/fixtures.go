// Package fixtures loads schemas described in YAML into the store.
package fixtures

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Annany2002/nebula-schemas/internal/columns"
	"github.com/Annany2002/nebula-schemas/internal/core"
	"github.com/Annany2002/nebula-schemas/internal/domain"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

var customLog = logger.NewLogger()

//go:embed initial_schema.yaml
var initialSchema []byte

// File is the root of a fixture document.
type File struct {
	Schemas []Schema `yaml:"schemas" validate:"dive"`
}

// Schema is one schema with its columns.
type Schema struct {
	Name            string   `yaml:"name" validate:"required,max=100"`
	ColumnSeparator string   `yaml:"column_separator" validate:"omitempty,separator"`
	StringCharacter string   `yaml:"string_character" validate:"omitempty,quotechar"`
	Columns         []Column `yaml:"columns" validate:"dive"`
}

// Column carries the kind tag and whichever attributes that kind uses.
// Attributes left out get the kind defaults.
type Column struct {
	Name        string `yaml:"name" validate:"required,max=100"`
	Kind        string `yaml:"kind" validate:"required,columnkind"`
	Order       int64  `yaml:"order" validate:"gte=0"`
	RangeLow    *int64 `yaml:"range_low"`
	RangeHigh   *int64 `yaml:"range_high"`
	FirstName   string `yaml:"first_name" validate:"omitempty,max=10"`
	LastName    string `yaml:"last_name" validate:"omitempty,max=15"`
	JobName     string `yaml:"job_name" validate:"omitempty,max=100"`
	CompanyName string `yaml:"company_name" validate:"omitempty,max=100"`
	PhoneNumber string `yaml:"phone_number" validate:"omitempty,max=17,phone"`
}

// Decode reads and validates a fixture document.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode fixture YAML: %w", err)
	}
	if err := core.Validator().Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// LoadFile decodes the fixture at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Initial returns the bundled "Initial Schema Test" fixture.
func Initial() (*File, error) {
	return Decode(bytes.NewReader(initialSchema))
}

// Apply creates every schema of f whose name is not taken yet. Each schema is
// written in its own transaction. Returns how many schemas were created.
func Apply(ctx context.Context, db *sql.DB, f *File) (int, error) {
	existing, err := storage.ListSchemas(ctx, db)
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s.Name] = true
	}

	created := 0
	for _, fs := range f.Schemas {
		if taken[fs.Name] {
			customLog.Printf("Fixtures: Schema '%s' already exists, skipping", fs.Name)
			continue
		}
		err := storage.WithTransaction(ctx, db, func(tx *sql.Tx) error {
			return createSchema(ctx, tx, fs)
		})
		if err != nil {
			return created, fmt.Errorf("fixture schema '%s': %w", fs.Name, err)
		}
		taken[fs.Name] = true
		created++
		customLog.Printf("Fixtures: Created schema '%s' with %d columns", fs.Name, len(fs.Columns))
	}
	return created, nil
}

func createSchema(ctx context.Context, tx *sql.Tx, fs Schema) error {
	schema, err := storage.CreateSchema(ctx, tx, fs.Name)
	if err != nil {
		return err
	}
	if fs.ColumnSeparator != "" || fs.StringCharacter != "" {
		if fs.ColumnSeparator != "" {
			schema.ColumnSeparator = fs.ColumnSeparator
		}
		if fs.StringCharacter != "" {
			schema.StringCharacter = fs.StringCharacter
		}
		if err := storage.UpdateSchema(ctx, tx, schema); err != nil {
			return err
		}
	}

	for _, fc := range fs.Columns {
		col, err := fc.toColumn(schema.ID)
		if err != nil {
			return err
		}
		if _, err := storage.CreateColumn(ctx, tx, col); err != nil {
			return fmt.Errorf("column '%s': %w", fc.Name, err)
		}
	}
	return nil
}

func (fc Column) toColumn(schemaID int64) (*domain.Column, error) {
	kind, _ := domain.ParseKind(fc.Kind)
	col := &domain.Column{SchemaID: schemaID, Name: fc.Name, Order: fc.Order}
	if err := columns.SetDefaults(col, kind); err != nil {
		return nil, err
	}
	values, err := columns.Values(col)
	if err != nil {
		return nil, err
	}
	overrides := map[string]string{
		"first_name":   fc.FirstName,
		"last_name":    fc.LastName,
		"job_name":     fc.JobName,
		"company_name": fc.CompanyName,
		"phone_number": fc.PhoneNumber,
	}
	if fc.RangeLow != nil {
		overrides["range_low"] = strconv.FormatInt(*fc.RangeLow, 10)
	}
	if fc.RangeHigh != nil {
		overrides["range_high"] = strconv.FormatInt(*fc.RangeHigh, 10)
	}
	for k := range values {
		if v := overrides[k]; v != "" {
			values[k] = v
		}
	}
	if err := columns.Apply(col, kind, values); err != nil {
		return nil, err
	}
	return col, nil
}
