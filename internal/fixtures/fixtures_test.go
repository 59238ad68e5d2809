package fixtures

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/nebula-schemas/config"
	"github.com/Annany2002/nebula-schemas/internal/domain"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

func TestInitialFixture(t *testing.T) {
	f, err := Initial()
	require.NoError(t, err)
	require.Len(t, f.Schemas, 1)
	assert.Equal(t, "Initial Schema Test", f.Schemas[0].Name)
	assert.Len(t, f.Schemas[0].Columns, 7)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", "schemas:\n  - name: s\n    columns:\n      - {name: a, kind: DateColumn, order: 1}\n"},
		{"bad phone", "schemas:\n  - name: s\n    columns:\n      - {name: a, kind: PhoneColumn, order: 1, phone_number: fq62gf}\n"},
		{"negative order", "schemas:\n  - name: s\n    columns:\n      - {name: a, kind: JobColumn, order: -1}\n"},
		{"bad separator", "schemas:\n  - name: s\n    column_separator: '|'\n"},
		{"unknown field", "schemas:\n  - name: s\n    colour: red\n"},
		{"missing name", "schemas:\n  - columns: []\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db, err := storage.ConnectSchemaDB(&config.Config{DatabaseDir: t.TempDir(), DatabaseFile: "fixtures.db"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	f, err := Initial()
	require.NoError(t, err)

	created, err := Apply(ctx, db, f)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = Apply(ctx, db, f)
	require.NoError(t, err)
	assert.Zero(t, created)

	schemas, err := storage.ListSchemas(ctx, db)
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, 7, schemas[0].ColumnCount)

	cols, err := storage.ListColumns(ctx, db, schemas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "int1_range_defaluts", cols[0].Name)
	require.NotNil(t, cols[0].Integer)
	assert.EqualValues(t, 40, *cols[0].Integer.RangeHigh)
	kind, _ := cols[4].Kind()
	assert.Equal(t, domain.KindPhone, kind)
	assert.EqualValues(t, 10, cols[6].Order)
}

func TestApplyCustomAttributes(t *testing.T) {
	db, err := storage.ConnectSchemaDB(&config.Config{DatabaseDir: t.TempDir(), DatabaseFile: "fixtures.db"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	doc := `
schemas:
  - name: Contacts
    column_separator: ";"
    string_character: "'"
    columns:
      - {name: who, kind: FullNameColumn, order: 0, first_name: Ada}
      - {name: age, kind: IntegerColumn, order: 1, range_low: 18}
      - {name: tel, kind: PhoneColumn, order: 2, phone_number: "+421960321654"}
`
	f, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	_, err = Apply(ctx, db, f)
	require.NoError(t, err)

	schemas, err := storage.ListSchemas(ctx, db)
	require.NoError(t, err)
	schema, err := storage.GetSchema(ctx, db, schemas[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ";", schema.ColumnSeparator)
	assert.Equal(t, "'", schema.StringCharacter)

	cols, err := storage.ListColumns(ctx, db, schema.ID)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "Ada", *cols[0].FullName.FirstName)
	assert.Nil(t, cols[0].FullName.LastName)
	assert.EqualValues(t, 18, *cols[1].Integer.RangeLow)
	assert.EqualValues(t, 40, *cols[1].Integer.RangeHigh, "default kept")
	assert.Equal(t, "+421960321654", *cols[2].Phone.PhoneNumber)
}
