package columns

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/nebula-schemas/config"
	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/domain"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

func testDBSetup(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.ConnectSchemaDB(&config.Config{DatabaseDir: t.TempDir(), DatabaseFile: "columns.db"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEntriesFollowChoiceOrder(t *testing.T) {
	var labels []string
	for _, e := range Entries() {
		labels = append(labels, e.Label())
		assert.NotEmpty(t, e.Fields, "kind %s has detail fields", e.Kind)
	}
	assert.Equal(t, []string{"Integer", "Full Name", "Job", "Phone", "Company"}, labels)
}

func TestKindOf(t *testing.T) {
	kind, err := KindOf(&domain.Column{Phone: &domain.PhoneAttrs{}})
	require.NoError(t, err)
	assert.Equal(t, domain.KindPhone, kind)

	_, err = KindOf(&domain.Column{ID: 3})
	assert.Error(t, err)
	assert.Equal(t, 500, apperrors.GetHTTPStatus(err))
}

func TestSetDefaults(t *testing.T) {
	col := &domain.Column{Job: &domain.JobAttrs{}}
	require.NoError(t, SetDefaults(col, domain.KindInteger))

	assert.Nil(t, col.Job)
	require.NotNil(t, col.Integer)
	assert.EqualValues(t, -20, *col.Integer.RangeLow)
	assert.EqualValues(t, 40, *col.Integer.RangeHigh)

	assert.True(t, apperrors.IsValidation(SetDefaults(col, domain.Kind("DateColumn"))))
}

func TestValuesAndApply(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.Kind
		values map[string]string
	}{
		{"integer", domain.KindInteger, map[string]string{"range_low": "-5", "range_high": "17"}},
		{"integer nulls", domain.KindInteger, map[string]string{"range_low": "", "range_high": ""}},
		{"full name", domain.KindFullName, map[string]string{"first_name": "Ada", "last_name": ""}},
		{"job", domain.KindJob, map[string]string{"job_name": "Pilot"}},
		{"company", domain.KindCompany, map[string]string{"company_name": "Acme"}},
		{"phone", domain.KindPhone, map[string]string{"phone_number": "+421960321654"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col := &domain.Column{Name: "c"}
			require.NoError(t, Apply(col, tc.kind, tc.values))

			kind, err := KindOf(col)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, kind)

			got, err := Values(col)
			require.NoError(t, err)
			assert.Equal(t, tc.values, got)
		})
	}
}

func TestApplyRejectsNonInteger(t *testing.T) {
	err := Apply(&domain.Column{}, domain.KindInteger, map[string]string{"range_low": "1.5"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestChangeKindPreservesIdentity(t *testing.T) {
	db := testDBSetup(t)
	ctx := context.Background()

	schema, err := storage.CreateSchema(ctx, db, "Kinds")
	require.NoError(t, err)
	job := "Pilot"
	col, err := storage.CreateColumn(ctx, db, &domain.Column{SchemaID: schema.ID, Name: "work", Order: 4, Job: &domain.JobAttrs{JobName: &job}})
	require.NoError(t, err)

	created, err := ChangeKind(ctx, db, col, domain.KindInteger, col.Name, col.Order)
	require.NoError(t, err)

	stored, err := storage.GetColumn(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "work", stored.Name)
	assert.EqualValues(t, 4, stored.Order)
	assert.Equal(t, schema.ID, stored.SchemaID)
	assert.Nil(t, stored.Job, "old payload discarded")
	require.NotNil(t, stored.Integer)
	assert.EqualValues(t, -20, *stored.Integer.RangeLow)

	_, err = storage.GetColumn(ctx, db, col.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestChangeKindFailureKeepsOldColumn(t *testing.T) {
	db := testDBSetup(t)
	ctx := context.Background()

	schema, err := storage.CreateSchema(ctx, db, "Kinds")
	require.NoError(t, err)
	col, err := storage.CreateColumn(ctx, db, &domain.Column{SchemaID: schema.ID, Name: "a", Order: 1, Job: &domain.JobAttrs{}})
	require.NoError(t, err)
	_, err = storage.CreateColumn(ctx, db, &domain.Column{SchemaID: schema.ID, Name: "b", Order: 2, Job: &domain.JobAttrs{}})
	require.NoError(t, err)

	// Renaming onto "b" violates (schema, name) uniqueness.
	_, err = ChangeKind(ctx, db, col, domain.KindPhone, "b", 1)
	verr, ok := apperrors.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"schema", "name"}, verr.Fields)

	stored, err := storage.GetColumn(ctx, db, col.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Name)
	assert.NotNil(t, stored.Job)
}
