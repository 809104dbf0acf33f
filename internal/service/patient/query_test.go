package patient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
)

func TestCompileListQueryDefaults(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{})
	require.Nil(t, errs)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, "created_at", q.SortColumn)
	assert.True(t, q.SortDesc)
	assert.Empty(t, q.Search)
	assert.Nil(t, q.HasDiagnosis)
}

func TestCompileListQueryPaging(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{Page: "3", Limit: "10"})
	require.Nil(t, errs)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestCompileListQueryMalformedPagingFallsBack(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0", "1.5", ""} {
		q, errs := compileListQuery(&model.PatientListParams{Page: raw, Limit: raw})
		require.Nil(t, errs, raw)
		assert.Equal(t, 1, q.Page, raw)
		assert.Equal(t, 20, q.Limit, raw)
	}
}

func TestCompileListQuerySexFilter(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{Sex: "MALE"})
	require.Nil(t, errs)
	assert.Equal(t, model.SexMale, q.Sex)

	// Invalid sex is ignored, not an error.
	q, errs = compileListQuery(&model.PatientListParams{Sex: "banana"})
	require.Nil(t, errs)
	assert.Empty(t, q.Sex)
}

func TestCompileListQueryHasDiagnosis(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{HasDiagnosis: "true"})
	require.Nil(t, errs)
	require.NotNil(t, q.HasDiagnosis)
	assert.True(t, *q.HasDiagnosis)

	q, errs = compileListQuery(&model.PatientListParams{HasDiagnosis: "false"})
	require.Nil(t, errs)
	require.NotNil(t, q.HasDiagnosis)
	assert.False(t, *q.HasDiagnosis)

	q, errs = compileListQuery(&model.PatientListParams{HasDiagnosis: "maybe"})
	require.Nil(t, errs)
	assert.Nil(t, q.HasDiagnosis)
}

func TestCompileListQuerySort(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{SortBy: "last_name", SortOrder: "asc"})
	require.Nil(t, errs)
	assert.Equal(t, "last_name", q.SortColumn)
	assert.False(t, q.SortDesc)

	q, errs = compileListQuery(&model.PatientListParams{SortBy: "birth_date", SortOrder: "desc"})
	require.Nil(t, errs)
	assert.Equal(t, "birth_date", q.SortColumn)
	assert.True(t, q.SortDesc)
}

func TestCompileListQueryRejectsUnknownSortColumn(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{SortBy: "phone; DROP TABLE patients"})
	assert.Nil(t, q)
	require.Contains(t, errs, "sort_by")
}

func TestCompileListQueryRejectsUnknownSortOrder(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{SortOrder: "sideways"})
	assert.Nil(t, q)
	require.Contains(t, errs, "sort_order")
}

func TestCompileListQueryTrimsSearch(t *testing.T) {
	q, errs := compileListQuery(&model.PatientListParams{Q: "  alaoui  ", City: " Fes "})
	require.Nil(t, errs)
	assert.Equal(t, "alaoui", q.Search)
	assert.Equal(t, "Fes", q.City)
}
