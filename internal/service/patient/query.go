package patient

import (
	"strconv"
	"strings"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// sortColumns is the allow-list of sortable fields. Anything outside
// it is rejected instead of being passed through to the store.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"last_name":  "last_name",
	"first_name": "first_name",
	"birth_date": "birth_date",
	"city":       "city",
}

// compileListQuery turns raw list parameters into a query descriptor.
// Malformed paging values fall back to defaults and an invalid sex is
// ignored; an unknown sort field or order is a validation error.
func compileListQuery(params *model.PatientListParams) (*model.PatientQuery, map[string][]string) {
	errs := map[string][]string{}

	page := positiveIntOrDefault(params.Page, defaultPage)
	limit := positiveIntOrDefault(params.Limit, defaultLimit)

	q := &model.PatientQuery{
		Search: strings.TrimSpace(params.Q),
		City:   strings.TrimSpace(params.City),
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if s := model.Sex(params.Sex); s.Valid() {
		q.Sex = s
	}

	switch params.HasDiagnosis {
	case "true":
		v := true
		q.HasDiagnosis = &v
	case "false":
		v := false
		q.HasDiagnosis = &v
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if col, ok := sortColumns[sortBy]; ok {
		q.SortColumn = col
	} else {
		addFieldError(errs, "sort_by", "must be one of: created_at, updated_at, last_name, first_name, birth_date, city")
	}

	switch params.SortOrder {
	case "", "desc":
		q.SortDesc = true
	case "asc":
		q.SortDesc = false
	default:
		addFieldError(errs, "sort_order", "must be asc or desc")
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return q, nil
}

func positiveIntOrDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
