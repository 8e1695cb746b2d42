package repository

import (
	"github.com/SezginYurdakul/catering-api/internal/query"
)

// Filterable fields per entity. Columns use the table aliases of the
// postgres list queries (l locations, t tags, f facilities, e employees).
var (
	LocationFields = query.NewFields("location", []string{"city", "address"},
		query.Field{Name: "city", Column: "l.city"},
		query.Field{Name: "address", Column: "l.address"},
		query.Field{Name: "zip_code", Column: "l.zip_code"},
		query.Field{Name: "country_code", Column: "l.country_code"},
	)

	TagFields = query.NewFields("tag", []string{"tag_name"},
		query.Field{Name: "tag_name", Column: "t.name"},
	)

	FacilityFields = query.NewFields("facility", []string{"facility_name"},
		query.Field{Name: "facility_name", Column: "f.name"},
		query.Field{Name: "city", Column: "l.city"},
		query.Field{Name: "tag", Column: "t.name"},
	)

	EmployeeFields = query.NewFields("employee", []string{"employee_name", "address", "email"},
		query.Field{Name: "employee_name", Column: "e.name"},
		query.Field{Name: "email", Column: "e.email"},
		query.Field{Name: "phone", Column: "e.phone"},
		query.Field{Name: "address", Column: "e.address"},
		query.Field{Name: "facility_name", Column: "f.name"},
		query.Field{Name: "city", Column: "l.city"},
	)
)
