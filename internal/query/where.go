package query

import (
	"strings"
)

// MatchAll is the clause returned for a filter without conditions.
const MatchAll = "1"

const queryPlaceholder = "query"

// Predicate is a compiled WHERE expression. Clause holds only trusted column
// names and :name placeholders; every user value lives in Binds, keyed by
// placeholder name without the leading colon.
type Predicate struct {
	Clause string
	Binds  map[string]interface{}
}

// MatchesAll reports whether the predicate is the match-everything sentinel.
func (p Predicate) MatchesAll() bool {
	return p.Clause == MatchAll
}

// Compile turns a validated filter into a parameterized predicate.
//
// Each non-empty field value becomes "<column> LIKE :<field>" bound to
// "%value%". Free text becomes one parenthesized OR group over the target
// fields (or the entity defaults), all sharing the :query placeholder. A
// field value and the free text may hit the same column; both conditions are
// kept and joined with the filter's operator.
func Compile(fields Fields, f Filter) Predicate {
	var conditions []string
	binds := make(map[string]interface{})

	for _, name := range fields.Names() {
		value := f.Values[name]
		if value == "" {
			continue
		}
		column, _ := fields.Column(name)
		conditions = append(conditions, column+" LIKE :"+name)
		binds[name] = "%" + value + "%"
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		targets := f.Targets
		if len(targets) == 0 {
			targets = fields.DefaultSearch()
		}

		var group []string
		for _, name := range fields.Names() {
			if !contains(targets, name) {
				continue
			}
			column, _ := fields.Column(name)
			group = append(group, column+" LIKE :"+queryPlaceholder)
		}
		if len(group) > 0 {
			conditions = append(conditions, "("+strings.Join(group, " OR ")+")")
			binds[queryPlaceholder] = "%" + q + "%"
		}
	}

	if len(conditions) == 0 {
		return Predicate{Clause: MatchAll, Binds: map[string]interface{}{}}
	}

	op := f.Operator
	if op == "" {
		op = And
	}

	return Predicate{
		Clause: strings.Join(conditions, " "+string(op)+" "),
		Binds:  binds,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
