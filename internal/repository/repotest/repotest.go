// Package repotest provides in-memory repositories for service tests.
// List and Count ignore the predicate and record it in LastWhere so tests
// can assert on what the service compiled.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
)

// FailFunc injects an error for operation op on id. Returning nil lets the
// call through.
type FailFunc func(op string, id int64) error

type store struct {
	mu        sync.Mutex
	nextID    int64
	LastWhere query.Predicate
	LastPage  repository.Page
	Fail      FailFunc
}

func (s *store) fail(op string, id int64) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op, id)
}

func (s *store) newID() int64 {
	s.nextID++
	return s.nextID
}

func window[T any](items []T, page repository.Page) []T {
	if page.Offset < 0 || page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Locations struct {
	store
	rows map[int64]model.Location
}

func NewLocations(locations ...model.Location) *Locations {
	r := &Locations{rows: make(map[int64]model.Location)}
	for _, l := range locations {
		r.rows[l.ID] = l
		if l.ID > r.nextID {
			r.nextID = l.ID
		}
	}
	return r
}

func (r *Locations) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere, r.LastPage = where, page
	if err := r.fail("List", 0); err != nil {
		return nil, err
	}
	var out []*model.Location
	for _, id := range sortedIDs(r.rows) {
		l := r.rows[id]
		out = append(out, &l)
	}
	return window(out, page), nil
}

func (r *Locations) Count(ctx context.Context, where query.Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere = where
	if err := r.fail("Count", 0); err != nil {
		return 0, err
	}
	return len(r.rows), nil
}

func (r *Locations) Get(ctx context.Context, id int64) (*model.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Get", id); err != nil {
		return nil, err
	}
	l, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *Locations) Create(ctx context.Context, location *model.Location) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Create", 0); err != nil {
		return 0, err
	}
	location.ID = r.newID()
	r.rows[location.ID] = *location
	return location.ID, nil
}

func (r *Locations) Update(ctx context.Context, location *model.Location) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Update", location.ID); err != nil {
		return false, err
	}
	if _, ok := r.rows[location.ID]; !ok {
		return false, nil
	}
	r.rows[location.ID] = *location
	return true, nil
}

func (r *Locations) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Delete", id); err != nil {
		return false, err
	}
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

type Tags struct {
	store
	rows map[int64]model.Tag
	// Links maps facility id to tag ids.
	Links map[int64][]int64
}

func NewTags(tags ...model.Tag) *Tags {
	r := &Tags{rows: make(map[int64]model.Tag), Links: make(map[int64][]int64)}
	for _, t := range tags {
		r.rows[t.ID] = t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

// Len returns the number of stored tags.
func (r *Tags) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Tags) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere, r.LastPage = where, page
	if err := r.fail("List", 0); err != nil {
		return nil, err
	}
	var out []*model.Tag
	for _, id := range sortedIDs(r.rows) {
		t := r.rows[id]
		out = append(out, &t)
	}
	return window(out, page), nil
}

func (r *Tags) Count(ctx context.Context, where query.Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere = where
	if err := r.fail("Count", 0); err != nil {
		return 0, err
	}
	return len(r.rows), nil
}

func (r *Tags) Get(ctx context.Context, id int64) (*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Get", id); err != nil {
		return nil, err
	}
	t, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *Tags) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("FindByName", 0); err != nil {
		return nil, err
	}
	for _, id := range sortedIDs(r.rows) {
		if t := r.rows[id]; strings.EqualFold(t.Name, name) {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Tags) ListByFacility(ctx context.Context, facilityID int64) ([]*model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("ListByFacility", facilityID); err != nil {
		return nil, err
	}
	var out []*model.Tag
	for _, id := range r.Links[facilityID] {
		if t, ok := r.rows[id]; ok {
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r *Tags) Create(ctx context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Create", 0); err != nil {
		return 0, err
	}
	for _, t := range r.rows {
		if strings.EqualFold(t.Name, name) {
			return 0, repository.ErrDuplicate
		}
	}
	id := r.newID()
	r.rows[id] = model.Tag{ID: id, Name: name}
	return id, nil
}

func (r *Tags) Update(ctx context.Context, tag *model.Tag) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Update", tag.ID); err != nil {
		return false, err
	}
	if _, ok := r.rows[tag.ID]; !ok {
		return false, nil
	}
	r.rows[tag.ID] = *tag
	return true, nil
}

func (r *Tags) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Delete", id); err != nil {
		return false, err
	}
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *Tags) InUse(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("InUse", id); err != nil {
		return false, err
	}
	for _, ids := range r.Links {
		for _, linked := range ids {
			if linked == id {
				return true, nil
			}
		}
	}
	return false, nil
}

// Facilities stores facility rows and writes tag links into Tags.Links so
// the tag lookups see them.
type Facilities struct {
	store
	rows map[int64]model.FacilityRow
	tags *Tags
}

func NewFacilities(tags *Tags, rows ...model.FacilityRow) *Facilities {
	r := &Facilities{rows: make(map[int64]model.FacilityRow), tags: tags}
	for _, f := range rows {
		r.rows[f.ID] = f
		if f.ID > r.nextID {
			r.nextID = f.ID
		}
	}
	return r
}

func (r *Facilities) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.FacilityRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere, r.LastPage = where, page
	if err := r.fail("List", 0); err != nil {
		return nil, err
	}
	var out []*model.FacilityRow
	for _, id := range sortedIDs(r.rows) {
		f := r.rows[id]
		out = append(out, &f)
	}
	return window(out, page), nil
}

func (r *Facilities) Count(ctx context.Context, where query.Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere = where
	if err := r.fail("Count", 0); err != nil {
		return 0, err
	}
	return len(r.rows), nil
}

func (r *Facilities) Get(ctx context.Context, id int64) (*model.FacilityRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Get", id); err != nil {
		return nil, err
	}
	f, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *Facilities) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Exists", id); err != nil {
		return false, err
	}
	_, ok := r.rows[id]
	return ok, nil
}

func (r *Facilities) link(facilityID int64, tagIDs []int64) error {
	r.tags.mu.Lock()
	defer r.tags.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, id := range tagIDs {
		if _, ok := r.tags.rows[id]; !ok {
			return &repository.ConstraintError{Err: repository.ErrForeignKey, Constraint: repository.FacilityTagFK}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	r.tags.Links[facilityID] = ids
	return nil
}

func (r *Facilities) Create(ctx context.Context, facility *model.FacilityRow, tagIDs []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Create", 0); err != nil {
		return 0, err
	}
	id := r.nextID + 1
	if err := r.link(id, tagIDs); err != nil {
		return 0, err
	}
	r.nextID = id
	facility.ID = id
	r.rows[id] = *facility
	return id, nil
}

func (r *Facilities) Update(ctx context.Context, facility *model.FacilityRow, tagIDs []int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Update", facility.ID); err != nil {
		return false, err
	}
	if _, ok := r.rows[facility.ID]; !ok {
		return false, nil
	}
	if tagIDs != nil {
		if err := r.link(facility.ID, tagIDs); err != nil {
			return false, err
		}
	}
	r.rows[facility.ID] = *facility
	return true, nil
}

func (r *Facilities) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Delete", id); err != nil {
		return false, err
	}
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	r.tags.mu.Lock()
	delete(r.tags.Links, id)
	r.tags.mu.Unlock()
	return true, nil
}

func (r *Facilities) UsesLocation(ctx context.Context, locationID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("UsesLocation", locationID); err != nil {
		return false, err
	}
	for _, f := range r.rows {
		if f.LocationID == locationID {
			return true, nil
		}
	}
	return false, nil
}

type Employees struct {
	store
	rows  map[int64]model.EmployeeRow
	links map[int64][]int64
}

func NewEmployees(rows ...model.EmployeeRow) *Employees {
	r := &Employees{rows: make(map[int64]model.EmployeeRow), links: make(map[int64][]int64)}
	for _, e := range rows {
		r.rows[e.ID] = e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

// Assign sets the facility links of an employee directly.
func (r *Employees) Assign(employeeID int64, facilityIDs ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[employeeID] = facilityIDs
}

func (r *Employees) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.EmployeeRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere, r.LastPage = where, page
	if err := r.fail("List", 0); err != nil {
		return nil, err
	}
	var out []*model.EmployeeRow
	for _, id := range sortedIDs(r.rows) {
		e := r.rows[id]
		out = append(out, &e)
	}
	return window(out, page), nil
}

func (r *Employees) Count(ctx context.Context, where query.Predicate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastWhere = where
	if err := r.fail("Count", 0); err != nil {
		return 0, err
	}
	return len(r.rows), nil
}

func (r *Employees) Get(ctx context.Context, id int64) (*model.EmployeeRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Get", id); err != nil {
		return nil, err
	}
	e, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *Employees) FacilityIDs(ctx context.Context, employeeID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("FacilityIDs", employeeID); err != nil {
		return nil, err
	}
	return append([]int64(nil), r.links[employeeID]...), nil
}

func (r *Employees) emailTaken(email string, except int64) bool {
	for id, e := range r.rows {
		if id != except && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

func (r *Employees) Create(ctx context.Context, employee *model.EmployeeRow, facilityIDs []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Create", 0); err != nil {
		return 0, err
	}
	if r.emailTaken(employee.Email, 0) {
		return 0, repository.ErrDuplicate
	}
	employee.ID = r.newID()
	r.rows[employee.ID] = *employee
	r.links[employee.ID] = append([]int64(nil), facilityIDs...)
	return employee.ID, nil
}

func (r *Employees) Update(ctx context.Context, employee *model.EmployeeRow, facilityIDs []int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Update", employee.ID); err != nil {
		return false, err
	}
	if _, ok := r.rows[employee.ID]; !ok {
		return false, nil
	}
	if r.emailTaken(employee.Email, employee.ID) {
		return false, repository.ErrDuplicate
	}
	r.rows[employee.ID] = *employee
	if facilityIDs != nil {
		r.links[employee.ID] = append([]int64(nil), facilityIDs...)
	}
	return true, nil
}

func (r *Employees) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("Delete", id); err != nil {
		return false, err
	}
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	delete(r.links, id)
	return true, nil
}

var (
	_ repository.LocationRepository = (*Locations)(nil)
	_ repository.TagRepository      = (*Tags)(nil)
	_ repository.FacilityRepository = (*Facilities)(nil)
	_ repository.EmployeeRepository = (*Employees)(nil)
)
