package model

import (
	"time"
)

// EmployeeRow is the employees table record.
type EmployeeRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

type Employee struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	FacilityIDs []int64   `json:"facility_ids"`
}

type CreateEmployeeRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=255"`
	Address     string  `json:"address" binding:"required,notblank,max=255"`
	Phone       string  `json:"phone" binding:"required,notblank,phone"`
	Email       string  `json:"email" binding:"required,email,max=255"`
	FacilityIDs []int64 `json:"facility_ids" binding:"omitempty,dive,gt=0"`
}

// UpdateEmployeeRequest is a partial update. A nil FacilityIDs leaves the
// assignments alone; an empty list clears them.
type UpdateEmployeeRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=255"`
	Address     *string `json:"address" binding:"omitempty,notblank,max=255"`
	Phone       *string `json:"phone" binding:"omitempty,notblank,phone"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	FacilityIDs []int64 `json:"facility_ids" binding:"omitempty,dive,gt=0"`
}

func (r *UpdateEmployeeRequest) Apply(e *EmployeeRow) {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.Address != nil {
		e.Address = *r.Address
	}
	if r.Phone != nil {
		e.Phone = *r.Phone
	}
	if r.Email != nil {
		e.Email = *r.Email
	}
}
