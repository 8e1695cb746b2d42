package model

// Location is where a facility is situated.
type Location struct {
	ID          int64  `json:"id" db:"id"`
	City        string `json:"city" db:"city"`
	Address     string `json:"address" db:"address"`
	ZipCode     string `json:"zip_code" db:"zip_code"`
	CountryCode string `json:"country_code" db:"country_code"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`
}

type CreateLocationRequest struct {
	City        string `json:"city" binding:"required,notblank,max=100"`
	Address     string `json:"address" binding:"required,notblank,max=255"`
	ZipCode     string `json:"zip_code" binding:"required,zipcode"`
	CountryCode string `json:"country_code" binding:"required,iso3166_1_alpha2"`
	PhoneNumber string `json:"phone_number" binding:"required,notblank,phone"`
}

// UpdateLocationRequest is a partial update; nil fields keep their value.
type UpdateLocationRequest struct {
	City        *string `json:"city" binding:"omitempty,notblank,max=100"`
	Address     *string `json:"address" binding:"omitempty,notblank,max=255"`
	ZipCode     *string `json:"zip_code" binding:"omitempty,zipcode"`
	CountryCode *string `json:"country_code" binding:"omitempty,iso3166_1_alpha2"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,notblank,phone"`
}

func (r *UpdateLocationRequest) Apply(l *Location) {
	if r.City != nil {
		l.City = *r.City
	}
	if r.Address != nil {
		l.Address = *r.Address
	}
	if r.ZipCode != nil {
		l.ZipCode = *r.ZipCode
	}
	if r.CountryCode != nil {
		l.CountryCode = *r.CountryCode
	}
	if r.PhoneNumber != nil {
		l.PhoneNumber = *r.PhoneNumber
	}
}
