package model

import (
	"time"
)

// FacilityRow is the facilities table record.
type FacilityRow struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	LocationID   int64     `db:"location_id"`
	CreationDate time.Time `db:"creation_date"`
}

// Facility is the assembled read model.
type Facility struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Location     *Location `json:"location"`
	CreationDate time.Time `json:"creation_date"`
	Tags         []*Tag    `json:"tags"`
}

// FacilityTagInput carries the tag fields of a facility write. Tags is the
// mixed smart-tag list; TagIDs and TagNames are the older split form. The two
// forms are mutually exclusive.
type FacilityTagInput struct {
	Tags     []TagRef `json:"tags"`
	TagIDs   []int64  `json:"tagIds" binding:"omitempty,dive,gt=0"`
	TagNames []string `json:"tagNames" binding:"omitempty,dive,required,notblank,max=100"`
}

// Present reports whether any tag field was sent.
func (in FacilityTagInput) Present() bool {
	return in.Tags != nil || in.TagIDs != nil || in.TagNames != nil
}

// Mixed reports whether both the smart list and the legacy fields were sent.
func (in FacilityTagInput) Mixed() bool {
	return in.Tags != nil && (in.TagIDs != nil || in.TagNames != nil)
}

// Refs flattens whichever form was sent into one reference list.
func (in FacilityTagInput) Refs() []TagRef {
	if in.Tags != nil {
		return in.Tags
	}
	refs := make([]TagRef, 0, len(in.TagIDs)+len(in.TagNames))
	for _, id := range in.TagIDs {
		refs = append(refs, TagID(id))
	}
	for _, name := range in.TagNames {
		refs = append(refs, TagName(name))
	}
	return refs
}

type CreateFacilityRequest struct {
	Name       string `json:"name" binding:"required,notblank,max=255"`
	LocationID int64  `json:"location_id" binding:"required,gt=0"`
	FacilityTagInput
}

type UpdateFacilityRequest struct {
	Name       *string `json:"name" binding:"omitempty,notblank,max=255"`
	LocationID *int64  `json:"location_id" binding:"omitempty,gt=0"`
	FacilityTagInput
}
