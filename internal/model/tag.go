package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type TagRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// TagRef is a smart tag reference: either an existing tag id or a tag name
// that is looked up, and created when unknown, at write time.
type TagRef struct {
	ID   int64
	Name string
}

func TagID(id int64) TagRef { return TagRef{ID: id} }

func TagName(name string) TagRef { return TagRef{Name: name} }

func (r TagRef) IsID() bool { return r.ID > 0 }

func (r TagRef) String() string {
	if r.IsID() {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Name
}

// UnmarshalJSON accepts a JSON number or a string. Numeric strings are ids.
func (r *TagRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		ref, err := ParseTagRef(s)
		if err != nil {
			return err
		}
		*r = ref
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("tag must be an id or a name")
	}
	id, err := n.Int64()
	if err != nil || id < 1 {
		return fmt.Errorf("tag id %s must be a positive integer", n)
	}
	*r = TagRef{ID: id}
	return nil
}

func (r TagRef) MarshalJSON() ([]byte, error) {
	if r.IsID() {
		return json.Marshal(r.ID)
	}
	return json.Marshal(r.Name)
}

// ParseTagRef classifies a raw string as an id or a name.
func ParseTagRef(s string) (TagRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TagRef{}, fmt.Errorf("tag name must not be empty")
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id < 1 {
			return TagRef{}, fmt.Errorf("tag id %d must be a positive integer", id)
		}
		return TagRef{ID: id}, nil
	}
	return TagRef{Name: s}, nil
}
