package models

import "strconv"

// Class is a scheduled group session.
type Class struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name" validate:"notblank"`
	Instructor  string `json:"instructor" validate:"notblank"`
	Schedule    string `json:"schedule" validate:"notblank"`
	Capacity    int    `json:"capacity" validate:"gt=0"`
	Description string `json:"description,omitempty"`
}

func (c Class) Key() string {
	if c.ID == 0 {
		return ""
	}
	return strconv.FormatInt(c.ID, 10)
}

func (c Class) Validate() error {
	return validateStruct(c)
}

// Matches searches name and instructor. Classes carry no status.
func (c Class) Matches(q QueryState) bool {
	return containsFold(q.Search, c.Name, c.Instructor)
}
