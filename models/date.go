package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// Date is a calendar date stored in a postgres date column and serialized as
// YYYY-MM-DD.
type Date struct {
	datatypes.Date
}

func NewDate(t time.Time) Date {
	return Date{datatypes.Date(t)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

func (d Date) IsZero() bool {
	return d.Time().IsZero()
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &DecodeError{Field: "date_of_birth", Message: "Date has wrong format. Use YYYY-MM-DD."}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return &DecodeError{Field: "date_of_birth", Message: "Date has wrong format. Use YYYY-MM-DD."}
	}
	*d = parsed
	return nil
}
