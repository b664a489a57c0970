package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateTime is a UTC timestamp rendered as 2006-01-02T15:04:05.
// Decoding also accepts RFC 3339 with an explicit offset.
type DateTime time.Time

func NewDateTime(t time.Time) DateTime {
	return DateTime(t.UTC())
}

func (d DateTime) Time() time.Time {
	return time.Time(d)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).UTC().Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

func ParseDateTime(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateTimeLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, expected %s", raw, DateTimeLayout)
}
