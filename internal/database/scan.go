package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLite hands timestamps back as text; PostgreSQL as time.Time.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

type timeScanner struct{ dst *time.Time }

// Time returns a scanner that accepts a timestamp from either driver.
func Time(dst *time.Time) sql.Scanner { return timeScanner{dst: dst} }

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.dst = time.Time{}
		return nil
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("database: cannot scan %T into time", src)
	}
}

func (s timeScanner) parse(v string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("database: unrecognised timestamp %q", v)
}
