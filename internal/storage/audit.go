package storage

import (
	"fmt"
	"time"
)

// Audit holds the lifecycle columns every entity table carries.
type Audit struct {
	IsActive  bool      `db:"isActive" json:"isActive"`
	CreatedBy *int64    `db:"CreatedBy" json:"createdBy"`
	UpdatedBy *int64    `db:"UpdatedBy" json:"updatedBy"`
	CreatedAt Timestamp `db:"createdAt" json:"createdAt"`
	UpdatedAt Timestamp `db:"updatedAt" json:"updatedAt"`
}

// Timestamp scans DATETIME columns whether the driver hands back a
// time.Time or the raw text.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("storage.Timestamp: cannot scan %T", src)
	}
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("storage.Timestamp: cannot parse %q", s)
}
