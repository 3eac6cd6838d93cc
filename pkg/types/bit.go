package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Bit is a boolean flag stored as INTEGER 0/1 and serialized to JSON as 0/1.
// UnmarshalJSON accepts 0/1, true/false and null, so shells that send either
// form keep working.
type Bit bool

// MarshalJSON encodes the flag as 0 or 1.
func (b Bit) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON decodes numbers, booleans and null. Any non-zero number is true.
func (b *Bit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = Bit(v)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: flag must be 0, 1, true or false", ErrInvalidData)
	}
	*b = n != 0
	return nil
}

// Int returns 1 when the flag is set, else 0.
func (b Bit) Int() int64 {
	if b {
		return 1
	}
	return 0
}

// Value implements driver.Valuer.
func (b Bit) Value() (driver.Value, error) {
	return b.Int(), nil
}

// Scan implements sql.Scanner. NULL scans as false.
func (b *Bit) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case int64:
		*b = v != 0
	case bool:
		*b = Bit(v)
	case []byte:
		*b = len(v) > 0 && string(v) != "0"
	case string:
		*b = v != "" && v != "0"
	default:
		return fmt.Errorf("scanning flag: unsupported type %T", src)
	}
	return nil
}
