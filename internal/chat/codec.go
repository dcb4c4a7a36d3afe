package chat

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrCorruptDecimal reports stored decimal text that no longer parses as a
// number. The codec below is the only writer of these columns, so hitting
// this means the row was modified outside the application.
var ErrCorruptDecimal = errors.New("corrupt decimal value")

// Seconds carries a duration across the storage boundary. In the database it
// is decimal(10,2) text so repeated read/write cycles cannot drift the value;
// in Go and on the wire it is a plain number. Any 2-fraction-digit value
// round-trips exactly.
type Seconds float64

func (s Seconds) Value() (driver.Value, error) {
	return strconv.FormatFloat(float64(s), 'f', 2, 64), nil
}

func (s *Seconds) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case float64:
		*s = Seconds(v)
		return nil
	case int64:
		*s = Seconds(v)
		return nil
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("%w: unexpected type %T", ErrCorruptDecimal, src)
	}
}

func (s *Seconds) parse(text string) error {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrCorruptDecimal, text)
	}
	*s = Seconds(f)
	return nil
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(s))
}

func (s *Seconds) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Seconds(f)
	return nil
}
