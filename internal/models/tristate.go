package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TriState is a yes/no answer that may also be unknown.
type TriState uint8

const (
	TriUnset TriState = iota
	TriTrue
	TriFalse
)

func TriStateOf(value bool) TriState {
	if value {
		return TriTrue
	}
	return TriFalse
}

// ParseTriState accepts true/yes/1 and false/no/0 in any case. Anything else,
// including blanks, is TriUnset.
func ParseTriState(raw string) TriState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return TriTrue
	case "false", "no", "0":
		return TriFalse
	default:
		return TriUnset
	}
}

func (value TriState) IsTrue() bool {
	return value == TriTrue
}

func (value TriState) IsSet() bool {
	return value == TriTrue || value == TriFalse
}

// FormValue is the select option value used by forms: "", "true" or "false".
func (value TriState) FormValue() string {
	switch value {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return ""
	}
}

func (value TriState) String() string {
	switch value {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unset"
	}
}

func (value TriState) MarshalJSON() ([]byte, error) {
	switch value {
	case TriTrue:
		return []byte("true"), nil
	case TriFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (value *TriState) UnmarshalJSON(data []byte) error {
	var decoded *bool
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("decode tri-state: %w", err)
	}
	if decoded == nil {
		*value = TriUnset
		return nil
	}
	*value = TriStateOf(*decoded)
	return nil
}

func (value TriState) Value() (driver.Value, error) {
	switch value {
	case TriTrue:
		return true, nil
	case TriFalse:
		return false, nil
	default:
		return nil, nil
	}
}

func (value *TriState) Scan(source any) error {
	switch typed := source.(type) {
	case nil:
		*value = TriUnset
	case bool:
		*value = TriStateOf(typed)
	case int64:
		*value = TriStateOf(typed != 0)
	case []byte:
		return value.scanText(string(typed))
	case string:
		return value.scanText(typed)
	default:
		return fmt.Errorf("scan tri-state: unsupported type %T", source)
	}
	return nil
}

func (value *TriState) scanText(text string) error {
	parsed, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("scan tri-state: %w", err)
	}
	*value = TriStateOf(parsed)
	return nil
}
