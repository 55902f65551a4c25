package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NameList stores a slice of domain names inside a JSON column.
type NameList []string

// Value implements driver.Valuer so NameList can be stored as JSON.
func (l NameList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}

	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Scan implements sql.Scanner to hydrate the NameList from the database.
func (l *NameList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return l.unmarshal(v)
	case string:
		return l.unmarshal([]byte(v))
	default:
		return fmt.Errorf("domain.NameList: unsupported type %T", value)
	}
}

func (l *NameList) unmarshal(data []byte) error {
	if len(data) == 0 {
		*l = nil
		return nil
	}

	var parsed []string
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	*l = parsed
	return nil
}
