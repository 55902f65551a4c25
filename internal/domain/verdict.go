package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Verdict is one entry of the oracle's raw response.
type Verdict struct {
	Blocked bool `json:"blocked"`
}

// VerdictMap stores the raw oracle response, keyed by domain name, inside a
// JSON column.
type VerdictMap map[string]Verdict

// Value implements driver.Valuer so VerdictMap can be stored as JSON.
func (m VerdictMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}

	data, err := json.Marshal(map[string]Verdict(m))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Scan implements sql.Scanner to hydrate the VerdictMap from the database.
func (m *VerdictMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return m.unmarshal(v)
	case string:
		return m.unmarshal([]byte(v))
	default:
		return fmt.Errorf("domain.VerdictMap: unsupported type %T", value)
	}
}

func (m *VerdictMap) unmarshal(data []byte) error {
	if len(data) == 0 {
		*m = nil
		return nil
	}

	var parsed map[string]Verdict
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	*m = parsed
	return nil
}
