package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BillType represents how a bill is settled
type BillType string

const (
	BillTypeCash   BillType = "Cash"
	BillTypeCredit BillType = "Credit"
)

func (t BillType) String() string {
	return string(t)
}

// Valid reports whether the value is one of the known bill types
func (t BillType) Valid() bool {
	return t == BillTypeCash || t == BillTypeCredit
}

func (t BillType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *BillType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = BillType(str)
	return nil
}

func (t BillType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *BillType) Scan(value interface{}) error {
	if value == nil {
		*t = BillTypeCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = BillType(v)
	case []byte:
		*t = BillType(string(v))
	}
	return nil
}
