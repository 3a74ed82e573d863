package utils

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type JSONMap map[string]any

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	b, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("JSONMap: %w", err)
	}
	return json.Unmarshal(b, j)
}

// JSONB stores a typed value in a jsonb column. The zero value maps to NULL.
type JSONB[T any] struct {
	Data  T
	Valid bool
}

func NewJSONB[T any](v T) JSONB[T] {
	return JSONB[T]{Data: v, Valid: true}
}

// JSONBFromPtr maps nil to an invalid value.
func JSONBFromPtr[T any](v *T) JSONB[T] {
	if v == nil {
		return JSONB[T]{}
	}
	return NewJSONB(*v)
}

func (j JSONB[T]) Ptr() *T {
	if !j.Valid {
		return nil
	}
	v := j.Data
	return &v
}

func (j JSONB[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	return json.Marshal(j.Data)
}

func (j *JSONB[T]) Scan(value any) error {
	if value == nil {
		var zero T
		j.Data, j.Valid = zero, false
		return nil
	}

	b, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("JSONB: %w", err)
	}
	if err := json.Unmarshal(b, &j.Data); err != nil {
		return err
	}
	j.Valid = true
	return nil
}

func (j JSONB[T]) MarshalJSON() ([]byte, error) {
	if !j.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(j.Data)
}

func (j *JSONB[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		j.Data, j.Valid = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &j.Data); err != nil {
		return err
	}
	j.Valid = true
	return nil
}

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("scan failed, expected []byte but got %T", value)
}
