package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidField = errors.New("invalid field")

// Field selects one sensor column. Only the values below ever reach a query.
type Field string

const (
	FieldTemperature Field = "temperature"
	FieldHumidity    Field = "humidity"
	FieldMotion      Field = "motion"
	FieldLight       Field = "light"
	FieldVdd         Field = "vdd"
)

var AllFields = []Field{FieldTemperature, FieldHumidity, FieldMotion, FieldLight, FieldVdd}

var fieldColumns = map[Field]string{
	FieldTemperature: "temperature",
	FieldHumidity:    "humidity",
	FieldMotion:      "motion",
	FieldLight:       "light",
	FieldVdd:         "vdd",
}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldColumns[f]; !ok {
		return "", fmt.Errorf("%w: %q, expected one of %v", ErrInvalidField, s, AllFields)
	}
	return f, nil
}

func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Column returns the payloads column for f, or "" if f is not allow-listed.
func (f Field) Column() string {
	return fieldColumns[f]
}

// Present reports whether r carries a value for f.
func (r *Reading) Present(f Field) bool {
	switch f {
	case FieldTemperature:
		return r.Temperature != nil
	case FieldHumidity:
		return r.Humidity != nil
	case FieldMotion:
		return r.Motion != nil
	case FieldLight:
		return r.Light != nil
	case FieldVdd:
		return r.Vdd != nil
	}
	return false
}
