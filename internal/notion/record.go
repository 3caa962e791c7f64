package notion

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Record is a loosely typed wire record as produced by encoding/json:
// objects are map[string]any, arrays []any, numbers float64.
type Record = map[string]any

// fields reads typed values out of a Record while tracking the field path
// for error reporting.
type fields struct {
	rec  Record
	path string
}

func newFields(rec Record, path string) fields {
	return fields{rec: rec, path: path}
}

func (f fields) at(name string) string {
	if f.path == "" {
		return name
	}
	return f.path + "." + name
}

func (f fields) has(name string) bool {
	v, ok := f.rec[name]
	return ok && v != nil
}

func (f fields) str(name string) (string, error) {
	v, ok := f.rec[name]
	if !ok || v == nil {
		return "", missingField(f.at(name))
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(f.at(name), v)
	}
	return s, nil
}

// optStr returns "" for absent or null fields.
func (f fields) optStr(name string) (string, error) {
	if !f.has(name) {
		return "", nil
	}
	return f.str(name)
}

func (f fields) boolean(name string) (bool, error) {
	v, ok := f.rec[name]
	if !ok || v == nil {
		return false, missingField(f.at(name))
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidField(f.at(name), v)
	}
	return b, nil
}

func (f fields) optBool(name string) (bool, error) {
	if !f.has(name) {
		return false, nil
	}
	return f.boolean(name)
}

func (f fields) number(name string) (float64, error) {
	v, ok := f.rec[name]
	if !ok || v == nil {
		return 0, missingField(f.at(name))
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		// json.Number
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, invalidField(f.at(name), v)
		}
		return parsed, nil
	default:
		return 0, invalidField(f.at(name), v)
	}
}

func (f fields) id(name string) (uuid.UUID, error) {
	s, err := f.str(name)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, invalidField(f.at(name), s)
	}
	return id, nil
}

func (f fields) time(name string) (time.Time, error) {
	s, err := f.str(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalidField(f.at(name), s)
	}
	return t, nil
}

func (f fields) optTime(name string) (time.Time, error) {
	if !f.has(name) {
		return time.Time{}, nil
	}
	return f.time(name)
}

func (f fields) obj(name string) (fields, error) {
	v, ok := f.rec[name]
	if !ok || v == nil {
		return fields{}, missingField(f.at(name))
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return fields{}, invalidField(f.at(name), v)
	}
	return newFields(rec, f.at(name)), nil
}

func (f fields) arr(name string) ([]any, error) {
	v, ok := f.rec[name]
	if !ok || v == nil {
		return nil, missingField(f.at(name))
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalidField(f.at(name), v)
	}
	return items, nil
}

// each decodes every element of an array as a record. The first failing
// element aborts the whole array.
func (f fields) each(name string, fn func(item fields) error) error {
	items, err := f.arr(name)
	if err != nil {
		return err
	}
	return eachRecord(items, f.at(name), fn)
}

func eachRecord(items []any, path string, fn func(item fields) error) error {
	for i, item := range items {
		itemPath := path + "[" + strconv.Itoa(i) + "]"
		rec, ok := item.(map[string]any)
		if !ok {
			return invalidField(itemPath, item)
		}
		if err := fn(newFields(rec, itemPath)); err != nil {
			return err
		}
	}
	return nil
}
