package router

import (
	"fmt"
	"reflect"
)

// Bind copies decoded path parameters into the struct pointed to by target,
// using `param:"name"` field tags:
//
//	var p struct {
//	    ID int `param:"id"`
//	}
//	err := match.Bind(&p)
func (m *Match) Bind(target any) error {
	return bindValues(m.Params, "param", target)
}

// BindQuery copies decoded query values into the struct pointed to by
// target, using `query:"name"` field tags.
func BindQuery(values map[string]any, target any) error {
	return bindValues(values, "query", target)
}

// bindValues sets tagged fields from values. Absent (nil) values leave the
// field untouched. Values are assigned directly or converted between
// compatible kinds; pointer fields are allocated.
func bindValues(values map[string]any, tag string, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("router: bind target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("router: bind target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get(tag)
		if name == "" || name == "-" {
			continue
		}
		value := values[name]
		if value == nil {
			continue
		}

		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if err := setField(fv, reflect.ValueOf(value)); err != nil {
			return fmt.Errorf("router: binding %s %q: %w", tag, name, err)
		}
	}
	return nil
}

func setField(field, value reflect.Value) error {
	if field.Kind() == reflect.Ptr && !value.Type().AssignableTo(field.Type()) {
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch {
	case value.Type().AssignableTo(field.Type()):
		field.Set(value)
	case isNumeric(value.Kind()) && isNumeric(field.Kind()):
		field.Set(value.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", value.Type(), field.Type())
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
