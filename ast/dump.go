package ast

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Dump renders statements as indented JSON for the dump command.
func Dump(stmts []*Stmt) ([]byte, error) {
	b, err := json.MarshalIndent(processAny(reflect.ValueOf(stmts), func(m map[string]any, v reflect.Value) {
		m["_type"] = v.Type().Name()
		delete(m, "at") // positions are noise in dumps
		if x, ok := m["callee"]; ok {
			m["_callee"] = x
			delete(m, "callee")
		}
	}), " ", "    ")
	if err != nil {
		return nil, fmt.Errorf("error json marshalling statements: %w", err)
	}
	return b, nil
}

func processAny(v reflect.Value, opts ...func(map[string]any, reflect.Value)) any {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if e := processAny(v.Index(i), opts...); e != nil {
				out = append(out, e)
			}
		}
		return out
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return processAny(v.Elem(), opts...)
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return processAny(v.Elem(), opts...)
	case reflect.Struct:
		return processStruct(v, opts...)
	default:
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	}
}

func processStruct(v reflect.Value, opts ...func(map[string]any, reflect.Value)) any {
	res := map[string]any{}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		name := strings.ToLower(v.Type().Field(i).Name)

		if !field.CanInterface() {
			continue
		}
		// Skip zero scalars and empty slices so dumps stay readable.
		if field.Kind() == reflect.String && field.Len() == 0 {
			continue
		}
		if field.Kind() == reflect.Slice && field.Len() == 0 {
			continue
		}
		if field.Kind() == reflect.Struct && field.IsZero() {
			continue
		}

		value := processAny(field, opts...)
		if value == nil {
			continue
		}
		res[name] = value
	}
	for _, opt := range opts {
		opt(res, v)
	}
	return res
}
