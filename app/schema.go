// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/flowkit/flowui/util"
)

// createStructDefinition creates a JSON schema definition for a struct
// type — ported from engine/schema.go, which did the same thing for
// atoms registered on a RootElem instead of the app package's name
// registry.
func createStructDefinition(t reflect.Type) map[string]any {
	structDef := make(map[string]any)
	structDef["type"] = "object"
	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldInfo, shouldInclude := util.ParseJSONTag(field)
		if !shouldInclude {
			continue
		}

		var fieldSchema map[string]any
		if fieldInfo.AsString {
			fieldSchema = map[string]any{"type": "string"}
		} else {
			fieldSchema = generateShallowJSONSchema(field.Type, nil)
		}

		if desc := field.Tag.Get("desc"); desc != "" {
			fieldSchema["description"] = desc
		}

		if enumTag := field.Tag.Get("enum"); enumTag != "" && fieldSchema["type"] == "string" {
			enumValues := make([]any, 0)
			for _, val := range strings.Split(enumTag, ",") {
				trimmed := strings.TrimSpace(val)
				if trimmed != "" {
					enumValues = append(enumValues, trimmed)
				}
			}
			if len(enumValues) > 0 {
				fieldSchema["enum"] = enumValues
			}
		}

		if units := field.Tag.Get("units"); units != "" {
			fieldSchema["units"] = units
		}

		if fieldSchema["type"] == "number" || fieldSchema["type"] == "integer" {
			if minTag := field.Tag.Get("min"); minTag != "" {
				if minVal, err := strconv.ParseFloat(minTag, 64); err == nil {
					fieldSchema["minimum"] = minVal
				}
			}
			if maxTag := field.Tag.Get("max"); maxTag != "" {
				if maxVal, err := strconv.ParseFloat(maxTag, 64); err == nil {
					fieldSchema["maximum"] = maxVal
				}
			}
		}

		if fieldSchema["type"] == "string" {
			if pattern := field.Tag.Get("pattern"); pattern != "" {
				fieldSchema["pattern"] = pattern
			}
		}

		properties[fieldInfo.FieldName] = fieldSchema

		if field.Type.Kind() != reflect.Ptr && !fieldInfo.OmitEmpty {
			required = append(required, fieldInfo.FieldName)
		}
	}

	if len(properties) > 0 {
		structDef["properties"] = properties
	}
	if len(required) > 0 {
		structDef["required"] = required
	}

	return structDef
}

// collectStructDefs walks the type tree and adds struct definitions to
// defs, so nested struct types appear once each under $defs instead of
// inlined at every use site.
func collectStructDefs(t reflect.Type, defs map[reflect.Type]any) {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Elem() != nil {
			collectStructDefs(t.Elem(), defs)
		}
	case reflect.Map:
		if t.Elem() != nil {
			collectStructDefs(t.Elem(), defs)
		}
	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return
		}
		if _, exists := defs[t]; exists {
			return
		}
		structDef := createStructDefinition(t)
		defs[t] = structDef
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.IsExported() {
				_, shouldInclude := util.ParseJSONTag(field)
				if shouldInclude {
					collectStructDefs(field.Type, defs)
				}
			}
		}
	case reflect.Ptr:
		collectStructDefs(t.Elem(), defs)
	}
}

// annotateSchemaWithAtomMeta applies AtomMeta annotations to a JSON
// schema fragment in place.
func annotateSchemaWithAtomMeta(schema map[string]any, meta *AtomMeta) {
	if meta == nil {
		return
	}
	if meta.Description != "" {
		schema["description"] = meta.Description
	}
	if meta.Units != "" {
		schema["units"] = meta.Units
	}
	if schema["type"] == "number" || schema["type"] == "integer" {
		if meta.Min != nil {
			schema["minimum"] = *meta.Min
		}
		if meta.Max != nil {
			schema["maximum"] = *meta.Max
		}
	}
	if len(meta.Enum) > 0 && schema["type"] == "string" {
		enumValues := make([]any, len(meta.Enum))
		for i, v := range meta.Enum {
			enumValues[i] = v
		}
		schema["enum"] = enumValues
	}
	if schema["type"] == "string" && meta.Pattern != "" {
		schema["pattern"] = meta.Pattern
	}
}

// generateShallowJSONSchema creates a schema that references definitions
// instead of recursing into struct fields again.
func generateShallowJSONSchema(t reflect.Type, meta *AtomMeta) map[string]any {
	schema := make(map[string]any)
	defer func() {
		annotateSchemaWithAtomMeta(schema, meta)
	}()

	if t == reflect.TypeOf(time.Time{}) {
		schema["type"] = "string"
		schema["format"] = "date-time"
		return schema
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		schema["type"] = "string"
		schema["contentEncoding"] = "base64"
		schema["contentMediaType"] = "application/octet-stream"
		return schema
	}

	switch t.Kind() {
	case reflect.String:
		schema["type"] = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema["type"] = "integer"
	case reflect.Float32, reflect.Float64:
		schema["type"] = "number"
	case reflect.Bool:
		schema["type"] = "boolean"
	case reflect.Slice, reflect.Array:
		schema["type"] = "array"
		if t.Elem() != nil {
			schema["items"] = generateShallowJSONSchema(t.Elem(), nil)
		}
	case reflect.Map:
		schema["type"] = "object"
		if t.Elem() != nil {
			schema["additionalProperties"] = generateShallowJSONSchema(t.Elem(), nil)
		}
	case reflect.Struct:
		schema["$ref"] = fmt.Sprintf("#/$defs/%s", t.Name())
	case reflect.Ptr:
		return generateShallowJSONSchema(t.Elem(), meta)
	case reflect.Interface:
		schema["type"] = "object"
	default:
		schema["type"] = "object"
	}

	return schema
}

// generateSchemaFromAtoms builds a JSON schema object describing atoms,
// a name->atomEntry map already stripped of its registry prefix.
func generateSchemaFromAtoms(atomMap map[string]*atomEntry, description string) map[string]any {
	defs := make(map[reflect.Type]any)
	for _, e := range atomMap {
		if e.typ != nil {
			collectStructDefs(e.typ, defs)
		}
	}

	properties := make(map[string]any)
	for name, e := range atomMap {
		if e.typ != nil {
			properties[name] = generateShallowJSONSchema(e.typ, e.meta)
		}
	}

	schema := map[string]any{
		"type":        "object",
		"description": description,
		"properties":  properties,
	}
	if len(defs) > 0 {
		definitions := make(map[string]any)
		for t, def := range defs {
			definitions[t.Name()] = def
		}
		schema["$defs"] = definitions
	}
	return schema
}

// GenerateConfigSchema generates a JSON schema describing every
// "$config."-namespaced atom registered so far, for a host config UI to
// render a form from.
func GenerateConfigSchema() map[string]any {
	return generateSchemaFromAtoms(getAtomsByPrefix("$config."), "Application configuration settings")
}

// GenerateDataSchema generates a JSON schema describing every
// "$data."-namespaced atom registered so far.
func GenerateDataSchema() map[string]any {
	return generateSchemaFromAtoms(getAtomsByPrefix("$data."), "Application data schema")
}
