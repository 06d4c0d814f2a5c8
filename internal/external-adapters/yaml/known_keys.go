package yaml

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// checkKeys walks a mapping against the yaml tags of t and rejects unknown and
// repeated keys at every depth. Value shapes are left to the decoder.
func checkKeys(node *yaml.Node, t reflect.Type, path string) error {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch node.Kind {
	case yaml.MappingNode:
		return checkMapping(node, t, path)
	case yaml.SequenceNode:
		if t.Kind() != reflect.Slice {
			return nil
		}
		for i, item := range node.Content {
			if err := checkKeys(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkMapping(node *yaml.Node, t reflect.Type, path string) error {
	var fields map[string]reflect.Type
	switch t.Kind() {
	case reflect.Struct:
		fields = yamlFields(t)
	case reflect.Map:
	default:
		return nil
	}

	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, value := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		keyPath := joinPath(path, key)

		if first, dup := seen[key]; dup {
			return &entities.SchemaError{Path: keyPath, Reason: fmt.Sprintf("duplicate key (line %d, first at line %d)", keyNode.Line, first)}
		}
		seen[key] = keyNode.Line

		var elem reflect.Type
		if fields == nil {
			elem = t.Elem()
		} else {
			ft, ok := fields[key]
			if !ok {
				return &entities.SchemaError{Path: keyPath, Reason: fmt.Sprintf("unknown key (line %d)", keyNode.Line)}
			}
			elem = ft
		}

		if err := checkKeys(value, elem, keyPath); err != nil {
			return err
		}
	}
	return nil
}

// yamlFields maps the yaml key of every exported field to its type
func yamlFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		fields[name] = f.Type
	}
	return fields
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
