package codegen

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stefan-lacatus/ThingTransformer/pkg/entity"
	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// baseTypeNames maps the platform's base-type vocabulary to target type
// aliases. Most names carry over verbatim; the exceptions are listed.
var baseTypeNames = map[string]string{
	"NOTHING":                 "NOTHING",
	"STRING":                  "STRING",
	"TEXT":                    "TEXT",
	"NUMBER":                  "NUMBER",
	"INTEGER":                 "INTEGER",
	"LONG":                    "LONG",
	"BOOLEAN":                 "BOOLEAN",
	"DATETIME":                "DATETIME",
	"TIMESPAN":                "TIMESPAN",
	"JSON":                    "TWJSON",
	"XML":                     "XML",
	"HTML":                    "HTML",
	"IMAGE":                   "IMAGE",
	"BLOB":                    "BLOB",
	"LOCATION":                "LOCATION",
	"QUERY":                   "QUERY",
	"HYPERLINK":               "HYPERLINK",
	"IMAGELINK":               "IMAGELINK",
	"PASSWORD":                "PASSWORD",
	"GUID":                    "GUID",
	"VEC2":                    "VEC2",
	"VEC3":                    "VEC3",
	"VEC4":                    "VEC4",
	"INFOTABLE":               "INFOTABLE",
	"THINGNAME":               "THINGNAME",
	"THINGTEMPLATENAME":       "THINGTEMPLATENAME",
	"THINGSHAPENAME":          "THINGSHAPENAME",
	"DATASHAPENAME":           "DATASHAPENAME",
	"MASHUPNAME":              "MASHUPNAME",
	"USERNAME":                "USERNAME",
	"GROUPNAME":               "GROUPNAME",
	"NOTIFICATIONCONTENTNAME": "NOTIFICATIONCONTENTNAME",
}

// mapType converts a field definition into a target type reference,
// parameterizing container and reference types from the field's aspects.
// A nil field means "no value" (NOTHING).
func (g *generator) mapType(f *entity.Field) tsast.Type {
	if f == nil || f.BaseType == "" {
		return tsast.NewTypeRef("NOTHING")
	}
	name, ok := baseTypeNames[f.BaseType]
	if !ok {
		g.log.Warn().Str("baseType", f.BaseType).Msg("unknown base type passed through verbatim")
		name = f.BaseType
	}
	switch f.BaseType {
	case "INFOTABLE":
		if f.Aspects.DataShape != "" {
			return tsast.NewTypeRef(name, tsast.NewTypeRef(g.sanitize(f.Aspects.DataShape)))
		}
	case "THINGNAME":
		if f.Aspects.ThingTemplate != "" {
			args := []tsast.Type{tsast.NewTypeRef(g.sanitize(f.Aspects.ThingTemplate))}
			if f.Aspects.ThingShape != "" {
				args = append(args, tsast.NewTypeRef(g.sanitize(f.Aspects.ThingShape)))
			}
			return tsast.NewTypeRef(name, args...)
		}
	}
	return tsast.NewTypeRef(name)
}

// literalExpr renders a decoded JSON value as an expression. Object keys are
// emitted in sorted order so repeated compilations yield identical trees.
func literalExpr(v any) (tsast.Expr, error) {
	switch v := v.(type) {
	case nil:
		return tsast.NewNull(), nil
	case string:
		return tsast.NewString(v), nil
	case bool:
		return tsast.NewBool(v), nil
	case float64:
		return tsast.NewNumber(v), nil
	case json.Number:
		return &tsast.BasicLit{Kind: tsast.LitNumber, Value: v.String()}, nil
	case []any:
		arr := &tsast.ArrayLit{}
		for _, el := range v {
			expr, err := literalExpr(el)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, expr)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := &tsast.ObjectLit{}
		for _, k := range keys {
			expr, err := literalExpr(v[k])
			if err != nil {
				return nil, err
			}
			obj.Props = append(obj.Props, &tsast.Property{Key: k, Quoted: !isIdentName(k), Value: expr})
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%w: literal value of unsupported kind %T", entity.ErrUnsupported, v)
}

// sanitize derives a valid identifier from an entity or shape name,
// substituting disallowed characters with the configured replacement.
func (g *generator) sanitize(name string) string {
	return SanitizeName(name, g.opts.NameReplacement)
}

// SanitizeName replaces every character not allowed in an identifier with
// the replacement string. A leading digit is escaped the same way.
func SanitizeName(name, replacement string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
			out = append(out, c)
		case c >= '0' && c <= '9':
			if i == 0 {
				out = append(out, replacement...)
			}
			out = append(out, c)
		default:
			out = append(out, replacement...)
		}
	}
	return string(out)
}

func isIdentName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
