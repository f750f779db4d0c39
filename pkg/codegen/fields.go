package codegen

import (
	"fmt"

	"github.com/stefan-lacatus/ThingTransformer/pkg/entity"
	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// remoteBindingKeys is the allow-list of remote property binding options
// copied verbatim onto the remote decorator, in emission order. Anything
// else in the binding is dropped.
var remoteBindingKeys = []string{
	"pushType",
	"pushThreshold",
	"startType",
	"foldType",
	"cacheTime",
	"timeout",
}

// compileFieldDecl converts a property or record-shape field definition into
// one annotated field declaration. The aspect mappings are applied
// independently, in a fixed order of consideration; property-only aspects
// are skipped for record-shape fields.
func (g *generator) compileFieldDecl(f *entity.Field, property bool) (*tsast.FieldDecl, error) {
	decl := &tsast.FieldDecl{
		Name: f.Name,
		Doc:  f.Description,
		Type: g.mapType(f),
	}

	if f.Aspects.Min != nil {
		decl.Decorators = append(decl.Decorators, tsast.NewDecorator("minimumValue", tsast.NewNumber(*f.Aspects.Min)))
	}
	if f.Aspects.Max != nil {
		decl.Decorators = append(decl.Decorators, tsast.NewDecorator("maximumValue", tsast.NewNumber(*f.Aspects.Max)))
	}
	if f.Aspects.Units != "" {
		decl.Decorators = append(decl.Decorators, tsast.NewDecorator("unit", tsast.NewString(f.Aspects.Units)))
	}

	if property {
		if f.Aspects.Persistent {
			decl.Decorators = append(decl.Decorators, tsast.NewDecorator("persistent"))
		}
		if f.Aspects.Logged {
			decl.Decorators = append(decl.Decorators, tsast.NewDecorator("logged"))
		}
		if f.Aspects.DataChangeType != "" {
			args := []tsast.Expr{tsast.NewString(f.Aspects.DataChangeType)}
			if f.Aspects.DataChangeThreshold != nil {
				args = append(args, tsast.NewNumber(*f.Aspects.DataChangeThreshold))
			}
			decl.Decorators = append(decl.Decorators, tsast.NewDecorator("dataChangeType", args...))
		}
		decl.Readonly = f.Aspects.ReadOnly
		if f.Remote != nil {
			dec, err := g.remoteDecorator(f)
			if err != nil {
				return nil, err
			}
			decl.Decorators = append(decl.Decorators, dec)
		}
		if f.Local != nil {
			decl.Decorators = append(decl.Decorators, tsast.NewDecorator("local",
				tsast.NewString(f.Local.SourceThing), tsast.NewString(f.Local.SourceProperty)))
		}
	} else if f.Aspects.PrimaryKey {
		decl.Decorators = append(decl.Decorators, tsast.NewDecorator("primaryKey"))
	}

	if f.Aspects.HasDefault {
		init, err := literalExpr(f.Aspects.DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("field %q default value: %w", f.Name, err)
		}
		decl.Init = init
	} else {
		decl.Definite = true
	}
	return decl, nil
}

// remoteDecorator builds the remote property binding decorator: the source
// name plus an options record holding the recognized binding keys.
func (g *generator) remoteDecorator(f *entity.Field) (*tsast.Decorator, error) {
	sourceName := f.Remote.SourceName
	if sourceName == "" {
		sourceName = f.Name
	}
	args := []tsast.Expr{tsast.NewString(sourceName)}

	opts := &tsast.ObjectLit{}
	for _, key := range remoteBindingKeys {
		v, present := f.Remote.Options[key]
		if !present {
			continue
		}
		expr, err := literalExpr(v)
		if err != nil {
			return nil, fmt.Errorf("property %q remote binding %q: %w", f.Name, key, err)
		}
		opts.Props = append(opts.Props, &tsast.Property{Key: key, Value: expr})
	}
	for key := range f.Remote.Options {
		if key == "sourceName" || containsKey(remoteBindingKeys, key) {
			continue
		}
		g.log.Warn().Str("property", f.Name).Str("key", key).Msg("dropping unrecognized remote binding key")
	}
	if len(opts.Props) > 0 {
		args = append(args, opts)
	}
	return tsast.NewDecorator("remote", args...), nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
