package codegen

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/stefan-lacatus/ThingTransformer/pkg/entity"
	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// Compile normalizes one raw entity document and assembles its class
// declaration. Every error aborts the whole entity; there is no partial
// output. Callers compiling a batch isolate each document themselves.
func Compile(data []byte, opts *Options) (*tsast.ClassDecl, error) {
	opts = opts.withDefaults()
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding entity document: %w", err)
	}
	ent, err := entity.Normalize(doc, opts.Log)
	if err != nil {
		return nil, err
	}
	return CompileEntity(ent, opts)
}

// CompileEntity assembles the class declaration for an already-normalized
// entity model.
func CompileEntity(ent *entity.Entity, opts *Options) (*tsast.ClassDecl, error) {
	opts = opts.withDefaults()
	g := &generator{
		ent:  ent,
		opts: opts,
		log:  opts.Log.With().Str("entity", ent.Name).Logger(),
	}
	return g.assemble()
}

type generator struct {
	ent   *entity.Entity
	opts  *Options
	log   zerolog.Logger
	local map[string]bool
}

// assemble runs the per-kind decision tree once: inheritance target, marker
// decorators, permission placement, then the member lists in fixed order.
func (g *generator) assemble() (*tsast.ClassDecl, error) {
	ent := g.ent
	g.local = ent.LocalNames()

	cls := &tsast.ClassDecl{
		Name: g.sanitize(ent.Name),
		Doc:  ent.Description,
	}

	switch ent.Kind {
	case entity.KindThing:
		cls.Decorators = append(cls.Decorators, tsast.NewDecorator("ThingDefinition"))
		d := ent.Thing
		if d.Published {
			cls.Decorators = append(cls.Decorators, tsast.NewDecorator("published"))
		}
		if d.Identifier != nil {
			cls.Decorators = append(cls.Decorators, tsast.NewDecorator("identifier", tsast.NewNumber(float64(*d.Identifier))))
		}
		if d.ValueStream != "" {
			cls.Decorators = append(cls.Decorators, tsast.NewDecorator("valueStream", tsast.NewString(d.ValueStream)))
		}
		cls.Extends = g.heritage(d.BaseTemplate, d.Shapes)
	case entity.KindThingTemplate:
		cls.Decorators = append(cls.Decorators, tsast.NewDecorator("TemplateDefinition"))
		d := ent.Template
		if d.ValueStream != "" {
			cls.Decorators = append(cls.Decorators, tsast.NewDecorator("valueStream", tsast.NewString(d.ValueStream)))
		}
		cls.Extends = g.heritage(d.BaseTemplate, d.Shapes)
	case entity.KindThingShape:
		cls.Extends = &tsast.Ident{Name: "ThingShapeBase"}
	case entity.KindDataShape:
		cls.Extends = &tsast.Ident{Name: "DataShapeBase"}
	}

	if dec, err := visibilityDecorator(ent.Visibility, false); err != nil {
		return nil, err
	} else if dec != nil {
		cls.Decorators = append(cls.Decorators, dec)
	}
	if ent.Template != nil {
		if dec, err := visibilityDecorator(ent.Template.InstanceVisibility, true); err != nil {
			return nil, err
		} else if dec != nil {
			cls.Decorators = append(cls.Decorators, dec)
		}
	}

	configDecs, err := g.configDecorators()
	if err != nil {
		return nil, err
	}
	cls.Decorators = append(cls.Decorators, configDecs...)

	classPerms, memberPerms, err := g.placePermissions(ent.Permissions, false)
	if err != nil {
		return nil, err
	}
	instancePerms := g.instancePermissions()
	if instancePerms != nil {
		classInst, memberInst, err := g.placePermissions(instancePerms, true)
		if err != nil {
			return nil, err
		}
		classPerms = append(classPerms, classInst...)
		for name, decs := range memberInst {
			memberPerms[name] = append(memberPerms[name], decs...)
		}
	}
	cls.Decorators = append(cls.Decorators, classPerms...)

	if ent.Kind == entity.KindDataShape {
		for _, f := range ent.Fields {
			decl, err := g.compileFieldDecl(f, false)
			if err != nil {
				return nil, err
			}
			cls.Members = append(cls.Members, decl)
		}
	} else {
		for _, p := range ent.Properties {
			decl, err := g.compileFieldDecl(p, true)
			if err != nil {
				return nil, err
			}
			decl.Decorators = append(decl.Decorators, memberPerms[p.Name]...)
			cls.Members = append(cls.Members, decl)
		}
		for _, svc := range ent.Services {
			m, err := g.compileService(svc)
			if err != nil {
				return nil, err
			}
			m.Decorators = append(m.Decorators, memberPerms[svc.Name]...)
			cls.Members = append(cls.Members, m)
		}
		for _, ev := range ent.Events {
			cls.Members = append(cls.Members, g.compileEvent(ev))
		}
		for _, sub := range ent.Subscriptions {
			m, err := g.compileSubscription(sub)
			if err != nil {
				return nil, err
			}
			cls.Members = append(cls.Members, m)
		}
	}

	tsast.Link(cls)
	g.log.Debug().Str("class", cls.Name).Int("members", len(cls.Members)).Msg("assembled class")
	return cls, nil
}

func (g *generator) instancePermissions() map[string]entity.PermissionSet {
	switch {
	case g.ent.Template != nil:
		return g.ent.Template.InstancePermissions
	case g.ent.Shape != nil:
		return g.ent.Shape.InstancePermissions
	}
	return nil
}

// heritage picks the inheritance target: the base reference alone, or the
// base-with-shapes composite when shape interfaces are implemented.
func (g *generator) heritage(base string, shapes []string) tsast.Expr {
	if base == "" {
		base = "GenericThing"
	}
	baseRef := &tsast.Ident{Name: g.sanitize(base)}
	if len(shapes) == 0 {
		return baseRef
	}
	args := []tsast.Expr{baseRef}
	for _, s := range shapes {
		args = append(args, &tsast.Ident{Name: g.sanitize(s)})
	}
	return tsast.NewCall("ThingTemplateWithShapes", args...)
}

// placePermissions splits a permission namespace between class scope and
// member scope. Resources naming a locally-defined member get member-scope
// decorators; every other resource gets a class-scope decorator carrying the
// resource name explicitly (unless it is the wildcard).
func (g *generator) placePermissions(perms map[string]entity.PermissionSet, instance bool) ([]*tsast.Decorator, map[string][]*tsast.Decorator, error) {
	member := map[string][]*tsast.Decorator{}
	var class []*tsast.Decorator

	resources := make([]string, 0, len(perms))
	for r := range perms {
		resources = append(resources, r)
	}
	sort.Strings(resources)

	for _, resource := range resources {
		if g.local[resource] {
			decs, err := permissionDecorators(resource, perms[resource], false, instance)
			if err != nil {
				return nil, nil, err
			}
			member[resource] = append(member[resource], decs...)
			continue
		}
		decs, err := permissionDecorators(resource, perms[resource], true, instance)
		if err != nil {
			return nil, nil, err
		}
		class = append(class, decs...)
	}
	return class, member, nil
}

// configDecorators renders the configuration-table schemas and values as
// structured-literal decorators.
func (g *generator) configDecorators() ([]*tsast.Decorator, error) {
	var out []*tsast.Decorator

	if len(g.ent.ConfigTableDefs) > 0 {
		obj := &tsast.ObjectLit{}
		for _, td := range g.ent.ConfigTableDefs {
			fields := &tsast.ObjectLit{}
			for _, f := range td.Fields {
				fields.Props = append(fields.Props, &tsast.Property{
					Key:    f.Name,
					Quoted: !isIdentName(f.Name),
					Value:  &tsast.ObjectLit{Props: []*tsast.Property{{Key: "baseType", Value: tsast.NewString(f.BaseType)}}},
				})
			}
			entry := &tsast.ObjectLit{Props: []*tsast.Property{
				{Key: "isMultiRow", Value: tsast.NewBool(td.MultiRow)},
				{Key: "fieldDefinitions", Value: fields},
			}}
			obj.Props = append(obj.Props, &tsast.Property{Key: td.Name, Quoted: !isIdentName(td.Name), Value: entry})
		}
		out = append(out, tsast.NewDecorator("configurationTables", obj))
	}

	if len(g.ent.ConfigTableValues) > 0 {
		obj := &tsast.ObjectLit{}
		names := make([]string, 0, len(g.ent.ConfigTableValues))
		for name := range g.ent.ConfigTableValues {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			expr, err := g.configValueExpr(name, g.ent.ConfigTableValues[name])
			if err != nil {
				return nil, err
			}
			obj.Props = append(obj.Props, &tsast.Property{Key: name, Quoted: !isIdentName(name), Value: expr})
		}
		out = append(out, tsast.NewDecorator("configuration", obj))
	}
	return out, nil
}

// configValueExpr renders one table's flattened value. Columns whose schema
// declares a JSON base type may arrive as serialized strings and must parse
// as structured literals.
func (g *generator) configValueExpr(table string, value any) (tsast.Expr, error) {
	jsonCols := g.jsonColumns(table)

	renderRow := func(row any) (tsast.Expr, error) {
		m, ok := row.(map[string]any)
		if !ok {
			return literalExpr(row)
		}
		cooked := make(map[string]any, len(m))
		for k, v := range m {
			if s, isStr := v.(string); isStr && jsonCols[k] {
				var parsed any
				if err := json.Unmarshal([]byte(s), &parsed); err != nil {
					return nil, fmt.Errorf("%w: configuration table %q column %q is not a structured literal: %v",
						entity.ErrUnsupported, table, k, err)
				}
				cooked[k] = parsed
				continue
			}
			cooked[k] = v
		}
		return literalExpr(cooked)
	}

	if rows, ok := value.([]any); ok {
		arr := &tsast.ArrayLit{}
		for _, row := range rows {
			expr, err := renderRow(row)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, expr)
		}
		return arr, nil
	}
	return renderRow(value)
}

func (g *generator) jsonColumns(table string) map[string]bool {
	for _, td := range g.ent.ConfigTableDefs {
		if td.Name != table {
			continue
		}
		cols := map[string]bool{}
		for _, f := range td.Fields {
			if f.BaseType == "JSON" || f.BaseType == "TWJSON" {
				cols[f.Name] = true
			}
		}
		return cols
	}
	return nil
}
