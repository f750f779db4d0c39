package codegen

import (
	"fmt"

	"github.com/stefan-lacatus/ThingTransformer/pkg/entity"
	"github.com/stefan-lacatus/ThingTransformer/pkg/script"
	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// EventShapeSuffix is appended to an event name to guess the record-shape
// type of a subscription's eventData parameter. The guess is not verified
// against the declared event's payload shape.
const EventShapeSuffix = "Event"

// compileService converts a service definition into one method declaration.
func (g *generator) compileService(svc *entity.Service) (*tsast.MethodDecl, error) {
	m := &tsast.MethodDecl{
		Name:  svc.Name,
		Doc:   svc.Description,
		Async: svc.Async,
	}
	if !svc.Overridable {
		m.Decorators = append(m.Decorators, tsast.NewDecorator("final"))
	}
	if svc.Overridden {
		m.Decorators = append(m.Decorators, tsast.NewDecorator("override"))
	}

	if len(svc.Params) > 0 {
		param, err := g.destructuredParam(svc)
		if err != nil {
			return nil, err
		}
		m.Params = []*tsast.Param{param}
	}
	m.Return = g.mapType(svc.ResultType)

	if svc.Remote != nil {
		m.Decorators = append(m.Decorators, remoteServiceDecorator(svc))
		m.Body = &tsast.BlockStmt{}
		g.log.Debug().Str("service", svc.Name).Msg("compiled remote service")
		return m, nil
	}

	expectsResult := svc.ResultType != nil &&
		svc.ResultType.BaseType != "" &&
		svc.ResultType.BaseType != "NOTHING"
	stmts, err := script.MergeBody(svc.Code, expectsResult)
	if err != nil {
		return nil, fmt.Errorf("service %q: %w", svc.Name, err)
	}
	m.Body = &tsast.BlockStmt{Stmts: stmts}
	g.log.Debug().Str("service", svc.Name).Int("statements", len(stmts)).Msg("compiled service")
	return m, nil
}

// destructuredParam synthesizes the single structural parameter of a
// service: a destructured record typed by an inline object type listing
// every parameter definition.
func (g *generator) destructuredParam(svc *entity.Service) (*tsast.Param, error) {
	pattern := &tsast.ObjectPattern{}
	lit := &tsast.TypeLit{}
	for _, p := range svc.Params {
		elem := &tsast.PatternElem{Name: p.Name}
		if p.Aspects.HasDefault {
			dflt, err := literalExpr(p.Aspects.DefaultValue)
			if err != nil {
				return nil, fmt.Errorf("service %q parameter %q default: %w", svc.Name, p.Name, err)
			}
			elem.Default = dflt
		}
		pattern.Elems = append(pattern.Elems, elem)
		lit.Fields = append(lit.Fields, &tsast.TypeField{
			Name:     p.Name,
			Optional: !p.Aspects.Required,
			Type:     g.mapType(p),
		})
	}
	return &tsast.Param{Pattern: pattern, Type: lit}, nil
}

// remoteServiceDecorator carries the effective source name and an options
// record. enableQueue is included only when true, timeout only when set;
// an empty record is omitted entirely.
func remoteServiceDecorator(svc *entity.Service) *tsast.Decorator {
	sourceName := svc.Remote.SourceName
	if sourceName == "" {
		sourceName = svc.Name
	}
	args := []tsast.Expr{tsast.NewString(sourceName)}

	opts := &tsast.ObjectLit{}
	if svc.Remote.EnableQueue {
		opts.Props = append(opts.Props, &tsast.Property{Key: "enableQueue", Value: tsast.NewBool(true)})
	}
	if svc.Remote.Timeout != nil {
		opts.Props = append(opts.Props, &tsast.Property{Key: "timeout", Value: tsast.NewNumber(*svc.Remote.Timeout)})
	}
	if len(opts.Props) > 0 {
		args = append(args, opts)
	}
	return tsast.NewDecorator("remoteService", args...)
}

// compileEvent converts an event definition into one field declaration.
// Events carry no storable value, so the field is always marked definitely
// assigned without an initializer.
func (g *generator) compileEvent(ev *entity.Event) *tsast.FieldDecl {
	decl := &tsast.FieldDecl{
		Name:     ev.Name,
		Doc:      ev.Description,
		Definite: true,
	}
	if ev.DataShape != "" {
		decl.Type = tsast.NewTypeRef("EVENT", tsast.NewTypeRef(g.sanitize(ev.DataShape)))
	} else {
		decl.Type = tsast.NewTypeRef("EVENT")
	}
	if ev.Remote != nil {
		sourceName := ev.Remote.SourceName
		if sourceName == "" {
			sourceName = ev.Name
		}
		decl.Decorators = append(decl.Decorators, tsast.NewDecorator("remoteEvent", tsast.NewString(sourceName)))
	}
	return decl
}

// compileSubscription converts a subscription definition into one method
// declaration with the fixed synthetic handler signature.
func (g *generator) compileSubscription(sub *entity.Subscription) (*tsast.MethodDecl, error) {
	if !sub.Enabled {
		return nil, fmt.Errorf("%w: subscription %q is disabled", entity.ErrUnsupported, sub.Name)
	}

	m := &tsast.MethodDecl{
		Name: sub.Name,
		Doc:  sub.Description,
	}

	var args []tsast.Expr
	name := "localSubscription"
	if sub.Source != "" {
		name = "subscription"
		args = append(args, tsast.NewString(sub.Source))
	}
	args = append(args, tsast.NewString(sub.EventName))
	if sub.SourceProperty != "" {
		args = append(args, tsast.NewString(sub.SourceProperty))
	}
	m.Decorators = append(m.Decorators, tsast.NewDecorator(name, args...))

	// The payload shape name is guessed from the event name; the event's
	// declared shape is not resolved here.
	shape := g.sanitize(sub.EventName) + EventShapeSuffix
	g.log.Debug().Str("subscription", sub.Name).Str("shape", shape).Msg("inferred event payload shape")

	m.Params = []*tsast.Param{
		{Name: "alertName", Type: tsast.NewTypeRef("STRING")},
		{Name: "eventData", Type: tsast.NewTypeRef(shape)},
		{Name: "eventName", Type: tsast.NewTypeRef("STRING")},
		{Name: "eventTime", Type: tsast.NewTypeRef("DATETIME")},
		{Name: "source", Type: tsast.NewTypeRef("STRING")},
		{Name: "sourceProperty", Type: tsast.NewTypeRef("STRING")},
	}
	m.Return = tsast.NewTypeRef("NOTHING")

	stmts, err := script.MergeBody(sub.Code, false)
	if err != nil {
		return nil, fmt.Errorf("subscription %q: %w", sub.Name, err)
	}
	m.Body = &tsast.BlockStmt{Stmts: stmts}
	return m, nil
}
