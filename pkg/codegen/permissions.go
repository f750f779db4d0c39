package codegen

import (
	"fmt"

	"github.com/stefan-lacatus/ThingTransformer/pkg/entity"
	"github.com/stefan-lacatus/ThingTransformer/pkg/tsast"
)

// Wildcard is the resource name that targets the whole entity. It is never
// made explicit in a permission decorator.
const Wildcard = "*"

// permissionDecorators converts one resource's permission record into at
// most two decorators: one for the allow set, one for the deny set.
//
// For each permission kind, in the fixed enumeration order, the principal
// list is partitioned by polarity; a non-empty partition contributes a kind
// tag followed by its principal references. When explicit is set and the
// resource is not the wildcard, the resource-name literal is prepended to
// both argument sequences. A decorator is only emitted when its argument
// count exceeds one, i.e. at least one kind tag and one principal survived.
func permissionDecorators(resource string, set entity.PermissionSet, explicit, instance bool) ([]*tsast.Decorator, error) {
	var allowArgs, denyArgs []tsast.Expr
	if explicit && resource != Wildcard {
		allowArgs = append(allowArgs, tsast.NewString(resource))
		denyArgs = append(denyArgs, tsast.NewString(resource))
	}

	for _, kind := range entity.PermissionKinds {
		var allowed, denied []tsast.Expr
		for _, e := range set[kind] {
			ref, err := runtimePrincipalRef(e.Principal)
			if err != nil {
				return nil, fmt.Errorf("resource %q: %w", resource, err)
			}
			if e.Allowed {
				allowed = append(allowed, ref)
			} else {
				denied = append(denied, ref)
			}
		}
		if len(allowed) > 0 {
			allowArgs = append(allowArgs, kindTag(kind))
			allowArgs = append(allowArgs, allowed...)
		}
		if len(denied) > 0 {
			denyArgs = append(denyArgs, kindTag(kind))
			denyArgs = append(denyArgs, denied...)
		}
	}

	allowName, denyName := "allow", "deny"
	if instance {
		allowName, denyName = "allowInstance", "denyInstance"
	}

	var out []*tsast.Decorator
	if len(allowArgs) > 1 {
		out = append(out, tsast.NewDecorator(allowName, allowArgs...))
	}
	if len(denyArgs) > 1 {
		out = append(out, tsast.NewDecorator(denyName, denyArgs...))
	}
	return out, nil
}

func kindTag(kind entity.PermissionKind) tsast.Expr {
	return &tsast.MemberExpr{Object: &tsast.Ident{Name: "Permission"}, Name: string(kind)}
}

// runtimePrincipalRef builds the reference expression for a runtime
// permission principal. An absent type defaults to a user; an unrecognized
// one is a fatal input error.
func runtimePrincipalRef(p entity.Principal) (tsast.Expr, error) {
	switch p.Type {
	case "User", "":
		return tsast.NewCall("Users", tsast.NewString(p.Name)), nil
	case "Group":
		return tsast.NewCall("Groups", tsast.NewString(p.Name)), nil
	}
	return nil, fmt.Errorf("%w: principal %q has unrecognized type %q", entity.ErrUnsupported, p.Name, p.Type)
}

// visibilityDecorator converts the visibility principal list into a single
// decorator. Visibility principals are organizations or organizational
// units; anything else is a fatal input error.
func visibilityDecorator(principals []entity.Principal, instance bool) (*tsast.Decorator, error) {
	if len(principals) == 0 {
		return nil, nil
	}
	name := "visible"
	if instance {
		name = "visibleInstance"
	}
	var args []tsast.Expr
	for _, p := range principals {
		switch p.Type {
		case "Organization":
			args = append(args, tsast.NewCall("Organizations", tsast.NewString(p.Name)))
		case "OrganizationalUnit":
			args = append(args, tsast.NewCall("OrganizationalUnits", tsast.NewString(p.Name)))
		default:
			return nil, fmt.Errorf("%w: visibility principal %q has unrecognized type %q", entity.ErrUnsupported, p.Name, p.Type)
		}
	}
	return tsast.NewDecorator(name, args...), nil
}
