package entity

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Normalize converts a decoded metadata document into the canonical entity
// model. The input is whatever a metadata endpoint emits: loosely typed,
// with member definitions, bindings, implementations and permissions spread
// across separate sub-objects that must be stitched back together.
func Normalize(doc map[string]any, log zerolog.Logger) (*Entity, error) {
	name := getString(doc, "name")
	if name == "" {
		return nil, fmt.Errorf("%w: entity document has no name", ErrUnsupported)
	}
	n := &normalizer{doc: doc, log: log.With().Str("entity", name).Logger()}
	return n.run(name)
}

type normalizer struct {
	doc map[string]any
	log zerolog.Logger
}

func (n *normalizer) run(name string) (*Entity, error) {
	e := &Entity{
		Name:        name,
		Description: getString(n.doc, "description"),
		Tags:        parseTags(getList(n.doc, "tags")),
		Kind:        n.kindOf(),
		Aspects:     getMap(n.doc, "aspects"),
	}

	defs := n.doc
	if e.Kind == KindThing || e.Kind == KindThingTemplate {
		// For things and templates the member definitions live under the
		// nested shape sub-object.
		if shape := getMap(n.doc, "thingShape"); shape != nil {
			defs = shape
		}
	}

	if e.Kind == KindDataShape {
		e.Fields = n.parseFields(getMap(defs, "fieldDefinitions"))
	} else {
		e.Properties = n.parseFields(getMap(defs, "propertyDefinitions"))
		n.attachPropertyBindings(e.Properties)

		services, err := n.parseServices(getMap(defs, "serviceDefinitions"))
		if err != nil {
			return nil, err
		}
		e.Services = services

		e.Events = n.parseEvents(getMap(defs, "eventDefinitions"))
		subs, err := n.parseSubscriptions(getMap(defs, "subscriptions"))
		if err != nil {
			return nil, err
		}
		e.Subscriptions = subs
	}

	if err := n.parseConfigTables(e); err != nil {
		return nil, err
	}

	e.Visibility = parsePrincipals(getList(n.doc, "visibilityPermissions"))
	e.Permissions = parsePermissions(n.doc, "runTimePermissions")

	switch e.Kind {
	case KindThing:
		e.Thing = n.parseThingDetail()
	case KindThingTemplate:
		e.Template = &TemplateDetail{
			BaseTemplate:        getString(n.doc, "baseThingTemplate"),
			Shapes:              stringList(getList(n.doc, "implementedShapes")),
			ValueStream:         getString(n.doc, "valueStream"),
			InstanceVisibility:  parsePrincipals(getList(n.doc, "instanceVisibilityPermissions")),
			InstancePermissions: parsePermissions(n.doc, "instanceRunTimePermissions"),
		}
	case KindThingShape:
		e.Shape = &ShapeDetail{
			InstancePermissions: parsePermissions(n.doc, "instanceRunTimePermissions"),
		}
	}

	n.log.Debug().
		Str("kind", e.Kind.String()).
		Int("properties", len(e.Properties)).
		Int("services", len(e.Services)).
		Int("events", len(e.Events)).
		Int("subscriptions", len(e.Subscriptions)).
		Msg("normalized entity")
	return e, nil
}

func (n *normalizer) kindOf() Kind {
	typ := getString(n.doc, "type")
	if typ == "" {
		typ = getString(n.doc, "entityType")
	}
	switch typ {
	case "Thing":
		return KindThing
	case "ThingTemplate":
		return KindThingTemplate
	case "ThingShape":
		return KindThingShape
	case "DataShape":
		return KindDataShape
	}
	if typ != "" {
		n.log.Warn().Str("type", typ).Msg("unrecognized entity kind, compiling as plain class")
	}
	return KindOther
}

func (n *normalizer) parseThingDetail() *ThingDetail {
	d := &ThingDetail{
		Enabled:      getBool(n.doc, "enabled", true),
		Published:    getBool(n.doc, "published", false),
		ValueStream:  getString(n.doc, "valueStream"),
		BaseTemplate: getString(n.doc, "thingTemplate"),
		Shapes:       stringList(getList(n.doc, "implementedShapes")),
	}
	if v, ok := getNumber(n.doc, "identifier"); ok {
		id := int64(v)
		d.Identifier = &id
	}
	return d
}

// parseFields reads a name-keyed definition map in sorted-key order, then
// restores the declared ordering via ordinals where present.
func (n *normalizer) parseFields(defs map[string]any) []*Field {
	var out []*Field
	for _, name := range sortedKeys(defs) {
		def := asMap(defs[name])
		if def == nil {
			continue
		}
		out = append(out, parseFieldDef(name, def))
	}
	sortByOrdinal(out)
	return out
}

func parseFieldDef(name string, def map[string]any) *Field {
	f := &Field{
		Name:        name,
		BaseType:    getString(def, "baseType"),
		Description: getString(def, "description"),
	}
	if v, ok := getNumber(def, "ordinal"); ok {
		f.Ordinal = int(v)
	}
	aspects := getMap(def, "aspects")
	if v, ok := getNumber(aspects, "ordinal"); ok {
		f.Ordinal = int(v)
	}
	f.Aspects = parseAspects(aspects)
	return f
}

func parseAspects(m map[string]any) Aspects {
	a := Aspects{
		Units:          getString(m, "units"),
		Required:       getBool(m, "isRequired", false),
		ReadOnly:       getBool(m, "isReadOnly", false),
		Persistent:     getBool(m, "isPersistent", false),
		Logged:         getBool(m, "isLogged", false),
		PrimaryKey:     getBool(m, "isPrimaryKey", false),
		DataChangeType: getString(m, "dataChangeType"),
		DataShape:      getString(m, "dataShape"),
		ThingTemplate:  getString(m, "thingTemplate"),
		ThingShape:     getString(m, "thingShape"),
	}
	if v, present := m["defaultValue"]; present {
		a.DefaultValue = v
		a.HasDefault = true
	}
	if v, ok := getNumber(m, "minimumValue"); ok {
		a.Min = &v
	}
	if v, ok := getNumber(m, "maximumValue"); ok {
		a.Max = &v
	}
	if v, ok := getNumber(m, "dataChangeThreshold"); ok {
		a.DataChangeThreshold = &v
	}
	return a
}

// attachPropertyBindings merges the top-level binding maps onto the
// properties they name.
func (n *normalizer) attachPropertyBindings(props []*Field) {
	remote := getMap(n.doc, "remotePropertyBindings")
	local := getMap(n.doc, "localPropertyBindings")
	for _, p := range props {
		if b := asMap(remote[p.Name]); b != nil {
			p.Remote = parseRemoteBinding(b)
		}
		if b := asMap(local[p.Name]); b != nil {
			p.Local = &LocalBinding{
				SourceThing:    getString(b, "sourceThingName"),
				SourceProperty: getString(b, "sourceName"),
			}
		}
	}
}

func parseRemoteBinding(b map[string]any) *RemoteBinding {
	rb := &RemoteBinding{
		SourceName:  getString(b, "sourceName"),
		EnableQueue: getBool(b, "enableQueue", false),
		Options:     b,
	}
	if v, ok := getNumber(b, "timeout"); ok {
		rb.Timeout = &v
	}
	return rb
}

func (n *normalizer) parseServices(defs map[string]any) ([]*Service, error) {
	impls := getMap(n.doc, "serviceImplementations")
	remotes := getMap(n.doc, "remoteServiceBindings")

	var out []*Service
	for _, name := range sortedKeys(defs) {
		def := asMap(defs[name])
		if def == nil {
			continue
		}
		svc := &Service{
			Name:        name,
			Description: getString(def, "description"),
			Async:       getBool(def, "isAsync", getBool(getMap(def, "aspects"), "isAsync", false)),
			Overridable: getBool(def, "isAllowOverride", getBool(getMap(def, "aspects"), "isAllowOverride", false)),
			Overridden:  getBool(def, "isOverriden", getBool(getMap(def, "aspects"), "isOverriden", false)),
		}
		if rt := getMap(def, "resultType"); rt != nil {
			svc.ResultType = parseFieldDef(getString(rt, "name"), rt)
		}
		params := n.parseFields(getMap(def, "parameterDefinitions"))
		svc.Params = params

		if b := asMap(remotes[name]); b != nil {
			svc.Remote = parseRemoteBinding(b)
			out = append(out, svc)
			continue
		}

		impl := asMap(impls[name])
		if impl == nil {
			return nil, fmt.Errorf("%w: service %q has no implementation and no remote binding", ErrUnsupported, name)
		}
		handler := getString(impl, "handlerName")
		if handler != "Script" {
			return nil, fmt.Errorf("%w: service %q: unsupported handler %q", ErrUnsupported, name, handler)
		}
		svc.Code = implementationCode(impl)
		out = append(out, svc)
	}
	return out, nil
}

// implementationCode digs the source fragment out of the implementation's
// configuration-table cell.
func implementationCode(impl map[string]any) string {
	tables := getMap(impl, "configurationTables")
	script := asMap(tables["Script"])
	if script == nil {
		return ""
	}
	rows := getList(script, "rows")
	if len(rows) == 0 {
		return ""
	}
	row := asMap(rows[0])
	if row == nil {
		return ""
	}
	return getString(row, "code")
}

func (n *normalizer) parseEvents(defs map[string]any) []*Event {
	remotes := getMap(n.doc, "remoteEventBindings")
	var out []*Event
	for _, name := range sortedKeys(defs) {
		def := asMap(defs[name])
		if def == nil {
			continue
		}
		ev := &Event{
			Name:        name,
			Description: getString(def, "description"),
			DataShape:   getString(def, "dataShape"),
		}
		if ev.DataShape == "" {
			ev.DataShape = getString(getMap(def, "aspects"), "dataShape")
		}
		if b := asMap(remotes[name]); b != nil {
			ev.Remote = parseRemoteBinding(b)
		}
		out = append(out, ev)
	}
	return out
}

func (n *normalizer) parseSubscriptions(defs map[string]any) ([]*Subscription, error) {
	var out []*Subscription
	for _, name := range sortedKeys(defs) {
		def := asMap(defs[name])
		if def == nil {
			continue
		}
		sub := &Subscription{
			Name:           name,
			Description:    getString(def, "description"),
			EventName:      getString(def, "eventName"),
			Source:         getString(def, "source"),
			SourceProperty: getString(def, "sourceProperty"),
			Enabled:        getBool(def, "enabled", true),
		}
		if !sub.Enabled {
			return nil, fmt.Errorf("%w: subscription %q is disabled", ErrUnsupported, name)
		}
		if impl := getMap(def, "serviceImplementation"); impl != nil {
			sub.Code = implementationCode(impl)
		} else {
			sub.Code = getString(def, "code")
		}
		out = append(out, sub)
	}
	return out, nil
}

// parseConfigTables reads both the table schemas and the table values.
// Multi-row tables flatten to their ordered row list; single-row tables to
// the one row record, dropping the row wrapper.
func (n *normalizer) parseConfigTables(e *Entity) error {
	defs := getMap(n.doc, "configurationTableDefinitions")
	multiRow := map[string]bool{}
	for _, name := range sortedKeys(defs) {
		def := asMap(defs[name])
		if def == nil {
			continue
		}
		td := &ConfigTableDef{
			Name:        name,
			Description: getString(def, "description"),
			MultiRow:    getBool(def, "isMultiRow", false),
		}
		if ds := getMap(def, "dataShape"); ds != nil {
			td.Fields = n.parseFields(getMap(ds, "fieldDefinitions"))
		}
		multiRow[name] = td.MultiRow
		e.ConfigTableDefs = append(e.ConfigTableDefs, td)
	}

	tables := getMap(n.doc, "configurationTables")
	if len(tables) == 0 {
		return nil
	}
	e.ConfigTableValues = map[string]any{}
	for _, name := range sortedKeys(tables) {
		table := asMap(tables[name])
		if table == nil {
			continue
		}
		rows := getList(table, "rows")
		isMulti := getBool(table, "isMultiRow", multiRow[name])
		if isMulti {
			e.ConfigTableValues[name] = rows
			continue
		}
		if len(rows) > 0 {
			e.ConfigTableValues[name] = rows[0]
		}
	}
	return nil
}

func parseTags(list []any) []Tag {
	var out []Tag
	for _, v := range list {
		switch v := v.(type) {
		case map[string]any:
			term := getString(v, "vocabularyTerm")
			if term == "" {
				term = getString(v, "name")
			}
			out = append(out, Tag{Vocabulary: getString(v, "vocabulary"), Term: term})
		case string:
			out = append(out, Tag{Term: v})
		}
	}
	return out
}

func parsePrincipals(list []any) []Principal {
	var out []Principal
	for _, v := range list {
		m := asMap(v)
		if m == nil {
			continue
		}
		p := Principal{Name: getString(m, "name"), Type: getString(m, "type")}
		if p.Name == "" {
			p.Name = getString(m, "principal")
		}
		if p.Type == "" {
			p.Type = getString(m, "principalType")
		}
		out = append(out, p)
	}
	return out
}

// parsePermissions indexes the flat runtime-permission list under key into a
// resource-name-keyed mapping.
func parsePermissions(doc map[string]any, key string) map[string]PermissionSet {
	raw := doc[key]
	var list []any
	switch v := raw.(type) {
	case map[string]any:
		list = getList(v, "permissions")
	case []any:
		list = v
	default:
		return nil
	}
	if len(list) == 0 {
		return nil
	}

	out := map[string]PermissionSet{}
	for _, v := range list {
		m := asMap(v)
		if m == nil {
			continue
		}
		resource := getString(m, "resourceName")
		if resource == "" {
			resource = "*"
		}
		set, ok := out[resource]
		if !ok {
			set = PermissionSet{}
			out[resource] = set
		}
		for _, kind := range PermissionKinds {
			for _, pv := range getList(m, string(kind)) {
				pm := asMap(pv)
				if pm == nil {
					continue
				}
				p := Principal{Name: getString(pm, "principal"), Type: getString(pm, "type")}
				if p.Name == "" {
					p.Name = getString(pm, "name")
				}
				if p.Type == "" {
					p.Type = getString(pm, "principalType")
				}
				set[kind] = append(set[kind], PermissionEntry{
					Principal: p,
					Allowed:   getBool(pm, "isPermitted", true),
				})
			}
		}
	}
	return out
}

func sortByOrdinal(fields []*Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Ordinal != fields[j].Ordinal {
			return fields[i].Ordinal < fields[j].Ordinal
		}
		return fields[i].Name < fields[j].Name
	})
}

// === loosely-typed document accessors ===

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	return asMap(m[key])
}

func getList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	l, _ := m[key].([]any)
	return l
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func getBool(m map[string]any, key string, def bool) bool {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		// Exports occasionally carry booleans as strings.
		if v == "true" {
			return true
		}
		if v == "false" {
			return false
		}
	}
	return def
}

func getNumber(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key].(float64)
	return v, ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringList(list []any) []string {
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
