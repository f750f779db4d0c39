// Package entity defines the canonical in-memory model of a platform entity
// and the normalizer that builds it from the raw metadata JSON. The model is
// a pure value: built once per input document, never mutated afterwards, and
// consumed entirely within one compilation pass.
package entity

import "errors"

// ErrUnsupported reports an input shape the compiler does not accept: an
// unknown service handler, a disabled subscription, an unrecognized
// principal type, or a value that cannot be rendered as a literal.
var ErrUnsupported = errors.New("unsupported input")

// Kind tags the structural variant of an entity.
type Kind int

const (
	KindOther Kind = iota
	KindThing
	KindThingTemplate
	KindThingShape
	KindDataShape
)

func (k Kind) String() string {
	switch k {
	case KindThing:
		return "Thing"
	case KindThingTemplate:
		return "ThingTemplate"
	case KindThingShape:
		return "ThingShape"
	case KindDataShape:
		return "DataShape"
	default:
		return "Other"
	}
}

// Entity is the shared record of every entity kind. Kind-specific fields
// live in the optional detail structs; exactly one of Thing, Template or
// Shape is set for the corresponding kinds.
type Entity struct {
	Name        string
	Description string
	Tags        []Tag
	Kind        Kind
	Aspects     map[string]any

	Properties    []*Field
	Services      []*Service
	Events        []*Event
	Subscriptions []*Subscription
	Fields        []*Field // data shapes only

	ConfigTableDefs   []*ConfigTableDef
	ConfigTableValues map[string]any // table name -> row record, or ordered row list

	Visibility  []Principal
	Permissions map[string]PermissionSet // resource name -> permission set

	Thing    *ThingDetail
	Template *TemplateDetail
	Shape    *ShapeDetail
}

// Tag is one vocabulary:term model tag.
type Tag struct {
	Vocabulary string
	Term       string
}

// ThingDetail carries Thing-specific fields.
type ThingDetail struct {
	Enabled      bool
	Identifier   *int64
	Published    bool
	ValueStream  string
	BaseTemplate string
	Shapes       []string
}

// TemplateDetail carries ThingTemplate-specific fields, including the
// instance-scoped permission namespace that applies to instances of the
// template rather than the template entity itself.
type TemplateDetail struct {
	BaseTemplate        string
	Shapes              []string
	ValueStream         string
	InstanceVisibility  []Principal
	InstancePermissions map[string]PermissionSet
}

// ShapeDetail carries ThingShape-specific fields.
type ShapeDetail struct {
	InstancePermissions map[string]PermissionSet
}

// Field is the shared shape of a property, a service parameter and a data
// shape field.
type Field struct {
	Name        string
	BaseType    string
	Description string
	Ordinal     int
	Aspects     Aspects
	Remote      *RemoteBinding
	Local       *LocalBinding
}

// Aspects is the cross-cutting attribute bag of a field definition.
type Aspects struct {
	DefaultValue        any
	HasDefault          bool
	Min                 *float64
	Max                 *float64
	Units               string
	Required            bool
	ReadOnly            bool
	Persistent          bool
	Logged              bool
	PrimaryKey          bool
	DataChangeType      string
	DataChangeThreshold *float64

	// References used for generic type parameterization.
	DataShape     string
	ThingTemplate string
	ThingShape    string
}

// RemoteBinding marks a member as sourced from an external system. Options
// holds the raw binding keys; filtering to the recognized set happens at
// compile time.
type RemoteBinding struct {
	SourceName  string
	EnableQueue bool
	Timeout     *float64
	Options     map[string]any
}

// LocalBinding mirrors another entity's property within the same system.
type LocalBinding struct {
	SourceThing    string
	SourceProperty string
}

// Service is one service definition. Code is empty when the service is
// remote.
type Service struct {
	Name        string
	Description string
	ResultType  *Field
	Params      []*Field
	Async       bool
	Overridable bool
	Overridden  bool
	Code        string
	Remote      *RemoteBinding
}

// Event is one event definition, referencing the record shape of its
// payload.
type Event struct {
	Name        string
	Description string
	DataShape   string
	Remote      *RemoteBinding
}

// Subscription is one subscription definition. An empty Source means a local
// subscription to the entity's own event. A disabled subscription is invalid
// input and never reaches the compiler.
type Subscription struct {
	Name           string
	Description    string
	EventName      string
	Source         string
	SourceProperty string
	Enabled        bool
	Code           string
}

// PermissionKind names one runtime capability.
type PermissionKind string

const (
	PermPropertyRead   PermissionKind = "PropertyRead"
	PermPropertyWrite  PermissionKind = "PropertyWrite"
	PermServiceInvoke  PermissionKind = "ServiceInvoke"
	PermEventInvoke    PermissionKind = "EventInvoke"
	PermEventSubscribe PermissionKind = "EventSubscribe"
)

// PermissionKinds is the fixed enumeration order used everywhere permission
// kinds are iterated.
var PermissionKinds = [...]PermissionKind{
	PermPropertyRead,
	PermPropertyWrite,
	PermServiceInvoke,
	PermEventInvoke,
	PermEventSubscribe,
}

// PermissionSet maps each permission kind to its ordered principal
// decisions.
type PermissionSet map[PermissionKind][]PermissionEntry

// PermissionEntry pairs a principal with an allow/deny decision.
type PermissionEntry struct {
	Principal Principal
	Allowed   bool
}

// Principal is a named access-control subject.
type Principal struct {
	Name string
	Type string // User, Group, Organization, OrganizationalUnit
}

// ConfigTableDef is the schema of one configuration table.
type ConfigTableDef struct {
	Name        string
	Description string
	MultiRow    bool
	Fields      []*Field
}

// LocalNames returns the set of member names defined directly on the entity.
// Services and properties share this namespace; it decides whether a runtime
// permission attaches to the member or at class scope.
func (e *Entity) LocalNames() map[string]bool {
	names := make(map[string]bool, len(e.Properties)+len(e.Services))
	for _, p := range e.Properties {
		names[p.Name] = true
	}
	for _, s := range e.Services {
		names[s.Name] = true
	}
	return names
}
