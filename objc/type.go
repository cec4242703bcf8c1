package objc

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("java2objc.objc")

// Type is a built Objective-C class or protocol. It is immutable: every
// accessor returning a collection returns a copy.
type Type struct {
	name          string
	interfaceLike bool
	system        bool
	reference     bool
	base          *Type
	protocols     []*Type
	imports       []*Type
	fields        []Field
	methods       []Method
	staticInit    []*Block
	instanceInit  []*Block
}

func (t *Type) Name() string {
	return t.name
}

// IsInterfaceLike reports whether t renders as a @protocol.
func (t *Type) IsInterfaceLike() bool {
	return t.interfaceLike
}

// IsSystem reports whether t belongs to the Objective-C runtime or Foundation.
func (t *Type) IsSystem() bool {
	return t.system
}

// IsReference reports whether t is a placeholder for a type whose
// definition is not known.
func (t *Type) IsReference() bool {
	return t.reference
}

// Base returns the superclass. It is never nil; the root type is its own base.
func (t *Type) Base() *Type {
	if t.base == nil {
		return NSObject
	}
	return t.base
}

func (t *Type) Protocols() []*Type {
	return append([]*Type(nil), t.protocols...)
}

func (t *Type) Imports() []*Type {
	return append([]*Type(nil), t.imports...)
}

func (t *Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

func (t *Type) Methods() []Method {
	methods := append([]Method(nil), t.methods...)
	for i := range methods {
		methods[i].Params = append([]Param(nil), methods[i].Params...)
	}
	return methods
}

// StaticInitializers returns the class-level initializer blocks in source order.
func (t *Type) StaticInitializers() []*Block {
	return append([]*Block(nil), t.staticInit...)
}

// InstanceInitializers returns the blocks every designated initializer runs
// before its own body.
func (t *Type) InstanceInitializers() []*Block {
	return append([]*Block(nil), t.instanceInit...)
}

func (t *Type) HeaderFileName() string {
	return t.name + ".h"
}

func (t *Type) ImplFileName() string {
	return t.name + ".m"
}

// ImportDirective returns the #import line that makes t visible.
func (t *Type) ImportDirective() string {
	if t.system {
		return "#import <Foundation/Foundation.h>"
	}
	return `#import "` + t.HeaderFileName() + `"`
}

func (t *Type) String() string {
	return t.name
}

func newSystemType(name string) *Type {
	return &Type{name: name, system: true}
}

// NewSystemType returns a Foundation type that is not predefined, such as
// one named by a configured type mapping.
func NewSystemType(name string, protocol bool) *Type {
	if t, ok := systemTypes[name]; ok {
		return t
	}
	return &Type{name: name, system: true, interfaceLike: protocol}
}

// Predefined Foundation types.
var (
	NSObject            = newSystemType("NSObject")
	NSString            = newSystemType("NSString")
	NSMutableString     = newSystemType("NSMutableString")
	NSNumber            = newSystemType("NSNumber")
	NSArray             = newSystemType("NSArray")
	NSMutableArray      = newSystemType("NSMutableArray")
	NSDictionary        = newSystemType("NSDictionary")
	NSMutableDictionary = newSystemType("NSMutableDictionary")
	NSSet               = newSystemType("NSSet")
	NSMutableSet        = newSystemType("NSMutableSet")
	NSException         = newSystemType("NSException")
	ID                  = newSystemType("id")

	NSCopying = &Type{name: "NSCopying", system: true, interfaceLike: true}
	NSCoding  = &Type{name: "NSCoding", system: true, interfaceLike: true}
)

var systemTypes = map[string]*Type{}

func init() {
	for _, t := range []*Type{
		NSObject, NSString, NSMutableString, NSNumber, NSArray, NSMutableArray,
		NSDictionary, NSMutableDictionary, NSSet, NSMutableSet,
		NSException, ID, NSCopying, NSCoding,
	} {
		systemTypes[t.name] = t
	}
}

// SystemType looks up a predefined Foundation type by name.
func SystemType(name string) (*Type, bool) {
	t, ok := systemTypes[name]
	return t, ok
}

// NewReference returns a placeholder class type for name.
func NewReference(name string) *Type {
	return &Type{name: name, reference: true}
}

// NewProtocolReference returns a placeholder protocol type for name.
func NewProtocolReference(name string) *Type {
	return &Type{name: name, reference: true, interfaceLike: true}
}
