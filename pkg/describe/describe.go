// Package describe converts arbitrary goja runtime values into a portable
// descriptor-plus-heap form and back. Grounded on vm/value.go's tagged-value
// discrimination (IsFloat/IsSymbol/...) for the primitive-vs-compound
// dispatch here, and on vm/object.go's enumerable-slot walk for the
// compound-value recursion — generalized from fixed object slots to goja's
// dynamic own-property enumeration.
package describe

import (
	"fmt"

	"github.com/dop251/goja"
)

// Category discriminates the two ValueDescriptor shapes.
type Category string

const (
	CategoryPrimitive Category = "primitive"
	CategoryCompound  Category = "compound"
)

// Primitive type tags.
const (
	TypeString    = "string"
	TypeNumber    = "number"
	TypeBoolean   = "boolean"
	TypeNull      = "null"
	TypeUndefined = "undefined"
	TypeSymbol    = "symbol"
)

// Heap object type tags.
const (
	HeapObjectType = "object"
	HeapArray    = "array"
	HeapFunction = "function"
	HeapPromise  = "promise"
)

// ValueDescriptor is the tagged sum used to serialize one runtime value.
// Primitive descriptors carry Value or Str; compound descriptors carry At,
// an index into the accompanying Heap.
type ValueDescriptor struct {
	Category Category    `json:"category" cbor:"category"`
	Type     string      `json:"type,omitempty" cbor:"type,omitempty"`
	Value    interface{} `json:"value,omitempty" cbor:"value,omitempty"`
	Str      string      `json:"str,omitempty" cbor:"str,omitempty"`
	At       int         `json:"at,omitempty" cbor:"at,omitempty"`
}

// HeapEntry is one (key, value) pair inside a HeapObject's Entries list.
// Kept as an ordered slice rather than a map so property order — and
// therefore re-encoding determinism — matches the source object.
type HeapEntry struct {
	Key   string          `json:"key" cbor:"key"`
	Value ValueDescriptor `json:"value" cbor:"value"`
}

// HeapObject is one compound value in the heap: an object, array, function,
// or promise, described by its enumerable own properties.
type HeapObject struct {
	Type    string      `json:"type" cbor:"type"`
	Entries []HeapEntry `json:"entries" cbor:"entries"`
	Length  *int        `json:"length,omitempty" cbor:"length,omitempty"`
	CName   string       `json:"cname,omitempty" cbor:"cname,omitempty"`
}

// Heap is the ordered table of compound values a step's descriptors index
// into via ValueDescriptor.At.
type Heap []HeapObject

// DescribedValue pairs a descriptor with the heap it indexes into. The heap
// is attached to each described value as it crosses a boundary (spec's
// DescribedValue); downstream consumers follow At indices within Heap.
type DescribedValue struct {
	Descriptor ValueDescriptor `json:"descriptor" cbor:"descriptor"`
	Heap       Heap            `json:"heap" cbor:"heap"`
}

// seenMap tracks runtime objects already assigned a heap slot, by pointer
// identity, so cycles terminate and shared substructure is preserved. The
// same shape as a registry keyed by object identity.
type seenMap map[*goja.Object]int

// Describe serializes v into a (descriptor, heap) pair, appending any new
// compound entries to heap. It never returns an error: exotic values that
// fail to introspect are swallowed and rendered as an empty object, mirroring
// the describer's own try/catch guard around scope-snapshot reads.
func Describe(rt *goja.Runtime, v goja.Value, heap *Heap) ValueDescriptor {
	return describe(rt, v, heap, seenMap{})
}

func describe(rt *goja.Runtime, v goja.Value, heap *Heap, seen seenMap) (result ValueDescriptor) {
	defer func() {
		if r := recover(); r != nil {
			result = ValueDescriptor{Category: CategoryCompound, At: reserveEmpty(heap, HeapObjectType)}
		}
	}()

	if v == nil || goja.IsUndefined(v) {
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeUndefined}
	}
	if goja.IsNull(v) {
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeNull}
	}
	if sym, ok := v.(*goja.Symbol); ok {
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeSymbol, Str: sym.String()}
	}
	if obj, ok := v.(*goja.Object); ok {
		return describeCompound(rt, obj, heap, seen)
	}

	switch x := v.Export().(type) {
	case bool:
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeBoolean, Value: x}
	case int64:
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeNumber, Value: float64(x)}
	case float64:
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeNumber, Value: x}
	case string:
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeString, Value: x}
	default:
		return ValueDescriptor{Category: CategoryPrimitive, Type: TypeString, Value: v.String()}
	}
}

func describeCompound(rt *goja.Runtime, obj *goja.Object, heap *Heap, seen seenMap) ValueDescriptor {
	if at, ok := seen[obj]; ok {
		return ValueDescriptor{Category: CategoryCompound, At: at}
	}

	at := len(*heap)
	seen[obj] = at
	*heap = append(*heap, HeapObject{})

	kind, length, cname := classify(obj)

	var entries []HeapEntry
	for _, key := range obj.Keys() {
		child := describe(rt, obj.Get(key), heap, seen)
		entries = append(entries, HeapEntry{Key: key, Value: child})
	}

	(*heap)[at] = HeapObject{Type: kind, Entries: entries, Length: length, CName: cname}
	return ValueDescriptor{Category: CategoryCompound, At: at}
}

// classify tags a goja object as function/array/promise/object: function
// and array are detected by class name first, then promise structurally
// (then+catch), falling back to a plain object.
func classify(obj *goja.Object) (kind string, length *int, cname string) {
	switch obj.ClassName() {
	case "Function", "GeneratorFunction", "AsyncFunction":
		return HeapFunction, nil, ""
	case "Array":
		n := int(obj.Get("length").ToInteger())
		return HeapArray, &n, ""
	}
	if isPromiseLike(obj) {
		return HeapPromise, nil, ""
	}
	return HeapObjectType, nil, constructorName(obj)
}

// isPromiseLike detects a promise by the presence of both then and catch
// methods, per spec.md §4.3 — duck-typed, not engine-specific, so it also
// recognizes the never-settling promises Undescribe reconstructs.
func isPromiseLike(obj *goja.Object) bool {
	return isCallable(obj.Get("then")) && isCallable(obj.Get("catch"))
}

func isCallable(v goja.Value) bool {
	obj, ok := v.(*goja.Object)
	return ok && obj != nil && obj.ClassName() == "Function"
}

func constructorName(obj *goja.Object) string {
	ctor, ok := obj.Get("constructor").(*goja.Object)
	if !ok {
		return ""
	}
	name, ok := ctor.Get("name").Export().(string)
	if !ok || name == "Object" {
		return ""
	}
	return name
}

// reserveEmpty appends a fresh empty heap slot and returns its index, used
// by Describe's panic-recovery fallback.
func reserveEmpty(heap *Heap, kind string) int {
	at := len(*heap)
	*heap = append(*heap, HeapObject{Type: kind})
	return at
}

// Undescribe inverts Describe, reconstructing opaque placeholders: functions
// as no-op functions, promises as never-settling promises, arrays of the
// correct length, and objects as plain objects. A classed object (non-empty
// CName) gets an own `constructor` property holding {name: CName}; no
// constructor function is synthesized and the object's prototype is the
// plain Object prototype. Revived objects are memoized by heap index so
// shared structure and cycles round-trip.
func Undescribe(rt *goja.Runtime, d ValueDescriptor, heap Heap) goja.Value {
	return undescribe(rt, d, heap, map[int]goja.Value{})
}

func undescribe(rt *goja.Runtime, d ValueDescriptor, heap Heap, revived map[int]goja.Value) goja.Value {
	if d.Category == CategoryPrimitive {
		return undescribePrimitive(rt, d)
	}
	if v, ok := revived[d.At]; ok {
		return v
	}
	if d.At < 0 || d.At >= len(heap) {
		return goja.Undefined()
	}
	obj := heap[d.At]

	switch obj.Type {
	case HeapFunction:
		fn := rt.ToValue(func(goja.FunctionCall) goja.Value { return goja.Undefined() })
		revived[d.At] = fn
		return fn
	case HeapPromise:
		p, _, _ := rt.NewPromise()
		v := rt.ToValue(p)
		revived[d.At] = v
		return v
	case HeapArray:
		n := 0
		if obj.Length != nil {
			n = *obj.Length
		}
		arr := rt.NewArray(make([]interface{}, n)...)
		revived[d.At] = arr
		for _, e := range obj.Entries {
			arr.Set(e.Key, undescribe(rt, e.Value, heap, revived))
		}
		return arr
	default:
		out := rt.NewObject()
		revived[d.At] = out
		if obj.CName != "" {
			out.Set("constructor", rt.ToValue(map[string]interface{}{"name": obj.CName}))
		}
		for _, e := range obj.Entries {
			out.Set(e.Key, undescribe(rt, e.Value, heap, revived))
		}
		return out
	}
}

func undescribePrimitive(rt *goja.Runtime, d ValueDescriptor) goja.Value {
	switch d.Type {
	case TypeUndefined:
		return goja.Undefined()
	case TypeNull:
		return goja.Null()
	case TypeBoolean:
		b, _ := d.Value.(bool)
		return rt.ToValue(b)
	case TypeNumber:
		n, _ := d.Value.(float64)
		return rt.ToValue(n)
	case TypeString:
		s, _ := d.Value.(string)
		return rt.ToValue(s)
	case TypeSymbol:
		return rt.ToValue(d.Str)
	default:
		return goja.Undefined()
	}
}

// String renders a descriptor for debugging/error messages; not part of the
// wire schema.
func (d ValueDescriptor) String() string {
	if d.Category == CategoryCompound {
		return fmt.Sprintf("compound@%d", d.At)
	}
	if d.Type == TypeSymbol {
		return fmt.Sprintf("%s(%q)", d.Type, d.Str)
	}
	if d.Type == TypeString {
		return fmt.Sprintf("%s(%q)", d.Type, d.Value)
	}
	return fmt.Sprintf("%s(%v)", d.Type, d.Value)
}
