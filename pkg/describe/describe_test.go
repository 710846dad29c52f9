package describe

import (
	"testing"

	"github.com/dop251/goja"
)

func TestDescribePrimitives(t *testing.T) {
	rt := goja.New()

	tests := []struct {
		name string
		v    goja.Value
		want ValueDescriptor
	}{
		{"undefined", goja.Undefined(), ValueDescriptor{Category: CategoryPrimitive, Type: TypeUndefined}},
		{"null", goja.Null(), ValueDescriptor{Category: CategoryPrimitive, Type: TypeNull}},
		{"boolean", rt.ToValue(true), ValueDescriptor{Category: CategoryPrimitive, Type: TypeBoolean, Value: true}},
		{"number", rt.ToValue(3.5), ValueDescriptor{Category: CategoryPrimitive, Type: TypeNumber, Value: 3.5}},
		{"string", rt.ToValue("hi"), ValueDescriptor{Category: CategoryPrimitive, Type: TypeString, Value: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var heap Heap
			got := Describe(rt, tt.v, &heap)
			if got.Category != tt.want.Category || got.Type != tt.want.Type || got.Value != tt.want.Value {
				t.Errorf("Describe(%v) = %+v, want %+v", tt.v, got, tt.want)
			}
			if len(heap) != 0 {
				t.Errorf("primitive describe should not touch the heap, got %d entries", len(heap))
			}
		})
	}
}

func TestDescribeObject(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`({a: 1, b: "two"})`)
	if err != nil {
		t.Fatal(err)
	}

	var heap Heap
	d := Describe(rt, v, &heap)
	if d.Category != CategoryCompound {
		t.Fatalf("want compound category, got %v", d.Category)
	}
	if len(heap) != 1 {
		t.Fatalf("want 1 heap entry, got %d", len(heap))
	}
	obj := heap[d.At]
	if obj.Type != HeapObjectType {
		t.Errorf("type = %q, want %q", obj.Type, HeapObjectType)
	}
	if len(obj.Entries) != 2 {
		t.Errorf("entries = %d, want 2", len(obj.Entries))
	}
}

func TestDescribeArray(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`[1, 2, 3]`)
	if err != nil {
		t.Fatal(err)
	}

	var heap Heap
	d := Describe(rt, v, &heap)
	obj := heap[d.At]
	if obj.Type != HeapArray {
		t.Errorf("type = %q, want %q", obj.Type, HeapArray)
	}
	if obj.Length == nil || *obj.Length != 3 {
		t.Errorf("length = %v, want 3", obj.Length)
	}
}

func TestDescribeFunction(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`(function foo() {})`)
	if err != nil {
		t.Fatal(err)
	}

	var heap Heap
	d := Describe(rt, v, &heap)
	if heap[d.At].Type != HeapFunction {
		t.Errorf("type = %q, want %q", heap[d.At].Type, HeapFunction)
	}
}

func TestDescribePromise(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`Promise.resolve(1)`)
	if err != nil {
		t.Fatal(err)
	}

	var heap Heap
	d := Describe(rt, v, &heap)
	if heap[d.At].Type != HeapPromise {
		t.Errorf("type = %q, want %q", heap[d.At].Type, HeapPromise)
	}
}

func TestDescribeCycle(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`(function(){ const o = {}; o.self = o; return o; })()`)
	if err != nil {
		t.Fatal(err)
	}

	var heap Heap
	d := Describe(rt, v, &heap)
	if len(heap) != 1 {
		t.Fatalf("cyclic object should produce exactly 1 heap entry, got %d", len(heap))
	}
	self := heap[d.At].Entries[0]
	if self.Key != "self" || self.Value.At != d.At {
		t.Errorf("self-reference did not round-trip to the same heap slot: %+v", self)
	}
}

func TestUndescribeRoundTripsPrimitives(t *testing.T) {
	rt := goja.New()
	for _, v := range []goja.Value{goja.Undefined(), goja.Null(), rt.ToValue(true), rt.ToValue(2.0), rt.ToValue("x")} {
		var heap Heap
		d := Describe(rt, v, &heap)
		back := Undescribe(rt, d, heap)
		if back.ExportType() != v.ExportType() && !(goja.IsUndefined(v) || goja.IsNull(v)) {
			t.Errorf("Undescribe(Describe(%v)) type mismatch: got %v", v, back)
		}
	}
}

func TestUndescribeArrayLength(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`[1, 2, 3]`)
	if err != nil {
		t.Fatal(err)
	}
	var heap Heap
	d := Describe(rt, v, &heap)
	back := Undescribe(rt, d, heap)
	obj, ok := back.(*goja.Object)
	if !ok {
		t.Fatalf("Undescribe did not return an object: %v", back)
	}
	if n := obj.Get("length").ToInteger(); n != 3 {
		t.Errorf("length = %d, want 3", n)
	}
}

func TestValueDescriptorString(t *testing.T) {
	d := ValueDescriptor{Category: CategoryPrimitive, Type: TypeString, Value: "hi"}
	if got := d.String(); got != `string("hi")` {
		t.Errorf("String() = %q, want %q", got, `string("hi")`)
	}
}
