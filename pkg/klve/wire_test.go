package klve

import (
	"reflect"
	"testing"

	"github.com/klve/jstrace/pkg/describe"
)

func TestMarshalUnmarshalStepsCBORRoundTrip(t *testing.T) {
	dt := int64(12)
	steps := Steps{
		InitStep(),
		{
			StepNum:  2,
			Category: CategoryExpression,
			Type:     "NumericLiteral",
			Time:     TimeAfter,
			Dt:       &dt,
			Loc:      &SourceLocation{Start: Position{Line: 1, Column: 0}, End: Position{Line: 1, Column: 1}},
			Value: &describe.DescribedValue{
				Descriptor: describe.ValueDescriptor{Category: describe.CategoryPrimitive, Type: describe.TypeNumber, Value: float64(1)},
			},
			Detail: &Detail{Action: ActionLiteral},
		},
	}

	data, err := MarshalStepsCBOR(steps)
	if err != nil {
		t.Fatalf("MarshalStepsCBOR: %v", err)
	}

	back, err := UnmarshalStepsCBOR(data)
	if err != nil {
		t.Fatalf("UnmarshalStepsCBOR: %v", err)
	}

	if !reflect.DeepEqual(steps, back) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", back, steps)
	}
}

func TestMarshalStepsCBORIsDeterministic(t *testing.T) {
	steps := Steps{InitStep()}
	a, err := MarshalStepsCBOR(steps)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalStepsCBOR(steps)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("encoding the same Steps value twice produced different bytes")
	}
}
