package klve

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode is built once, canonically, so that re-encoding the same
// Steps value always produces byte-identical output. Exact pattern of
// vm/dist/wire.go's cborEncMode.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("klve: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalStepsCBOR serializes Steps to CBOR bytes, a more compact
// alternative to the JSON Step schema (spec §6) for space-constrained
// consumers. The JSON schema stays the primary wire form.
func MarshalStepsCBOR(steps Steps) ([]byte, error) {
	return cborEncMode.Marshal(steps)
}

// UnmarshalStepsCBOR deserializes Steps from CBOR bytes produced by
// MarshalStepsCBOR.
func UnmarshalStepsCBOR(data []byte) (Steps, error) {
	var steps Steps
	if err := cbor.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("klve: unmarshal steps: %w", err)
	}
	return steps, nil
}
