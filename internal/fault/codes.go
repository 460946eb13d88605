package fault

import "fmt"

// Code is a compact numeric identifier with a stable string form.
type Code uint16

const (
	UnknownCode Code = 0

	// Построение экземпляра
	ConstructionFailed    Code = 1001
	ConstructionPanicked  Code = 1002
	ConstructionAbstract  Code = 1003
	ConstructionNilResult Code = 1004

	// Вызов
	InvocationPanicked    Code = 2001
	InvocationErrorResult Code = 2002
	InvocationBadArgument Code = 2003
	InvocationArity       Code = 2004

	// Контракт результата
	ContractResultInvalid Code = 3001
	ContractResultArity   Code = 3002
)

var codeNames = map[Code]string{
	UnknownCode:           "unknown",
	ConstructionFailed:    "construction failed",
	ConstructionPanicked:  "constructor panicked",
	ConstructionAbstract:  "type cannot be instantiated",
	ConstructionNilResult: "constructor returned nil",
	InvocationPanicked:    "call panicked",
	InvocationErrorResult: "call returned error",
	InvocationBadArgument: "argument synthesis failed",
	InvocationArity:       "argument count mismatch",
	ContractResultInvalid: "result type mismatch",
	ContractResultArity:   "result count mismatch",
}

// String returns the stable identifier, e.g. "CC2001".
func (c Code) String() string {
	return fmt.Sprintf("CC%04d", uint16(c))
}

// Title returns a short human label for the code.
func (c Code) Title() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[UnknownCode]
}

// Kind derives the fault kind from the code range.
func (c Code) Kind() Kind {
	switch {
	case c >= 1000 && c < 2000:
		return KindConstruction
	case c >= 2000 && c < 3000:
		return KindInvocation
	case c >= 3000 && c < 4000:
		return KindContract
	}
	return 0
}

// MarshalText serialises the code by its stable identifier.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
