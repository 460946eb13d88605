package fault

// Kind classifies a fault.
type Kind uint8

const (
	// KindConstruction is recorded when a type cannot be instantiated.
	KindConstruction Kind = iota + 1
	// KindInvocation is recorded when a call panics or returns an error.
	KindInvocation
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindInvocation:
		return "invocation"
	case KindContract:
		return "contract"
	}
	return "unknown"
}

// MarshalText lets renderers serialise kinds by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
