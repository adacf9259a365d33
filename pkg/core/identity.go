package core

// Decision is the outcome of matching an existing instance against a new
// configuration node.
type Decision int

const (
	// DecisionReplace disposes the old instance and creates a new one.
	DecisionReplace Decision = iota
	// DecisionUpdate keeps an unkeyed instance matched by kind and order.
	DecisionUpdate
	// DecisionMove keeps a keyed instance matched by key, wherever it now sits.
	DecisionMove
)

func (d Decision) String() string {
	switch d {
	case DecisionUpdate:
		return "update"
	case DecisionMove:
		return "move"
	default:
		return "replace"
	}
}

// Resolve decides whether a new configuration node may take over an existing
// instance. Keyed nodes match only on equal key and equal kind; unkeyed
// nodes match on equal kind. State is never carried across kinds.
//
// Keys must be comparable; Validate rejects the others before reconciliation.
func Resolve(oldKey Key, oldKind Kind, newKey Key, newKind Kind) Decision {
	if oldKind != newKind {
		return DecisionReplace
	}
	switch {
	case oldKey == nil && newKey == nil:
		return DecisionUpdate
	case oldKey != nil && newKey != nil && oldKey == newKey:
		return DecisionMove
	default:
		return DecisionReplace
	}
}
