package model

// LookupKind tags the outcome of a provider lookup.
type LookupKind int

const (
	// LookupFound means the provider returned the resource.
	LookupFound LookupKind = iota + 1
	// LookupNotFound means the provider positively reported absence (HTTP 404).
	LookupNotFound
	// LookupError means the lookup failed for any other reason.
	// Absence is unknown; callers must not treat it as NotFound.
	LookupError
)

func (k LookupKind) String() string {
	switch k {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not-found"
	case LookupError:
		return "error"
	default:
		return "unknown"
	}
}

// Lookup is the tagged result of looking a resource up by name.
type Lookup[T any] struct {
	Kind     LookupKind
	Resource T
	Err      error
}

// Found returns a Lookup carrying an existing resource.
func Found[T any](r T) Lookup[T] {
	return Lookup[T]{Kind: LookupFound, Resource: r}
}

// NotFound returns a Lookup reporting absence.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{Kind: LookupNotFound}
}

// LookupFailed returns a Lookup carrying the cause of a failed lookup.
func LookupFailed[T any](err error) Lookup[T] {
	return Lookup[T]{Kind: LookupError, Err: err}
}
