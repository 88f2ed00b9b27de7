// Package syncpolicy names the synchronization strategy each mutating
// operation uses to bring view state back in line with the server. The
// mix of strategies is deliberate: the server owns count and key, so
// creation refetches the whole list, while detail-level mutations patch
// locally from the server's echo (or, for test alerts, optimistically).
package syncpolicy

// Strategy describes how view state is reconciled after a mutation.
type Strategy int

const (
	// Refetch discards local state and fetches fresh from the server.
	Refetch Strategy = iota
	// PatchLocal updates remembered state in place, either from the
	// server's returned representation or optimistically.
	PatchLocal
)

func (s Strategy) String() string {
	switch s {
	case Refetch:
		return "refetch"
	case PatchLocal:
		return "patch-local"
	default:
		return "unknown"
	}
}

// Operation identifies a mutating backend call.
type Operation string

const (
	CreateProject   Operation = "create-project"
	UpdateProject   Operation = "update-project"
	DeleteProject   Operation = "delete-project"
	RegenerateKey   Operation = "regenerate-key"
	ReportTestAlert Operation = "report-test-alert"
)

// Operations lists every mutating operation the table covers.
var Operations = []Operation{
	CreateProject,
	UpdateProject,
	DeleteProject,
	RegenerateKey,
	ReportTestAlert,
}

var strategies = map[Operation]Strategy{
	CreateProject:   Refetch,
	UpdateProject:   PatchLocal,
	DeleteProject:   Refetch,
	RegenerateKey:   PatchLocal,
	ReportTestAlert: PatchLocal,
}

// For returns the strategy for an operation. Unknown operations fall back
// to Refetch, the safe choice.
func For(op Operation) Strategy {
	if s, ok := strategies[op]; ok {
		return s
	}
	return Refetch
}
