package model

// ChangeKind distinguishes tracked insertions from tracked deletions.
type ChangeKind int

const (
	Insertion ChangeKind = iota
	Deletion
)

func (k ChangeKind) String() string {
	switch k {
	case Insertion:
		return "Insertion"
	case Deletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

// TrackedChange identifies one tracked revision.
type TrackedChange struct {
	Kind   ChangeKind
	ID     string
	Author string
	// Date is the revision timestamp as written, empty when absent.
	Date string
}
