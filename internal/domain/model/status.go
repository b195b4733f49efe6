package model

// EditState is the lifecycle stage of a submitted edit.
type EditState string

const (
	EditPending  EditState = "pending"
	EditApplied  EditState = "applied"
	EditRejected EditState = "rejected"
)

// EditStatus reports what happened to a submitted edit.
type EditStatus struct {
	ID      string    `json:"id"`
	Kind    EditKind  `json:"kind"`
	State   EditState `json:"state"`
	Version uint64    `json:"version,omitempty"`
	Error   string    `json:"error,omitempty"`
}
