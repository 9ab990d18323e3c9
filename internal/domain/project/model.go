package project

// LifecycleState is the Resource Manager lifecycle state of a project
type LifecycleState string

// Lifecycle states reported by Resource Manager
const (
	StateActive           LifecycleState = "ACTIVE"
	StateDeleteRequested  LifecycleState = "DELETE_REQUESTED"
	StateDeleteInProgress LifecycleState = "DELETE_IN_PROGRESS"
)

// CloudProject represents a Google Cloud project visible to the configured identity
type CloudProject struct {
	ID             string         `json:"project_id" yaml:"project_id"`
	Name           string         `json:"name" yaml:"name"`
	LifecycleState LifecycleState `json:"lifecycle_state" yaml:"lifecycle_state"`
}

// IsActive reports whether the project can be onboarded
func (p CloudProject) IsActive() bool {
	return p.LifecycleState == StateActive
}

// Index maps project ID to display name
type Index map[string]string

// NewIndex builds an Index from a project listing. The first occurrence of
// an ID wins.
func NewIndex(projects []CloudProject) Index {
	idx := make(Index, len(projects))
	for _, p := range projects {
		if _, ok := idx[p.ID]; ok {
			continue
		}
		idx[p.ID] = p.Name
	}
	return idx
}

// Name returns the display name for id, falling back to the id itself
func (i Index) Name(id string) string {
	if name, ok := i[id]; ok && name != "" {
		return name
	}
	return id
}

// Active returns only the projects in the ACTIVE state
func Active(projects []CloudProject) []CloudProject {
	out := make([]CloudProject, 0, len(projects))
	for _, p := range projects {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out
}
