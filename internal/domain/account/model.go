package account

// RegisteredAccount is a Google Cloud project already known to the registry
type RegisteredAccount struct {
	RegistryID     string `json:"registry_id" yaml:"registry_id"`
	CloudProjectID string `json:"project_id" yaml:"project_id"`
	Name           string `json:"name" yaml:"name"`
}

// Entry is what the Index keeps per project
type Entry struct {
	RegistryID string
	Name       string
}

// Index maps cloud project ID to its registry entry. Delete calls are
// addressed by registry ID, not project ID.
type Index map[string]Entry

// NewIndex builds an Index from a registry listing. The first occurrence of
// a project ID wins.
func NewIndex(accounts []RegisteredAccount) Index {
	idx := make(Index, len(accounts))
	for _, a := range accounts {
		if _, ok := idx[a.CloudProjectID]; ok {
			continue
		}
		idx[a.CloudProjectID] = Entry{RegistryID: a.RegistryID, Name: a.Name}
	}
	return idx
}

// RegistryID returns the registry ID for a cloud project
func (i Index) RegistryID(projectID string) (string, bool) {
	e, ok := i[projectID]
	if !ok || e.RegistryID == "" {
		return "", false
	}
	return e.RegistryID, true
}

// Name returns the registered display name, falling back to the project ID
func (i Index) Name(projectID string) string {
	if e, ok := i[projectID]; ok && e.Name != "" {
		return e.Name
	}
	return projectID
}
