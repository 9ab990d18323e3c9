package services

import (
	"sort"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/domain/project"
)

// ProjectsToOnboard returns the IDs of ACTIVE projects that have no registry
// account. The result is sorted and free of duplicates.
func ProjectsToOnboard(projects []project.CloudProject, accounts []account.RegisteredAccount) []string {
	registered := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		registered[a.CloudProjectID] = struct{}{}
	}

	var ids []string
	for id := range activeIDs(projects) {
		if _, ok := registered[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ProjectsToOffboard returns the project IDs of registry accounts whose
// project is not ACTIVE in the cloud listing. The result is sorted and free
// of duplicates.
func ProjectsToOffboard(projects []project.CloudProject, accounts []account.RegisteredAccount) []string {
	active := activeIDs(projects)

	seen := make(map[string]struct{}, len(accounts))
	var ids []string
	for _, a := range accounts {
		if _, ok := seen[a.CloudProjectID]; ok {
			continue
		}
		seen[a.CloudProjectID] = struct{}{}
		if _, ok := active[a.CloudProjectID]; !ok {
			ids = append(ids, a.CloudProjectID)
		}
	}
	sort.Strings(ids)
	return ids
}

func activeIDs(projects []project.CloudProject) map[string]struct{} {
	ids := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if p.IsActive() {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}
