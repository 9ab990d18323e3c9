package project

import "context"

// Lister enumerates cloud projects
type Lister interface {
	// ListActiveProjects returns every ACTIVE project visible to the
	// configured identity, across all result pages.
	ListActiveProjects(ctx context.Context) ([]CloudProject, error)
}
