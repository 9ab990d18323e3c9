package client

// GoogleCloudAccount represents a Google Cloud project registered in Dome9
type GoogleCloudAccount struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	ProjectID              string  `json:"projectId"`
	CreationDate           string  `json:"creationDate,omitempty"`
	OrganizationalUnitID   *string `json:"organizationalUnitId,omitempty"`
	OrganizationalUnitPath string  `json:"organizationalUnitPath,omitempty"`
	Vendor                 string  `json:"vendor,omitempty"`
}

// CreateGoogleCloudAccountRequest is the body of an onboarding call.
// ServiceAccountCredentials is the service account key document with
// project_id set to the project being onboarded.
type CreateGoogleCloudAccountRequest struct {
	Name                      string                 `json:"name"`
	ServiceAccountCredentials map[string]interface{} `json:"serviceAccountCredentials"`
}
