package providers

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// CredentialDocument is a parsed Google service account key file. The same
// document authenticates project listing and is sent to the registry with
// project_id rewritten per project.
type CredentialDocument map[string]interface{}

// LoadCredentialDocument reads and parses a service account key file
func LoadCredentialDocument(path string) (CredentialDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return ParseCredentialDocument(data)
}

// ParseCredentialDocument parses a service account key from JSON
func ParseCredentialDocument(data []byte) (CredentialDocument, error) {
	var doc CredentialDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("credentials file is not a JSON object")
	}
	if t, _ := doc["type"].(string); t != "" && t != "service_account" {
		return nil, fmt.Errorf("unsupported credential type %q, a service account key is required", t)
	}
	return doc, nil
}

// WithProjectID returns a copy of the document with project_id set to
// projectID. The receiver is never modified.
func (d CredentialDocument) WithProjectID(projectID string) CredentialDocument {
	out := maps.Clone(d)
	if out == nil {
		out = CredentialDocument{}
	}
	out["project_id"] = projectID
	return out
}

// ProjectID returns the project the key was issued in
func (d CredentialDocument) ProjectID() string {
	s, _ := d["project_id"].(string)
	return s
}

// ClientEmail returns the service account email
func (d CredentialDocument) ClientEmail() string {
	s, _ := d["client_email"].(string)
	return s
}

// JSON encodes the document
func (d CredentialDocument) JSON() ([]byte, error) {
	return json.Marshal(d)
}
