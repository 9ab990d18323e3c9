package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/d9sync/pkg/client"
)

// Example demonstrates basic usage of the Dome9 client
func Example() {
	c := client.NewClient(client.Config{
		APIKey:    "your-api-key-id",
		APISecret: "your-api-key-secret",
	})

	accounts, err := c.GoogleCloudAccounts().List(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d Google Cloud accounts\n", len(accounts))
}

// ExampleGoogleCloudAccountService_Create demonstrates onboarding a project
func ExampleGoogleCloudAccountService_Create() {
	c := client.NewClient(client.Config{
		APIKey:    "your-api-key-id",
		APISecret: "your-api-key-secret",
	})

	account, status, err := c.GoogleCloudAccounts().Create(context.Background(), client.CreateGoogleCloudAccountRequest{
		Name: "Payments Production",
		ServiceAccountCredentials: map[string]interface{}{
			"type":         "service_account",
			"project_id":   "payments-prod",
			"client_email": "dome9@security-tools.iam.gserviceaccount.com",
		},
	})
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsConflict() {
		fmt.Println("Project already onboarded")
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Onboarded %s as %s (status %d)\n", account.ProjectID, account.ID, status)
}

// ExampleGoogleCloudAccountService_Delete demonstrates offboarding an account
func ExampleGoogleCloudAccountService_Delete() {
	c := client.NewClient(client.Config{
		APIKey:    "your-api-key-id",
		APISecret: "your-api-key-secret",
	})

	if _, err := c.GoogleCloudAccounts().Delete(context.Background(), "3f4c8a2e-5b1d-4c9a-9f0e-2d7b6a1c8e44"); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Account removed")
}
