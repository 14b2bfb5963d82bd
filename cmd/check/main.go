// Command check lists what the configured content API serves, to verify
// connectivity before starting the console.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"admin/internal/app/apiclient"
	"admin/internal/app/config"
	"admin/internal/app/ds"
	"admin/internal/app/form"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to read config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := apiclient.New(apiclient.Options{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})

	services, err := apiclient.NewResource[ds.Service](client, form.Services.Resource).GetAll(ctx)
	if err != nil {
		log.Fatal("Failed to get services:", err)
	}

	fmt.Println("Services in content API:")
	for _, service := range services {
		image := "NULL"
		if service.Image != "" {
			image = service.Image
		}
		fmt.Printf("ID: %s, Title: %s, Image: %s\n", service.ID, service.Title, image)
	}

	for _, resource := range form.Resources() {
		if resource == form.Services.Resource {
			continue
		}
		n, err := apiclient.NewResource[map[string]interface{}](client, resource).Count(ctx)
		if err != nil {
			log.Fatalf("Failed to count %s: %v", resource, err)
		}
		fmt.Printf("%s: %d\n", resource, n)
	}
}
