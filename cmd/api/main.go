// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

// The gateway fronts the circulation service for the SPA, keeping the
// /api/v1 surface stable while the backend moves.
func main() {
	circulationURL, err := url.Parse(getEnv("CIRCULATION_SERVICE_URL", "http://localhost:8082"))
	if err != nil {
		log.Fatalf("invalid CIRCULATION_SERVICE_URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(circulationURL)

	http.Handle("/api/v1/", http.StripPrefix("/api/v1", proxy))

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
