// cmd/server is the plain API server entry point for container images that
// don't need the full CLI.
package main

import (
	"log"

	"github.com/shoestop/backend/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
