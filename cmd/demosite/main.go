// Command demosite starts the pentrail demo site.
// Usage: go run ./cmd/demosite [port]
// Default port: 9099
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pentrail/pentrail/internal/demosite"
)

func main() {
	cfg := demosite.DefaultConfig()

	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   pentrail demo site")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Pages serve either a sloppy or a hardened security")
	fmt.Println("posture. Switch with:")
	fmt.Println()
	fmt.Println("  curl -X POST -d 'path=*&profile=hardened' localhost:9099/demo/set-profile")
	fmt.Println()
	fmt.Println("Then point pentrail at the pages and compare the reports.")
	fmt.Println()

	site := demosite.NewDemoSite(cfg)
	if err := site.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
