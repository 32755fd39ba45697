// Command safemode-mcp runs the safemode inspector MCP server over stdio.
package main

import (
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/permission"
	"github.com/opencode-ai/safemode/pkg/mcpserver/inspector"
)

func main() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	manager := permission.NewManager()
	defer manager.Close()

	file, source, err := config.LoadDefault(dir)
	if err != nil {
		log.Fatal(err)
	}
	if err := manager.Apply(file, source); err != nil {
		log.Fatal(err)
	}
	if path := config.Resolve(dir); path != "" {
		if err := manager.WatchFile(path); err != nil {
			log.Printf("config watching disabled: %v", err)
		}
	}

	s := inspector.NewServer(manager.Current)
	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}
