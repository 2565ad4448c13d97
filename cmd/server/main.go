package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jstrand/CsvDB"
	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	port := flag.Int("port", 5432, "TCP port to listen on")
	dbPath := flag.String("db", "", "Database file path (memory if empty)")
	jwtSecret := flag.String("jwt-secret", "", "JWT shared secret; enables authentication when set")
	jwtIssuer := flag.String("jwt-issuer", "", "Expected JWT issuer claim")
	jwtAudience := flag.String("jwt-audience", "", "Expected JWT audience claim")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("CsvDB SQL Server v%s\n", Version)
		return
	}

	// Initialize store
	var st *store.Store
	var err error
	if *dbPath == "" {
		log.Println("Using in-memory store")
		st, err = store.NewMemoryStore()
	} else {
		log.Printf("Using database file: %s", *dbPath)
		st, err = store.NewFileStore(*dbPath)
	}
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	instance := CsvDB.Open(st)

	identity := core.Identity{
		Name:  "CsvDB Server",
		Email: "server@csvdb.local",
	}

	var authConfig *AuthConfig
	if *jwtSecret != "" {
		authConfig = &AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
			Issuer:    *jwtIssuer,
			Audience:  *jwtAudience,
		}
	}

	server := NewServer(instance, identity, authConfig)
	addr := fmt.Sprintf(":%d", *port)

	if err := server.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   CsvDB SQL Server v%-14s     ║\n", Version)
	fmt.Println("║   SQL Workbench for CSV Datasets      ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", *port)
	fmt.Println("Send SQL queries (one per line), 'quit' to disconnect")
	fmt.Println("DECLARE <sql> / FETCH <n> FROM <id> / CLOSE <id> for cursors")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
