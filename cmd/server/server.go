package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/jstrand/CsvDB"
	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/db"
)

// Server is a TCP SQL server that exposes a CsvDB instance.
type Server struct {
	listener   net.Listener
	instance   *CsvDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new SQL server with the given CsvDB instance.
// The identity is used for unauthenticated connections.
func NewServer(instance *CsvDB.Instance, identity core.Identity, authConfig *AuthConfig) *Server {
	return &Server{
		instance:   instance,
		identity:   identity,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("SQL Server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	cursors := newCursorRegistry()
	defer cursors.CloseAll()

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one command per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}

		// Handle special commands
		if strings.ToLower(command) == "quit" || strings.ToLower(command) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		response := s.handleCommand(command, state, cursors)

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		_, err = conn.Write(data)
		if err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// handleCommand dispatches one line to auth, cursor handling or plain
// execution.
func (s *Server) handleCommand(command string, state *ConnectionState, cursors *cursorRegistry) Response {
	if strings.HasPrefix(strings.ToUpper(command), "AUTH ") {
		return s.handleAuth(command, state)
	}

	if s.authConfig != nil && s.authConfig.Enabled && !state.IsAuthenticated() {
		return Response{
			Success: false,
			Error:   "authentication required",
		}
	}

	session := s.sessionFor(state)

	switch keyword(command) {
	case "DECLARE":
		return s.handleDeclare(command, session, cursors)
	case "FETCH":
		return s.handleFetch(command, cursors)
	case "CLOSE":
		return s.handleClose(command, cursors)
	}

	return s.executeQuery(command, session)
}

// sessionFor returns a session bound to the connection's identity, or the
// server default when unauthenticated.
func (s *Server) sessionFor(state *ConnectionState) *db.Session {
	if state.Identity() != nil {
		return s.instance.Session(*state.Identity())
	}
	return s.instance.Session(s.identity)
}

func keyword(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func (s *Server) executeQuery(query string, session *db.Session) Response {
	result, err := session.Execute(query)
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.ExecResult:
		er := ExecResponse{
			RowsAffected: r.RowsAffected,
			TimeMs:       r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(er)
		return Response{
			Success: true,
			Type:    "exec",
			Result:  data,
		}

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}
