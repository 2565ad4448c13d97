package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/jstrand/CsvDB/db"
	"github.com/jstrand/CsvDB/store"
)

// cursorRegistry tracks the open cursors of one connection. Everything
// left open when the client disconnects is released in CloseAll.
type cursorRegistry struct {
	mu      sync.Mutex
	cursors map[string]*store.Cursor
}

func newCursorRegistry() *cursorRegistry {
	return &cursorRegistry{
		cursors: make(map[string]*store.Cursor),
	}
}

func (r *cursorRegistry) Add(cursor *store.Cursor) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.cursors[id] = cursor
	return id
}

func (r *cursorRegistry) Get(id string) (*store.Cursor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cursor, ok := r.cursors[id]
	return cursor, ok
}

func (r *cursorRegistry) Remove(id string) (*store.Cursor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cursor, ok := r.cursors[id]
	if ok {
		delete(r.cursors, id)
	}
	return cursor, ok
}

func (r *cursorRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, cursor := range r.cursors {
		cursor.Close()
		delete(r.cursors, id)
	}
}

// handleDeclare opens a server-side cursor: DECLARE <sql>
func (s *Server) handleDeclare(command string, session *db.Session, cursors *cursorRegistry) Response {
	query := strings.TrimSpace(command[len("DECLARE"):])
	if query == "" {
		return Response{
			Success: false,
			Type:    "cursor",
			Error:   "expected DECLARE <sql>",
		}
	}

	cursor, err := session.OpenCursor(query)
	if err != nil {
		return Response{
			Success: false,
			Type:    "cursor",
			Error:   err.Error(),
		}
	}

	cr := CursorResponse{
		CursorID: cursors.Add(cursor),
		Columns:  cursor.Columns(),
	}
	data, _ := json.Marshal(cr)
	return Response{
		Success: true,
		Type:    "cursor",
		Result:  data,
	}
}

// handleFetch retrieves one batch: FETCH <n> FROM <cursor-id>
func (s *Server) handleFetch(command string, cursors *cursorRegistry) Response {
	parts := strings.Fields(command)
	if len(parts) != 4 || strings.ToUpper(parts[2]) != "FROM" {
		return Response{
			Success: false,
			Type:    "fetch",
			Error:   "expected FETCH <n> FROM <cursor-id>",
		}
	}

	size, err := strconv.Atoi(parts[1])
	if err != nil {
		return Response{
			Success: false,
			Type:    "fetch",
			Error:   fmt.Sprintf("invalid batch size: %s", parts[1]),
		}
	}

	cursor, ok := cursors.Get(parts[3])
	if !ok {
		return Response{
			Success: false,
			Type:    "fetch",
			Error:   fmt.Sprintf("unknown cursor: %s", parts[3]),
		}
	}

	batch, err := cursor.FetchBatch(size)
	if err != nil {
		return Response{
			Success: false,
			Type:    "fetch",
			Error:   err.Error(),
		}
	}

	fr := FetchResponse{
		Data:    batch,
		HasMore: cursor.HasMore(),
	}
	if fr.Data == nil {
		fr.Data = [][]string{}
	}
	data, _ := json.Marshal(fr)
	return Response{
		Success: true,
		Type:    "fetch",
		Result:  data,
	}
}

// handleClose releases a cursor: CLOSE <cursor-id>
func (s *Server) handleClose(command string, cursors *cursorRegistry) Response {
	parts := strings.Fields(command)
	if len(parts) != 2 {
		return Response{
			Success: false,
			Type:    "cursor",
			Error:   "expected CLOSE <cursor-id>",
		}
	}

	cursor, ok := cursors.Remove(parts[1])
	if !ok {
		return Response{
			Success: false,
			Type:    "cursor",
			Error:   fmt.Sprintf("unknown cursor: %s", parts[1]),
		}
	}

	if err := cursor.Close(); err != nil {
		return Response{
			Success: false,
			Type:    "cursor",
			Error:   err.Error(),
		}
	}

	return Response{
		Success: true,
		Type:    "cursor",
	}
}
