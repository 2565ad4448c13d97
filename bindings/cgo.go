package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"context"
	"unsafe"

	"github.com/goccy/go-json"

	"github.com/jstrand/CsvDB"
	"github.com/jstrand/CsvDB/core"
	"github.com/jstrand/CsvDB/dataset"
	"github.com/jstrand/CsvDB/db"
	"github.com/jstrand/CsvDB/store"
)

// Handle represents an open database instance
type Handle struct {
	store   *store.Store
	session *db.Session
	loader  *dataset.Loader
}

// Global handle storage (simplified - in production use a map with mutex)
var handles = make(map[int]*Handle)
var nextHandle = 1

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

type ExecResponse struct {
	RowsAffected int64   `json:"rows_affected"`
	TimeMs       float64 `json:"time_ms"`
}

type LoadResponse struct {
	Table       string `json:"table"`
	RowsWritten int64  `json:"rows_written"`
}

func register(st *store.Store) C.int {
	instance := CsvDB.Open(st)
	session := instance.Session(core.Identity{
		Name:  "CsvDB Python",
		Email: "python@csvdb.local",
	})

	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		store:   st,
		session: session,
		loader:  instance.Loader(),
	}

	return C.int(handle)
}

//export csvdb_open_memory
func csvdb_open_memory() C.int {
	st, err := store.NewMemoryStore()
	if err != nil {
		return -1
	}
	return register(st)
}

//export csvdb_open_file
func csvdb_open_file(path *C.char) C.int {
	st, err := store.NewFileStore(C.GoString(path))
	if err != nil {
		return -1
	}
	return register(st)
}

//export csvdb_close
func csvdb_close(handle C.int) {
	h, ok := handles[int(handle)]
	if !ok {
		return
	}
	h.store.Close()
	delete(handles, int(handle))
}

//export csvdb_load_csv
func csvdb_load_csv(handle C.int, path *C.char) *C.char {
	h, ok := handles[int(handle)]
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	table, written, err := h.loader.Load(context.Background(), C.GoString(path))
	if err != nil {
		return makeErrorResponse(err.Error())
	}

	lr := LoadResponse{
		Table:       table,
		RowsWritten: written,
	}
	data, _ := json.Marshal(lr)
	resp := Response{
		Success: true,
		Type:    "load",
		Result:  data,
	}

	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

//export csvdb_execute
func csvdb_execute(handle C.int, query *C.char) *C.char {
	h, ok := handles[int(handle)]
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	goQuery := C.GoString(query)
	result, err := h.session.Execute(goQuery)

	if err != nil {
		return makeErrorResponse(err.Error())
	}

	var resp Response

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		resp = Response{
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
		resp = Response{
			Success: true,
			Type:    "exec",
			Result:  data,
		}

	default:
		resp = Response{
			Success: true,
			Type:    "unknown",
		}
	}

	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

//export csvdb_free
func csvdb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func makeErrorResponse(msg string) *C.char {
	resp := Response{
		Success: false,
		Error:   msg,
	}
	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

func main() {}
