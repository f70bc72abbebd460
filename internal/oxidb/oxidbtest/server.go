// Package oxidbtest runs an in-memory stand-in for oxidb-server that speaks
// the length-prefixed JSON protocol, for tests that cannot reach a real one.
package oxidbtest

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"strconv"
	"sync"
	"testing"
)

// Server is a single-process fake supporting ping, insert, find_one,
// update_one ($set only), delete_one and create_unique_index.
type Server struct {
	ln net.Listener

	mu      sync.Mutex
	colls   map[string][]map[string]any
	unique  map[string]map[string]bool
	nextID  int
	failCmd map[string]string
	calls   map[string]int
}

// Start listens on a loopback port and serves until the test ends.
func Start(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("oxidbtest: listen: %v", err)
	}
	s := &Server{
		ln:      ln,
		colls:   map[string][]map[string]any{},
		unique:  map[string]map[string]bool{},
		failCmd: map[string]string{},
		calls:   map[string]int{},
	}
	go s.serve()
	t.Cleanup(func() { ln.Close() })
	return s
}

// Host returns the listening host.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.ln.Addr().String())
	return host
}

// Port returns the listening port.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// FailNext makes the next request for cmd return an error response.
func (s *Server) FailNext(cmd, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCmd[cmd] = msg
}

// Calls reports how many requests for cmd were served.
func (s *Server) Calls(cmd string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[cmd]
}

// Docs returns a copy of the documents in a collection.
func (s *Server) Docs(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.colls[collection]))
	for _, d := range s.colls[collection] {
		out = append(out, copyDoc(d))
	}
	return out
}

func (s *Server) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			return
		}
		payload := make([]byte, binary.LittleEndian.Uint32(lenBuf))
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		var req map[string]any
		resp := map[string]any{"ok": true}
		if err := json.Unmarshal(payload, &req); err != nil {
			resp = map[string]any{"ok": false, "error": err.Error()}
		} else if data, err := s.dispatch(req); err != nil {
			resp = map[string]any{"ok": false, "error": err.Error()}
		} else {
			resp["data"] = data
		}
		out, _ := json.Marshal(resp)
		frame := make([]byte, 4+len(out))
		binary.LittleEndian.PutUint32(frame, uint32(len(out)))
		copy(frame[4:], out)
		if _, err := conn.Write(frame); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(req map[string]any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, _ := req["cmd"].(string)
	s.calls[cmd]++
	if msg, ok := s.failCmd[cmd]; ok {
		delete(s.failCmd, cmd)
		return nil, errors.New(msg)
	}
	coll, _ := req["collection"].(string)
	query, _ := req["query"].(map[string]any)

	switch cmd {
	case "ping":
		return "pong", nil
	case "create_unique_index":
		field, _ := req["field"].(string)
		if s.unique[coll] == nil {
			s.unique[coll] = map[string]bool{}
		}
		s.unique[coll][field] = true
		return "ok", nil
	case "insert":
		doc, _ := req["doc"].(map[string]any)
		for field := range s.unique[coll] {
			for _, existing := range s.colls[coll] {
				if reflect.DeepEqual(existing[field], doc[field]) {
					return nil, fmt.Errorf("unique constraint conflict on %s", field)
				}
			}
		}
		s.nextID++
		doc = copyDoc(doc)
		doc["_id"] = s.nextID
		s.colls[coll] = append(s.colls[coll], doc)
		return map[string]any{"id": s.nextID}, nil
	case "find_one":
		for _, d := range s.colls[coll] {
			if matches(d, query) {
				return copyDoc(d), nil
			}
		}
		return nil, nil
	case "update_one":
		update, _ := req["update"].(map[string]any)
		set, _ := update["$set"].(map[string]any)
		for _, d := range s.colls[coll] {
			if matches(d, query) {
				for k, v := range set {
					d[k] = v
				}
				return map[string]any{"modified": 1}, nil
			}
		}
		return map[string]any{"modified": 0}, nil
	case "delete_one":
		docs := s.colls[coll]
		for i, d := range docs {
			if matches(d, query) {
				s.colls[coll] = append(docs[:i:i], docs[i+1:]...)
				return map[string]any{"deleted": 1}, nil
			}
		}
		return map[string]any{"deleted": 0}, nil
	}
	return nil, fmt.Errorf("unsupported command %q", cmd)
}

func matches(doc, query map[string]any) bool {
	for k, v := range query {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	return true
}

func copyDoc(d map[string]any) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
