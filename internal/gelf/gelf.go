package gelf

import (
	"encoding/json"
	"net"
	"os"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer so it can sit
// next to stdout in a zerolog.MultiLevelWriter. Each Write is expected to be
// one zerolog JSON line.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "oxintake-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// syslog severities
var levels = map[string]int{
	"trace": 7,
	"debug": 7,
	"info":  6,
	"warn":  4,
	"error": 3,
	"fatal": 2,
	"panic": 1,
}

// Write implements io.Writer. Zerolog fields other than level, message and
// time become GELF additional fields. Lines that are not JSON are sent as-is.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.message(p))
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) message(p []byte) map[string]any {
	msg := map[string]any{
		"version":   "1.1",
		"host":      w.hostname,
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
		"level":     6,
		"_service":  w.service,
	}

	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		msg["short_message"] = string(trimNewline(p))
		return msg
	}

	short, _ := event["message"].(string)
	if short == "" {
		short = "-"
	}
	msg["short_message"] = short
	if lvl, ok := event["level"].(string); ok {
		if n, ok := levels[lvl]; ok {
			msg["level"] = n
		}
	}
	for k, v := range event {
		switch k {
		case "level", "message", "time", "id":
			continue
		}
		msg["_"+k] = v
	}
	return msg
}

// Close releases the UDP socket.
func (w *Writer) Close() error {
	return w.conn.Close()
}

func trimNewline(p []byte) []byte {
	for len(p) > 0 && (p[len(p)-1] == '\n' || p[len(p)-1] == '\r') {
		p = p[:len(p)-1]
	}
	return p
}
