// Package dashboard provides a small live observation page for the prediction
// demo service: a ring of recent prediction events served as HTML, JSON and a
// WebSocket stream. It is observability surface only; the prediction path
// never depends on it.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const ringSize = 100

// Event is one served prediction with its synthetic reference.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Prediction   float64   `json:"prediction"`
	Reference    float64   `json:"reference"`
	SquaredError float64   `json:"squaredError"`
}

// Dashboard keeps the recent prediction events and pushes each new one to
// connected WebSocket clients.
type Dashboard struct {
	eventsMu sync.RWMutex
	events   []Event

	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex

	broadcast chan Event
	stop      chan struct{}
	stopOnce  sync.Once

	server *http.Server
}

// New creates a dashboard listening on the given port once started.
func New(port int) *Dashboard {
	d := &Dashboard{
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 100),
		stop:      make(chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", d.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/events", d.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/ws", d.handleWebSocket).Methods(http.MethodGet)

	d.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go d.broadcaster()

	return d
}

// Observe implements the server's Observer: it records the event and queues
// it for broadcast. Never blocks the request path.
func (d *Dashboard) Observe(prediction, reference, squaredError float64) {
	ev := Event{
		Timestamp:    time.Now(),
		Prediction:   prediction,
		Reference:    reference,
		SquaredError: squaredError,
	}

	d.eventsMu.Lock()
	d.events = append(d.events, ev)
	if len(d.events) > ringSize {
		d.events = d.events[len(d.events)-ringSize:]
	}
	d.eventsMu.Unlock()

	select {
	case d.broadcast <- ev:
	default:
		// Broadcast queue full, drop the update.
	}
}

// Events returns a snapshot of the recent events, newest last.
func (d *Dashboard) Events() []Event {
	d.eventsMu.RLock()
	defer d.eventsMu.RUnlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Start starts the dashboard HTTP listener.
func (d *Dashboard) Start() {
	go func() {
		log.Info().Str("addr", d.server.Addr).Msg("starting dashboard server")
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("dashboard server failed")
		}
	}()
}

// Stop closes all client connections and shuts the listener down.
func (d *Dashboard) Stop() error {
	d.stopOnce.Do(func() { close(d.stop) })

	d.clientsMu.Lock()
	for client := range d.clients {
		client.Close()
	}
	d.clients = make(map[*websocket.Conn]bool)
	d.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.server.Shutdown(ctx)
}

// Handler exposes the route table for tests.
func (d *Dashboard) Handler() http.Handler {
	return d.server.Handler
}

func (d *Dashboard) broadcaster() {
	for {
		select {
		case ev := <-d.broadcast:
			d.broadcastToClients(ev)
		case <-d.stop:
			return
		}
	}
}

func (d *Dashboard) broadcastToClients(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	for client := range d.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(d.clients, client)
		}
	}
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	d.clientsMu.Lock()
	d.clients[conn] = true
	d.clientsMu.Unlock()

	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("dashboard client connected")
}

func (d *Dashboard) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d.Events())
}

var indexTemplate = template.Must(template.New("index").Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>Prediction Demo - Live</title>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
        .container { max-width: 900px; margin: 0 auto; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
        .header h1 { margin: 0; text-align: center; }
        table { width: 100%; border-collapse: collapse; background: white; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #eee; }
        th { background-color: #f8f9fa; }
    </style>
</head>
<body>
<div class="container">
    <div class="header"><h1>Prediction Demo - Live</h1></div>
    <table>
        <thead><tr><th>Time</th><th>Prediction</th><th>Reference</th><th>Squared Error</th></tr></thead>
        <tbody id="events"></tbody>
    </table>
</div>
<script>
    const tbody = document.getElementById('events');
    function addRow(ev) {
        const row = document.createElement('tr');
        row.innerHTML = '<td>' + new Date(ev.timestamp).toLocaleTimeString() + '</td>' +
            '<td>' + ev.prediction.toFixed(4) + '</td>' +
            '<td>' + ev.reference.toFixed(4) + '</td>' +
            '<td>' + ev.squaredError.toFixed(4) + '</td>';
        tbody.prepend(row);
        while (tbody.children.length > 100) tbody.removeChild(tbody.lastChild);
    }
    fetch('/api/events').then(r => r.json()).then(evs => (evs || []).forEach(addRow));
    const ws = new WebSocket('ws://' + window.location.host + '/ws');
    ws.onmessage = m => addRow(JSON.parse(m.data));
</script>
</body>
</html>
`))

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard page")
	}
}
