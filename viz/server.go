// Package viz serves a live view of a running search: a single-page
// canvas frontend plus a websocket that steps the search on command and
// streams expansion snapshots back.
package viz

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdrpinto/gridplan"
	"github.com/pdrpinto/gridplan/level"
)

//go:embed index.html
var indexHTML []byte

//go:embed command.schema.json
var commandSchema string

// Command is one client request over the websocket.
type Command struct {
	Cmd   string `json:"cmd"`             // "init", "step" or "reset"
	Count int    `json:"count,omitempty"` // expansions per "step", default 1
}

type levelMessage struct {
	Type   string           `json:"type"`
	Name   string           `json:"name"`
	Rows   int              `json:"rows"`
	Cols   int              `json:"cols"`
	Walls  []level.Position `json:"walls"`
	Goals  []goalMessage    `json:"goals"`
	Agents []level.Position `json:"agents"`
}

type goalMessage struct {
	Pos  level.Position `json:"pos"`
	Need string         `json:"need"`
}

type snapshotMessage struct {
	Type string `json:"type"`
	gridplan.StepSnapshot
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Server steps one search per websocket connection.
type Server struct {
	lv       *level.Level
	strategy string
	logger   *slog.Logger
	schema   *jsonschema.Schema
	upgrader websocket.Upgrader
}

func NewServer(lv *level.Level, strategy string, logger *slog.Logger) (*Server, error) {
	schema, err := jsonschema.CompileString("command.schema.json", commandSchema)
	if err != nil {
		return nil, fmt.Errorf("compile command schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		lv:       lv,
		strategy: strategy,
		logger:   logger,
		schema:   schema,
	}, nil
}

// Handler returns the HTTP mux: the frontend at / and the socket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving the viz frontend on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("viz serving", "addr", addr, "level", s.lv.Name, "strategy", s.strategy)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var mu sync.Mutex // serializes writes per connection
	send := func(v any) {
		mu.Lock()
		defer mu.Unlock()
		if err := conn.WriteJSON(v); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
		}
	}

	var stepper *gridplan.Stepper
	defer func() {
		if stepper != nil {
			stepper.Close()
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := s.decodeCommand(raw)
		if err != nil {
			send(errorMessage{Type: "error", Error: err.Error()})
			continue
		}

		switch cmd.Cmd {
		case "init", "reset":
			if stepper != nil {
				stepper.Close()
			}
			stepper, err = s.newStepper()
			if err != nil {
				send(errorMessage{Type: "error", Error: err.Error()})
				continue
			}
			send(s.levelMessage())
		case "step":
			if stepper == nil {
				send(errorMessage{Type: "error", Error: "not initialized, send init first"})
				continue
			}
			count := cmd.Count
			if count < 1 {
				count = 1
			}
			for i := 0; i < count && !stepper.Done(); i++ {
				snap, stepErr := stepper.Step()
				msg := snapshotMessage{Type: "snapshot", StepSnapshot: snap}
				send(msg)
				if stepErr != nil {
					send(errorMessage{Type: "error", Error: stepErr.Error()})
					break
				}
			}
		}
	}
}

// decodeCommand validates the raw message against the embedded schema
// before decoding it, so malformed frontends fail loudly.
func (s *Server) decodeCommand(raw []byte) (Command, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Command{}, fmt.Errorf("bad command json: %w", err)
	}
	if err := s.schema.Validate(v); err != nil {
		return Command{}, fmt.Errorf("bad command: %w", err)
	}
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func (s *Server) newStepper() (*gridplan.Stepper, error) {
	frontier, err := gridplan.FrontierFor(s.strategy, s.lv)
	if err != nil {
		return nil, err
	}
	return gridplan.NewStepper(gridplan.NewState(s.lv), frontier)
}

func (s *Server) levelMessage() levelMessage {
	msg := levelMessage{
		Type:   "level",
		Name:   s.lv.Name,
		Rows:   s.lv.Rows,
		Cols:   s.lv.Cols,
		Agents: s.lv.Agents,
	}
	for r := 0; r < s.lv.Rows; r++ {
		for c := 0; c < s.lv.Cols; c++ {
			if s.lv.Walls[r][c] {
				msg.Walls = append(msg.Walls, level.Position{Row: r, Col: c})
			}
		}
	}
	for _, g := range s.lv.GoalCells {
		msg.Goals = append(msg.Goals, goalMessage{Pos: g.Pos, Need: string(g.Need)})
	}
	return msg
}
