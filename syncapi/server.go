package syncapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amonks/tuido/internal/logging"
	"github.com/amonks/tuido/model"
)

// Error codes reported in command statuses, matching the remote service.
const (
	ErrorCodeInvalidArgument = 19
	ErrorCodeItemNotFound    = 22
)

const shutdownTimeout = 5 * time.Second

// ServerOptions configures a Server.
type ServerOptions struct {
	// Token is the bearer token clients must present. Empty accepts any.
	Token string

	// User is the account returned to clients. A blank inbox project
	// defaults to "inbox".
	User model.User

	// Items seeds the item list.
	Items []model.Item

	// Logger receives one line per request. Nil discards.
	Logger *log.Logger
}

// Server is an in-memory implementation of the sync endpoint. It applies
// commands idempotently by uuid, resolves temporary IDs, and answers
// incremental requests with the items changed since the presented token.
type Server struct {
	token  string
	logger *log.Logger

	mu        sync.Mutex
	user      model.User
	items     []serverItem
	version   int
	nextID    int
	processed map[string]model.CommandStatus
	tempIDs   map[string]string
	failNext  int
	requests  []model.Request
}

type serverItem struct {
	item    model.Item
	version int
}

// NewServer creates a server.
func NewServer(opts ServerOptions) *Server {
	user := opts.User
	if user.InboxProjectID == "" {
		user.InboxProjectID = "inbox"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		token:     opts.Token,
		logger:    logger,
		user:      user,
		processed: make(map[string]model.CommandStatus),
		tempIDs:   make(map[string]string),
	}
	for _, item := range opts.Items {
		s.version++
		s.items = append(s.items, serverItem{item: item, version: s.version})
	}
	return s
}

// Handler returns the HTTP handler serving POST /sync.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sync", s.handleSync)
	return s.recoverHandler(mux)
}

// Serve listens on addr until ctx is done or an interrupt arrives.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logf("interrupt received, shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	shutdownErr := server.Shutdown(shutdownCtx)
	cancel()
	listenErr := <-listenErrs
	if errors.Is(listenErr, http.ErrServerClosed) {
		listenErr = nil
	}
	return errors.Join(shutdownErr, listenErr)
}

// FailNext makes the next n requests fail with 503 Service Unavailable.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

// Requests returns every request the server has decoded, in order.
func (s *Server) Requests() []model.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Request(nil), s.requests...)
}

// Items returns the server's current item list.
func (s *Server) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.Item, 0, len(s.items))
	for _, entry := range s.items {
		items = append(items, entry.item)
	}
	return items
}

// AddItem creates an item directly on the server, as another device would.
func (s *Server) AddItem(projectID, content string) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if projectID == "" {
		projectID = s.user.InboxProjectID
	}
	return s.addItem(projectID, content)
}

func (s *Server) addItem(projectID, content string) model.Item {
	s.nextID++
	s.version++
	item := model.Item{
		ID:        fmt.Sprintf("srv-%d", s.nextID),
		ProjectID: projectID,
		Content:   content,
	}
	s.items = append(s.items, serverItem{item: item, version: s.version})
	return item
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
		s.writeError(w, r, http.StatusUnauthorized, fmt.Errorf("invalid token"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext > 0 {
		s.failNext--
		s.writeError(w, r, http.StatusServiceUnavailable, fmt.Errorf("service unavailable"))
		return
	}

	var request model.Request
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.requests = append(s.requests, request)

	writeJSON(w, http.StatusOK, s.apply(request))
}

// apply runs the request's commands and builds the response. s.mu is held.
func (s *Server) apply(request model.Request) model.Response {
	response := model.Response{TempIDMapping: map[string]string{}}

	if len(request.Commands) > 0 {
		response.SyncStatus = make(map[string]model.CommandStatus, len(request.Commands))
	}
	for _, command := range request.Commands {
		status, seen := s.processed[command.UUID]
		if !seen {
			status = s.run(command)
			s.processed[command.UUID] = status
		}
		response.SyncStatus[command.UUID] = status
		if realID, ok := s.tempIDs[command.TempID]; ok && command.TempID != "" {
			response.TempIDMapping[command.TempID] = realID
		}
	}

	since, incremental := s.parseToken(request.SyncToken)
	response.SyncToken = s.formatToken()
	response.FullSync = !incremental

	for _, resource := range request.ResourceTypes {
		switch resource {
		case model.ResourceAll:
			user := s.user
			response.User = &user
			response.Items = s.itemsSince(since, incremental)
		case model.ResourceUser:
			user := s.user
			response.User = &user
		}
	}

	s.logf("sync token=%s commands=%d full=%t", request.SyncToken, len(request.Commands), response.FullSync)
	return response
}

func (s *Server) run(command model.Command) model.CommandStatus {
	switch args := command.Args.(type) {
	case model.AddItemArgs:
		if strings.TrimSpace(args.Content) == "" {
			return model.CommandStatus{ErrorCode: ErrorCodeInvalidArgument, Error: "Content is required"}
		}
		if existing, ok := s.tempIDs[command.TempID]; ok && command.TempID != "" {
			return model.CommandStatus{ErrorCode: ErrorCodeInvalidArgument, Error: "Temporary id already used by " + existing}
		}
		item := s.addItem(args.ProjectID, args.Content)
		if command.TempID != "" {
			s.tempIDs[command.TempID] = item.ID
		}
		return model.StatusOK
	case model.CompleteItemArgs:
		id := args.ID
		if realID, ok := s.tempIDs[id]; ok {
			id = realID
		}
		for i := range s.items {
			if s.items[i].item.ID != id {
				continue
			}
			s.version++
			s.items[i].item.Checked = true
			s.items[i].version = s.version
			return model.StatusOK
		}
		return model.CommandStatus{ErrorCode: ErrorCodeItemNotFound, Error: "Item not found"}
	default:
		return model.CommandStatus{ErrorCode: ErrorCodeInvalidArgument, Error: "Unknown command"}
	}
}

// itemsSince returns unchecked items for a full sync, or every item changed
// after version since for an incremental one.
func (s *Server) itemsSince(since int, incremental bool) []model.Item {
	items := []model.Item{}
	for _, entry := range s.items {
		if incremental {
			if entry.version > since {
				items = append(items, entry.item)
			}
			continue
		}
		if !entry.item.Checked {
			items = append(items, entry.item)
		}
	}
	return items
}

func (s *Server) formatToken() string {
	return "tok-" + strconv.Itoa(s.version)
}

// parseToken reports the version a token was issued at. Unknown tokens and
// the full sync token ask for a full sync.
func (s *Server) parseToken(token string) (int, bool) {
	raw, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return 0, false
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 0 || version > s.version {
		return 0, false
	}
	return version, true
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logf(format string, args ...any) {
	s.logger.Printf(format, args...)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
