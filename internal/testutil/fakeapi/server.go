// Package fakeapi is an in-memory stand-in for the portfolio content API,
// served over httptest for adapter, controller and CLI tests.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signingSecret = "fakeapi-signing-secret"

type Operator struct {
	ID         string
	Name       string
	Identifier string
	Secret     string
}

// Request is what the server saw of one call.
type Request struct {
	Method        string
	Path          string
	ContentType   string
	Authorization string
	RequestID     string
	UserAgent     string
	JSON          map[string]any
	Fields        map[string]string
	Files         map[string]string
}

type failure struct {
	method  string
	path    string
	status  int
	network bool
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	operators   []Operator
	tokens      map[string]Operator
	collections map[string][]map[string]any
	settings    map[string]any
	nextID      int
	requests    []Request
	failures    []failure
	now         time.Time
}

func New() *Server {
	s := &Server{
		tokens:      make(map[string]Operator),
		collections: make(map[string][]map[string]any),
		settings:    map[string]any{},
		now:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.authed(s.handlePutSettings))
	mux.HandleFunc("GET /api/reviews/all", s.authed(s.handleList("reviews")))
	mux.HandleFunc("GET /api/contact", s.authed(s.handleList("contact")))
	mux.HandleFunc("GET /api/{resource}", s.handlePublicList)
	mux.HandleFunc("POST /api/tech-stack/seed", s.authed(s.handleSeedTechStack))
	mux.HandleFunc("POST /api/{resource}", s.authed(s.handleCreate))
	mux.HandleFunc("PUT /api/{resource}/{id}", s.authed(s.handleUpdate))
	mux.HandleFunc("DELETE /api/{resource}/{id}", s.authed(s.handleDelete))
	mux.HandleFunc("PUT /api/reviews/{id}/approve", s.authed(s.handleFlip("reviews", "isApproved")))
	mux.HandleFunc("PUT /api/tech-stack/{id}/toggle", s.authed(s.handleFlip("tech-stack", "isEnabled")))

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

func (s *Server) AddOperator(op Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators = append(s.operators, op)
}

// Put stores a document in a collection, assigning an _id when missing,
// and returns the id.
func (s *Server) Put(resource string, doc map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(resource, doc)
}

func (s *Server) SetSettings(doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = cloneDoc(doc)
}

func (s *Server) Settings() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDoc(s.settings)
}

func (s *Server) Items(resource string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]map[string]any, 0, len(s.collections[resource]))
	for _, doc := range s.collections[resource] {
		items = append(items, cloneDoc(doc))
	}
	return items
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent call matching method and path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method == method && s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

// FailNext answers the next matching call with status instead of handling it.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status})
}

// DropNext closes the connection on the next matching call.
func (s *Server) DropNext(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, network: true})
}

// RevokeTokens makes every issued token unauthorized.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]Operator)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			UserAgent:     r.Header.Get("User-Agent"),
		}
		if err := parseBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		injected, ok := s.takeFailureLocked(r.Method, r.URL.Path)
		s.mu.Unlock()

		if ok {
			if injected.network {
				dropConnection(w)
				return
			}
			writeJSON(w, injected.status, map[string]string{"message": "injected failure"})
			return
		}

		ctx := withRequest(r.Context(), &req)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) takeFailureLocked(method, path string) (failure, bool) {
	for i, f := range s.failures {
		if f.method == method && f.path == path {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			return f, true
		}
	}
	return failure{}, false
}

func dropConnection(w http.ResponseWriter) {
	hijacker, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	conn, _, err := hijacker.Hijack()
	if err != nil {
		return
	}
	_ = conn.Close()
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()
		if token == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized, token failed"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r.Context())
	identifier, _ := req.JSON["identifier"].(string)
	secret, _ := req.JSON["secret"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range s.operators {
		if op.Identifier != identifier || op.Secret != secret {
			continue
		}
		token, err := s.issueTokenLocked(op)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"operator": map[string]string{"id": op.ID, "name": op.Name, "email": op.Identifier},
			"token":    token,
		})
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
}

func (s *Server) issueTokenLocked(op Operator) (string, error) {
	s.nextID++
	claims := jwt.MapClaims{
		"sub":  op.ID,
		"name": op.Name,
		"iat":  s.now.Unix(),
		"exp":  s.now.Add(30 * 24 * time.Hour).Unix(),
		"jti":  fmt.Sprintf("login-%d", s.nextID),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.tokens[token] = op
	return token, nil
}

func (s *Server) handlePublicList(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	switch resource {
	case "projects", "services", "experience", "gallery", "tech-stack", "reviews":
		s.handleList(resource)(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func (s *Server) handleList(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.Items(resource))
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r.Context())
	doc := documentFrom(req)

	s.mu.Lock()
	id := s.insertLocked(r.PathValue("resource"), doc)
	created := cloneDoc(s.findLocked(r.PathValue("resource"), id))
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r.Context())
	patch := documentFrom(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.findLocked(r.PathValue("resource"), r.PathValue("id"))
	if doc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Resource not found"})
		return
	}
	for k, v := range patch {
		doc[k] = v
	}
	writeJSON(w, http.StatusOK, cloneDoc(doc))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	resource := r.PathValue("resource")
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.collections[resource]
	for i, doc := range items {
		if doc["_id"] == id {
			s.collections[resource] = append(items[:i:i], items[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Resource removed"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Resource not found"})
}

func (s *Server) handleFlip(resource, flag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		doc := s.findLocked(resource, r.PathValue("id"))
		if doc == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Resource not found"})
			return
		}
		current, _ := doc[flag].(bool)
		doc[flag] = !current
		writeJSON(w, http.StatusOK, cloneDoc(doc))
	}
}

func (s *Server) handleSeedTechStack(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{"React", "Node.js", "MongoDB"} {
		s.insertLocked("tech-stack", map[string]any{"name": name, "category": "Frontend", "isEnabled": true})
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Tech stack seeded"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r.Context())
	doc := documentFrom(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := map[string]any{"_id": "settings"}
	for _, key := range []string{"resumeLink", "profileImage"} {
		if v, ok := s.settings[key]; ok {
			next[key] = v
		}
	}
	for k, v := range doc {
		switch k {
		case "resume":
			next["resumeLink"] = v
		default:
			next[k] = v
		}
	}
	s.settings = next
	writeJSON(w, http.StatusOK, cloneDoc(next))
}

func (s *Server) insertLocked(resource string, doc map[string]any) string {
	stored := cloneDoc(doc)
	id, _ := stored["_id"].(string)
	if id == "" {
		s.nextID++
		id = fmt.Sprintf("%024x", s.nextID)
		stored["_id"] = id
	}
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = s.now.Format(time.RFC3339)
	}
	s.collections[resource] = append(s.collections[resource], stored)
	return id
}

func (s *Server) findLocked(resource, id string) map[string]any {
	for _, doc := range s.collections[resource] {
		if doc["_id"] == id {
			return doc
		}
	}
	return nil
}

// documentFrom turns a parsed body into stored fields. Uploaded files become
// hosted URLs and comma separated tags become arrays, as the real API does.
func documentFrom(req *Request) map[string]any {
	doc := make(map[string]any)
	for k, v := range req.JSON {
		doc[k] = v
	}
	for k, v := range req.Fields {
		if k == "tags" {
			doc[k] = splitTags(v)
			continue
		}
		doc[k] = v
	}
	for k, filename := range req.Files {
		doc[k] = "/uploads/" + filename
	}
	return doc
}

func splitTags(raw string) []any {
	tags := []any{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

func parseBody(r *http.Request, req *Request) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("parse content type: %w", err)
	}

	switch mediaType {
	case "application/json":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		req.JSON = map[string]any{}
		return json.Unmarshal(raw, &req.JSON)
	case "multipart/form-data":
		req.Fields = map[string]string{}
		req.Files = map[string]string{}
		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			data, err := io.ReadAll(part)
			if err != nil {
				return err
			}
			if part.FileName() != "" {
				req.Files[part.FormName()] = part.FileName()
				continue
			}
			req.Fields[part.FormName()] = string(data)
		}
	default:
		return fmt.Errorf("unsupported content type %q", mediaType)
	}
}

func cloneDoc(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	raw, _ := json.Marshal(doc)
	cloned := map[string]any{}
	_ = json.Unmarshal(raw, &cloned)
	return cloned
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
