package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"xnote/internal/auth"
	"xnote/internal/cache"
	"xnote/internal/db"
	"xnote/internal/models"
	"xnote/internal/sentiment"
	"xnote/internal/user"
)

const (
	defaultListLimit = 100
	minContentLength = 10
)

type Handlers struct {
	db         *db.DB
	cache      *cache.Cache
	auth       *auth.Service
	users      *user.Store
	classifier *sentiment.Classifier
}

func New(database *db.DB, c *cache.Cache, a *auth.Service, users *user.Store, classifier *sentiment.Classifier) *Handlers {
	return &Handlers{
		db:         database,
		cache:      c,
		auth:       a,
		users:      users,
		classifier: classifier,
	}
}

// Mux wires every route, with the auth middleware in front of all note
// endpoints so rejected requests never reach the store.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			h.error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.Token(w, r)
	})

	mux.HandleFunc("/notes", h.auth.Require(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.ListNotes(w, r)
		case http.MethodPost:
			h.CreateNote(w, r)
		default:
			h.error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/notes/", h.auth.Require(func(w http.ResponseWriter, r *http.Request) {
		id, analyze, err := noteID(r.URL.Path)
		if err != nil {
			h.error(w, "Invalid note ID", http.StatusBadRequest)
			return
		}

		switch {
		case analyze && r.Method == http.MethodGet:
			h.AnalyzeNote(w, r, id)
		case analyze:
			h.error(w, "Method not allowed", http.StatusMethodNotAllowed)
		case r.Method == http.MethodGet:
			h.GetNote(w, r, id)
		case r.Method == http.MethodPut:
			h.UpdateNote(w, r, id)
		case r.Method == http.MethodDelete:
			h.DeleteNote(w, r, id)
		default:
			h.error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			h.error(w, "Not found", http.StatusNotFound)
			return
		}
		h.respond(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	return mux
}

// noteID parses /notes/{id} and /notes/{id}/analyze paths.
func noteID(path string) (int64, bool, error) {
	rest := strings.TrimPrefix(path, "/notes/")
	analyze := false
	if strings.HasSuffix(rest, "/analyze") {
		analyze = true
		rest = strings.TrimSuffix(rest, "/analyze")
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	return id, analyze, err
}

func (h *Handlers) respond(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *Handlers) error(w http.ResponseWriter, message string, status int) {
	h.respond(w, map[string]string{"error": message}, status)
}

func (h *Handlers) validationError(w http.ResponseWriter, field, message string) {
	h.respond(w, map[string]interface{}{
		"error":   "validation failed",
		"details": map[string]string{field: message},
	}, http.StatusUnprocessableEntity)
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (req *noteRequest) validate() (field, message string, ok bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "title", "title must not be empty", false
	}
	if utf8.RuneCountInString(req.Content) < minContentLength {
		return "content", "content must be at least 10 characters", false
	}
	return "", "", true
}

// Token exchanges form-encoded credentials for a bearer token.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account := h.users.Authenticate(r.PostFormValue("username"), r.PostFormValue("password"))
	if account == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		h.error(w, "Incorrect username or password", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.Issue(account.Username, auth.DefaultTTL)
	if err != nil {
		h.error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	h.respond(w, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	}, http.StatusOK)
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if field, message, ok := req.validate(); !ok {
		h.validationError(w, field, message)
		return
	}

	label := h.classifier.Classify(req.Content)
	note, err := h.db.CreateNote(req.Title, req.Content, label)
	if err != nil {
		h.error(w, "Failed to create note", http.StatusInternalServerError)
		return
	}

	h.cache.Set(note.ID, note)
	h.respond(w, note, http.StatusCreated)
}

func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		h.validationError(w, "skip", "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		h.validationError(w, "limit", "limit must be a non-negative integer")
		return
	}

	notes, err := h.db.ListNotes(skip, limit)
	if err != nil {
		h.error(w, "Failed to get notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	h.respond(w, notes, http.StatusOK)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request, id int64) {
	if note, ok := h.cache.Get(id); ok {
		h.respond(w, note, http.StatusOK)
		return
	}

	note, err := h.db.GetNote(id)
	if errors.Is(err, db.ErrNotFound) {
		h.error(w, "Note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.error(w, "Failed to get note", http.StatusInternalServerError)
		return
	}

	h.cache.Set(id, note)
	h.respond(w, note, http.StatusOK)
}

// AnalyzeNote recomputes the label for the stored content and persists
// it before responding. Repeating the call without changing content
// yields the same label.
func (h *Handlers) AnalyzeNote(w http.ResponseWriter, r *http.Request, id int64) {
	note, err := h.db.GetNote(id)
	if errors.Is(err, db.ErrNotFound) {
		h.error(w, "Note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.error(w, "Failed to get note", http.StatusInternalServerError)
		return
	}

	label := h.classifier.Classify(note.Content)
	updated, err := h.db.UpdateSentiment(id, label)
	if err != nil {
		h.error(w, "Failed to analyze note", http.StatusInternalServerError)
		return
	}

	h.cache.Set(id, updated)
	h.respond(w, map[string]string{"sentiment": label}, http.StatusOK)
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request, id int64) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if field, message, ok := req.validate(); !ok {
		h.validationError(w, field, message)
		return
	}

	label := h.classifier.Classify(req.Content)
	note, err := h.db.UpdateNote(id, req.Title, req.Content, label)
	if errors.Is(err, db.ErrNotFound) {
		h.error(w, "Note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.error(w, "Failed to update note", http.StatusInternalServerError)
		return
	}

	h.cache.Set(id, note)
	h.respond(w, note, http.StatusOK)
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request, id int64) {
	removed, err := h.db.DeleteNote(id)
	if err != nil {
		h.error(w, "Failed to delete note", http.StatusInternalServerError)
		return
	}
	if !removed {
		h.error(w, "Note not found", http.StatusNotFound)
		return
	}

	h.cache.Invalidate(id)
	h.respond(w, nil, http.StatusNoContent)
}
