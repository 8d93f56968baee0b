package notes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"notesapp/internal/auth"
	"notesapp/internal/respond"
	"notesapp/views"
	"notesapp/views/models"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// AddNote handles POST /add-note
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	var input AddNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Message(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), input)
	if err != nil {
		respond.Error(w, r, h.log, "add note", err)
		return
	}

	respond.JSON(w, map[string]any{
		"note": note,
		"msg":  "Note added Successfully",
	}, http.StatusOK)
}

// EditNote handles PUT /edit-note/{noteId}
func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	var input EditNoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Message(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	note, err := h.svc.Edit(r.Context(), auth.UserID(r.Context()), r.PathValue("noteId"), input)
	if err != nil {
		respond.Error(w, r, h.log, "edit note", err)
		return
	}

	respond.JSON(w, map[string]any{
		"note": note,
		"msg":  "Updated note Successfully",
	}, http.StatusOK)
}

// ListNotes handles GET /get-all-notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Error(w, r, h.log, "list notes", err)
		return
	}

	respond.JSON(w, map[string]any{
		"notes": notes,
		"msg":   "All notes retrieved Successfully",
	}, http.StatusOK)
}

// SearchNotes handles GET /search-notes?query=
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.Search(r.Context(), auth.UserID(r.Context()), r.URL.Query().Get("query"))
	if err != nil {
		respond.Error(w, r, h.log, "search notes", err)
		return
	}

	respond.JSON(w, map[string]any{
		"notes": notes,
		"msg":   "Notes matching the search query retrieved Successfully",
	}, http.StatusOK)
}

// DeleteNote handles DELETE /delete-note/{noteId}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), r.PathValue("noteId"))
	if err != nil {
		respond.Error(w, r, h.log, "delete note", err)
		return
	}

	respond.Message(w, "Note deleted Successfully", http.StatusOK)
}

// UpdatePinned handles PUT /update-note-pinned/{noteId}
func (h *Handler) UpdatePinned(w http.ResponseWriter, r *http.Request) {
	var input PinInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Message(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if input.IsPinned == nil {
		respond.Message(w, "isPinned is required", http.StatusBadRequest)
		return
	}

	note, err := h.svc.SetPinned(r.Context(), auth.UserID(r.Context()), r.PathValue("noteId"), *input.IsPinned)
	if err != nil {
		respond.Error(w, r, h.log, "update note pin", err)
		return
	}

	respond.JSON(w, map[string]any{
		"note": note,
		"msg":  "Updated Note Pin Successfully",
	}, http.StatusOK)
}

// ViewNote handles GET /view-note/{noteId} with a rendered HTML page
func (h *Handler) ViewNote(w http.ResponseWriter, r *http.Request) {
	note, body, err := h.svc.Render(r.Context(), auth.UserID(r.Context()), r.PathValue("noteId"))
	if err != nil {
		respond.Error(w, r, h.log, "view note", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	view := models.NoteView{
		ID:        note.ID.Hex(),
		Title:     note.Title,
		Tags:      note.Tags,
		Pinned:    note.IsPinned,
		CreatedOn: note.CreatedOn,
		UpdatedOn: note.UpdatedOn,
		BodyHTML:  body,
	}
	if err := views.NotePage(view).Render(r.Context(), w); err != nil {
		h.log.ErrorContext(r.Context(), "failed to render note page", "error", err)
	}
}
