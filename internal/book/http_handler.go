package book

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

// BookService is the part of *Service the HTTP layer depends on.
type BookService interface {
	CreateBook(ctx context.Context, in BookInput) (int64, error)
	ReadBook(ctx context.Context, id int64) (BookReadView, error)
	EditBook(ctx context.Context, id int64) (BookEditView, error)
	UpdateBook(ctx context.Context, id int64, in BookInput) error
	DeleteBook(ctx context.Context, id int64) error
	SearchBooks(ctx context.Context, p SearchParams) ([]BookListView, error)
}

// CommentCreator is the part of *CommentService the HTTP layer depends on.
type CommentCreator interface {
	CreateComment(ctx context.Context, in CommentInput) (CommentView, error)
}

type HTTPHandler struct {
	books    BookService
	comments CommentCreator
}

func NewHTTPHandler(books BookService, comments CommentCreator) *HTTPHandler {
	return &HTTPHandler{books: books, comments: comments}
}

// Register mounts the catalog routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/books", h.Create)
	mux.HandleFunc("GET /v1/books", h.Search)
	mux.HandleFunc("GET /v1/books/{id}", h.Read)
	mux.HandleFunc("GET /v1/books/{id}/edit", h.Edit)
	mux.HandleFunc("PUT /v1/books/{id}", h.Update)
	mux.HandleFunc("DELETE /v1/books/{id}", h.Delete)
	mux.HandleFunc("POST /v1/comments", h.CreateComment)
}

// Create handles POST /v1/books
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in BookInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Malformed JSON body", nil)
		return
	}

	id, err := h.books.CreateBook(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, map[string]int64{"id": id})
}

// Search handles GET /v1/books
// @Summary Search books by title
// @Tags books
// @Produce json
// @Param title query string false "Title substring"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Items per page" default(10)
// @Param direction query string false "ASC or DESC" default(ASC)
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/books [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := SearchParams{
		Title:     query.Get("title"),
		Page:      optionalInt(query.Get("page")),
		Size:      optionalInt(query.Get("size")),
		Direction: ParseDirection(query.Get("direction")),
	}

	books, err := h.books.SearchBooks(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := NewPageRequest(params.Page, params.Size, params.Direction)
	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":      page.Index + 1,
		"size":      page.Size,
		"direction": page.Direction,
	})
}

// Read handles GET /v1/books/{id}
// @Summary Get a book with its comments
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := h.books.ReadBook(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Edit handles GET /v1/books/{id}/edit
func (h *HTTPHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := h.books.EditBook(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Update handles PUT /v1/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in BookInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Malformed JSON body", nil)
		return
	}
	if err := h.books.UpdateBook(r.Context(), id, in); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.books.DeleteBook(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// CreateComment handles POST /v1/comments
// @Summary Comment on a book
// @Tags comments
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/comments [post]
func (h *HTTPHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in CommentInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Malformed JSON body", nil)
		return
	}
	view, err := h.comments.CreateComment(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, view)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// optionalInt parses s, treating empty or malformed input as absent.
func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			details = append(details, httpx.ErrorDetail{Field: v.Field, Message: v.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
	case errors.Is(err, ErrInvalidReference):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "INVALID_REFERENCE", "Book does not exist", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	default:
		log.Printf("request failed: request_id=%s method=%s path=%s error=%v",
			httpx.RequestIDFrom(r), r.Method, r.URL.Path, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
