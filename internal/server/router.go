package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manuscriptlabs/manuscript/internal/diff"
	"github.com/manuscriptlabs/manuscript/internal/merge"
	"github.com/manuscriptlabs/manuscript/internal/store"
)

var (
	errMissingStore  = errors.New("version store dependency required")
	errMissingEngine = errors.New("merge engine dependency required")
)

// Dependencies carries the collaborators of the HTTP handler.
type Dependencies struct {
	Store  *store.Store
	Engine *merge.Engine
	Logger *zap.Logger
}

// NewHTTPHandler builds the document API router. The handler is a thin
// consumer of the store and merge engine; it never touches the on-disk
// layout itself.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Store == nil {
		return nil, errMissingStore
	}
	if deps.Engine == nil {
		return nil, errMissingEngine
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		store:  deps.Store,
		engine: deps.Engine,
		logger: logger,
	}

	router.POST("/documents", handler.handleCreate)
	router.GET("/documents", handler.handleList)
	router.GET("/documents/:id", handler.handleRead)
	router.POST("/documents/:id/versions", handler.handleAppendVersion)
	router.PUT("/documents/:id/current", handler.handleSetActiveVersion)
	router.DELETE("/documents/:id", handler.handleDelete)
	router.GET("/documents/:id/history", handler.handleHistory)
	router.GET("/documents/:id/diff", handler.handleDiff)
	router.GET("/documents/:id/diff/html", handler.handleDiffHTML)
	router.POST("/documents/:id/branches", handler.handleCreateBranch)
	router.POST("/documents/:id/merge", handler.handleMerge)
	router.POST("/resolve", handler.handleResolve)

	return router, nil
}

type httpHandler struct {
	store  *store.Store
	engine *merge.Engine
	logger *zap.Logger
}

type createRequestPayload struct {
	Content     string `json:"content"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

func (h *httpHandler) handleCreate(c *gin.Context) {
	var request createRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	id, err := h.store.Create(request.Content, request.Name, request.ContentType)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *httpHandler) handleList(c *gin.Context) {
	summaries, err := h.store.List()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": summaries})
}

type readResponsePayload struct {
	Content  string         `json:"content"`
	Metadata store.Metadata `json:"metadata"`
}

func (h *httpHandler) handleRead(c *gin.Context) {
	version, ok := h.versionQuery(c, "version")
	if !ok {
		return
	}

	content, meta, err := h.store.Read(c.Param("id"), version)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, readResponsePayload{Content: content, Metadata: meta})
}

type appendRequestPayload struct {
	Content           string `json:"content"`
	ChangeDescription string `json:"change_description"`
}

func (h *httpHandler) handleAppendVersion(c *gin.Context) {
	var request appendRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	version, err := h.store.AppendVersion(c.Param("id"), request.Content, request.ChangeDescription)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"version": version})
}

type setActiveRequestPayload struct {
	Version int `json:"version"`
}

func (h *httpHandler) handleSetActiveVersion(c *gin.Context) {
	var request setActiveRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := h.store.SetActiveVersion(c.Param("id"), request.Version); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_version": request.Version})
}

func (h *httpHandler) handleDelete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleHistory(c *gin.Context) {
	records, err := h.store.History(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": records})
}

type diffSpanPayload struct {
	Op       string   `json:"op"`
	OldStart int      `json:"old_start"`
	NewStart int      `json:"new_start"`
	Items    []string `json:"items"`
}

func (h *httpHandler) handleDiff(c *gin.Context) {
	id := c.Param("id")
	from, to, ok := h.diffVersions(c)
	if !ok {
		return
	}

	oldContent, _, err := h.store.Read(id, from)
	if err != nil {
		h.writeError(c, err)
		return
	}
	newContent, _, err := h.store.Read(id, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var spans []diff.Span
	switch c.DefaultQuery("mode", "lines") {
	case "lines":
		spans = diff.Lines(oldContent, newContent)
	case "words":
		spans = diff.Words(oldContent, newContent)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_mode"})
		return
	}

	payload := make([]diffSpanPayload, 0, len(spans))
	for _, span := range spans {
		payload = append(payload, diffSpanPayload{
			Op:       span.Op.String(),
			OldStart: span.OldStart,
			NewStart: span.NewStart,
			Items:    span.Items,
		})
	}

	c.JSON(http.StatusOK, gin.H{"spans": payload})
}

func (h *httpHandler) handleDiffHTML(c *gin.Context) {
	id := c.Param("id")
	from, to, ok := h.diffVersions(c)
	if !ok {
		return
	}

	oldContent, _, err := h.store.Read(id, from)
	if err != nil {
		h.writeError(c, err)
		return
	}
	newContent, _, err := h.store.Read(id, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	page, err := diff.RenderHTML(oldContent, newContent,
		"Version "+strconv.Itoa(from), "Version "+strconv.Itoa(to), diff.DefaultContext)
	if err != nil {
		h.logger.Error("diff rendering failed", zap.Error(err), zap.String("document_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render_failed"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

type branchRequestPayload struct {
	Name        string `json:"name"`
	FromVersion int    `json:"from_version"`
}

func (h *httpHandler) handleCreateBranch(c *gin.Context) {
	var request branchRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	branchID, err := h.engine.CreateBranch(c.Param("id"), request.Name, request.FromVersion)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": branchID})
}

type mergeRequestPayload struct {
	SourceID      string `json:"source_id"`
	SourceVersion int    `json:"source_version"`
}

type mergeResponsePayload struct {
	Content   string           `json:"content"`
	Conflicts []merge.Conflict `json:"conflicts"`
}

func (h *httpHandler) handleMerge(c *gin.Context) {
	var request mergeRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.SourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	content, conflicts, err := h.engine.Merge(c.Param("id"), request.SourceID, request.SourceVersion)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if conflicts == nil {
		conflicts = []merge.Conflict{}
	}
	c.JSON(http.StatusOK, mergeResponsePayload{Content: content, Conflicts: conflicts})
}

type resolveRequestPayload struct {
	Content     string                      `json:"content"`
	Resolutions map[string]merge.Resolution `json:"resolutions"`
}

func (h *httpHandler) handleResolve(c *gin.Context) {
	var request resolveRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	resolved, err := merge.Resolve(request.Content, request.Resolutions)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": resolved})
}

func (h *httpHandler) versionQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_version"})
		return 0, false
	}
	return version, true
}

func (h *httpHandler) diffVersions(c *gin.Context) (int, int, bool) {
	from, err := strconv.Atoi(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_version"})
		return 0, 0, false
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_version"})
		return 0, 0, false
	}
	return from, to, true
}

func (h *httpHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "document_not_found"})
	case errors.Is(err, store.ErrVersionRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "version_out_of_range"})
	case errors.Is(err, store.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_name"})
	case errors.Is(err, merge.ErrMalformedConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed_conflict"})
	case errors.Is(err, merge.ErrInvalidResolution):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_resolution"})
	default:
		h.logger.Error("storage operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failure"})
	}
}
