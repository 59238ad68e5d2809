// api/handlers/schema_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-schemas/config"
	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/dispatch"
	"github.com/Annany2002/nebula-schemas/internal/forms"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/storage"
)

var customLog = logger.NewLogger()

// Page templates.
const (
	listTemplate   = "all_schemas.html"
	schemaTemplate = "schema_create_update.html"
	detailTemplate = "column_detail.html"
)

// maxFormBytes returns the body limit, falling back to the default when unset.
func (h *SchemaHandler) maxFormBytes() int64 {
	if h.Cfg == nil || h.Cfg.MaxFormBytes <= 0 {
		return config.DefaultMaxFormBytes
	}
	return h.Cfg.MaxFormBytes
}

// SchemaHandler serves the schema list and the schema edit pages.
type SchemaHandler struct {
	DB         *sql.DB
	Cfg        *config.Config
	Dispatcher *dispatch.Dispatcher
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(db *sql.DB, cfg *config.Config, d *dispatch.Dispatcher) *SchemaHandler {
	return &SchemaHandler{DB: db, Cfg: cfg, Dispatcher: d}
}

func parseSchemaID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		customLog.Warnf("Handler: Invalid schema id in path '%s'", raw)
		return 0, apperrors.NewNotFoundError(storage.ResourceSchema, id)
	}
	return id, nil
}

// ListSchemas renders every schema with its modified date.
func (h *SchemaHandler) ListSchemas(c *gin.Context) {
	schemas, err := storage.ListSchemas(c.Request.Context(), h.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.HTML(http.StatusOK, listTemplate, gin.H{"Schemas": schemas})
}

// DeleteSchema deletes a schema and its columns, then goes back to the list.
func (h *SchemaHandler) DeleteSchema(c *gin.Context) {
	id, err := parseSchemaID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := storage.DeleteSchema(c.Request.Context(), h.DB, id); err != nil {
		_ = c.Error(err)
		return
	}
	customLog.Printf("Handler: Deleted schema %d", id)
	c.Redirect(http.StatusFound, "/")
}

// RedirectHome sends GET requests on the edit pages back to the list.
func (h *SchemaHandler) RedirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

// EditSchema handles POST /schema/:id/ and POST /create_schema/: it runs the
// fired action and renders the resulting page.
func (h *SchemaHandler) EditSchema(c *gin.Context) {
	ctx := c.Request.Context()

	// --- Resolve the schema from the path ---
	// /create_schema/ has no id; the form builder creates the draft.
	var pathID *int64
	if c.Param("id") != "" {
		id, err := parseSchemaID(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if _, err := storage.GetSchema(ctx, h.DB, id); err != nil {
			if apperrors.IsNotFound(err) {
				c.Redirect(http.StatusFound, "/") // Deleted meanwhile, back to the list
				return
			}
			_ = c.Error(err)
			return
		}
		pathID = &id
	}

	// --- Read the raw body; key order decides the action ---
	limit := h.maxFormBytes()
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			customLog.Warnf("Handler: Form body over %d bytes rejected", limit)
			_ = c.Error(apperrors.NewTooLargeError(limit))
			return
		}
		_ = c.Error(apperrors.NewServerError("failed to read form body", err))
		return
	}
	payload, err := forms.ParsePayload(string(body))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}

	// --- Dispatch the fired action ---
	res, err := h.Dispatcher.Dispatch(ctx, pathID, payload)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// --- Render ---
	// A returned form carries field errors (or is the detail form); otherwise
	// the schema form is rebuilt from what is stored now.
	switch {
	case res.Detail != nil:
		c.HTML(http.StatusOK, detailTemplate, gin.H{"Detail": res.Detail})
	case res.Schema != nil:
		c.HTML(http.StatusOK, schemaTemplate, gin.H{"Form": res.Schema})
	default:
		form, err := forms.Build(ctx, h.DB, res.SchemaID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				c.Redirect(http.StatusFound, "/")
				return
			}
			_ = c.Error(err)
			return
		}
		c.HTML(http.StatusOK, schemaTemplate, gin.H{"Form": form})
	}
}
