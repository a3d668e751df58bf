package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/server/store"
)

// Operations accepted on the crud endpoint, mapped to storage keys.
var operations = map[string]string{
	"eggs":         store.KeyEggEntries,
	"expenses":     store.KeyExpenses,
	"feed":         store.KeyFeedInventory,
	"flockProfile": store.KeyFlockProfile,
	"flockEvents":  store.KeyFlockEvents,
	"customers":    store.KeyCustomers,
	"sales":        store.KeySales,
}

// CrudHandler serves upserts and deletes against the collection store.
type CrudHandler struct {
	store  *store.Store
	logger *zap.Logger
	newID  func() string
}

// NewCrudHandler builds the crud handler. Permanent record ids are UUIDs.
func NewCrudHandler(st *store.Store, logger *zap.Logger) *CrudHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CrudHandler{store: st, logger: logger, newID: uuid.NewString}
}

// Upsert handles POST and PUT /api/crud?operation=<collection>. The body is
// either an array of records or a single record; the flock profile is a
// single object replaced wholesale.
func (h *CrudHandler) Upsert(c *gin.Context) {
	key, ok := operations[c.Query("operation")]
	if !ok {
		respond(c, http.StatusBadRequest, nil, "unknown operation")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond(c, http.StatusBadRequest, nil, "unreadable request body")
		return
	}

	if key == store.KeyFlockProfile {
		h.replaceProfile(c, key, body)
		return
	}

	incoming, err := decodeRecords(body)
	if err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	existing, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("collection read failed", zap.String("key", key), zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage read failed")
		return
	}

	updated, err := store.UpsertRecords(existing, incoming, h.newID)
	if err != nil {
		h.logger.Error("collection merge failed", zap.String("key", key), zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage merge failed")
		return
	}

	if err := h.store.Put(c.Request.Context(), key, updated); err != nil {
		h.logger.Error("collection write failed", zap.String("key", key), zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage write failed")
		return
	}

	respond(c, http.StatusOK, nil, "saved")
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Delete handles DELETE /api/crud?operation=<collection> with body {id}.
func (h *CrudHandler) Delete(c *gin.Context) {
	key, ok := operations[c.Query("operation")]
	if !ok || key == store.KeyFlockProfile {
		respond(c, http.StatusBadRequest, nil, "unknown operation")
		return
	}

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		respond(c, http.StatusBadRequest, nil, "id is required")
		return
	}

	existing, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.logger.Error("collection read failed", zap.String("key", key), zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage read failed")
		return
	}

	updated, found, err := store.DeleteRecord(existing, req.ID)
	if err != nil {
		h.logger.Error("collection decode failed", zap.String("key", key), zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage decode failed")
		return
	}
	if !found {
		respond(c, http.StatusNotFound, nil, "record not found")
		return
	}

	if err := h.store.Put(c.Request.Context(), key, updated); err != nil {
		h.logger.Error("collection write failed", zap.String("key", key), zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage write failed")
		return
	}

	respond(c, http.StatusOK, nil, "deleted")
}

func (h *CrudHandler) replaceProfile(c *gin.Context, key string, body []byte) {
	var profile map[string]any
	if err := json.Unmarshal(body, &profile); err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	if err := h.store.Put(c.Request.Context(), key, body); err != nil {
		h.logger.Error("profile write failed", zap.Error(err))
		respond(c, http.StatusInternalServerError, nil, "storage write failed")
		return
	}
	respond(c, http.StatusOK, nil, "saved")
}

// decodeRecords accepts an array of records or a single record.
func decodeRecords(body []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var single map[string]any
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []map[string]any{single}, nil
}
