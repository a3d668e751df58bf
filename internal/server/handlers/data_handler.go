package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/server/store"
)

// DataHandler serves bulk and partial snapshot reads.
type DataHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewDataHandler builds the data handler.
func NewDataHandler(st *store.Store, logger *zap.Logger) *DataHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHandler{store: st, logger: logger}
}

// Collection key groups per fetch type.
var fetchTypes = map[string][]string{
	"all": {
		store.KeyEggEntries, store.KeyExpenses, store.KeyFeedInventory,
		store.KeyFlockProfile, store.KeyFlockEvents, store.KeyCustomers, store.KeySales,
	},
	"production": {store.KeyEggEntries, store.KeyFeedInventory},
	"expenses":   {store.KeyExpenses},
}

// Get handles GET /api/data?type=all|production|expenses.
func (h *DataHandler) Get(c *gin.Context) {
	fetchType := c.DefaultQuery("type", "all")
	keys, ok := fetchTypes[fetchType]
	if !ok {
		respond(c, http.StatusBadRequest, nil, "unknown data type")
		return
	}

	payload := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		value, err := h.store.Get(c.Request.Context(), key)
		if err != nil {
			h.logger.Error("collection read failed", zap.String("key", key), zap.Error(err))
			respond(c, http.StatusInternalServerError, nil, "storage read failed")
			return
		}
		if value == nil {
			value = emptyDocument(key)
		}
		payload[key] = value
	}

	respondRaw(c, http.StatusOK, payload, "")
}

// emptyDocument returns the zero value for a collection: an empty array, or
// null for the singleton profile. Serving an empty array rather than omitting
// the key matters to clients that distinguish "empty" from "absent".
func emptyDocument(key string) json.RawMessage {
	if key == store.KeyFlockProfile {
		return json.RawMessage("null")
	}
	return json.RawMessage("[]")
}
