package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clibridge/clibridge/internal/bridge"
	"github.com/clibridge/clibridge/internal/config"
)

// ModelList is the OpenAI-style model listing.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelItem `json:"data"`
}

// ModelItem describes one served model.
type ModelItem struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// modelListCreated is a fixed creation timestamp; the model set is static.
const modelListCreated = 1735689600

// ModelsHandler handles GET /v1/models.
func ModelsHandler(w http.ResponseWriter, r *http.Request) {
	entries := bridge.CanonicalModels()

	list := ModelList{
		Object: "list",
		Data:   make([]ModelItem, 0, len(entries)),
	}
	for _, entry := range entries {
		list.Data = append(list.Data, ModelItem{
			ID:      entry.ID,
			Object:  "model",
			Created: modelListCreated,
			OwnedBy: config.AppName,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(list)
}
