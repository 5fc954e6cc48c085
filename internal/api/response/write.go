package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the JSON response body under the given status.
// A nil data writes headers only.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	// Encode failures past WriteHeader cannot change the response
	_ = json.NewEncoder(w).Encode(data)
}
