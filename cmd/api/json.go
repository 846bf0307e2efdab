package main

import (
	"encoding/json"
	"net/http"

	"github.com/haldies/olist-dashboard/internal/response"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(response.APIResponse[any]{Success: true, Data: data})
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(&response.ErrorResponse{Error: message})
}
