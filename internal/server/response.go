package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// ServiceResponse is the wire envelope every endpoint answers with.
type ServiceResponse struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, ServiceResponse{
		Data:    data,
		Success: true,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ServiceResponse{
		Success: false,
		Message: message,
	})
}

func respondJSON(w http.ResponseWriter, status int, body ServiceResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
