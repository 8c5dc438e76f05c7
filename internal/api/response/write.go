package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// PaginationHeader carries paging metadata alongside a bare JSON array body
const PaginationHeader = "X-Pagination"

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Created writes a 201 with a Location header and a JSON body
func Created(w http.ResponseWriter, location string, data any) {
	w.Header().Set("Location", location)
	JSON(w, http.StatusCreated, data)
}

// SetPagination encodes p into the X-Pagination header
// Must be called before the status line is written
func SetPagination(w http.ResponseWriter, p Pagination) error {
	header, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pagination: %w", err)
	}
	w.Header().Set(PaginationHeader, string(header))
	return nil
}

// NoContent writes a 204 with no body
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// NotModified writes a 304; validators such as ETag must already be set
func NotModified(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotModified)
}
