// Package handlers implements the HTTP handlers for the resale-router API.
package handlers

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
