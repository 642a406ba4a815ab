package http

import (
	"net/http"

	"github.com/go-chi/render"
)

// successResponse is the uniform success envelope.
type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (successResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// renderData writes data inside the success envelope.
func renderData(w http.ResponseWriter, r *http.Request, data any) {
	render.Status(r, http.StatusOK)
	render.Render(w, r, successResponse{Success: true, Data: data})
}
