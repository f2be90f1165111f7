package request

import "strings"

// ByIDRequest binds the :id path parameter shared by the booking endpoints.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Normalize lower-cases the ID so it matches the canonical text form postgres returns for uuid columns.
func (r *ByIDRequest) Normalize() {
	r.ID = strings.ToLower(r.ID)
}
