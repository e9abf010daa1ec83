package server

import "github.com/codalotl/blobdiff/internal/presentation"

type diffRequest struct {
	Current  *string `json:"current" binding:"required"`
	Previous *string `json:"previous" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// MarkerJSON is the JSON form of presentation.Marker.
type MarkerJSON struct {
	StartRow int    `json:"start_row"`
	StartCol int    `json:"start_col"`
	EndRow   int    `json:"end_row"`
	EndCol   int    `json:"end_col"`
	Style    string `json:"style"`
}

// DiffResponse is the JSON form of a presentation. It lists value and markers in [current, previous] order. row_mapping keys are current rows; absent rows have no counterpart.
type DiffResponse struct {
	CurrentID  string          `json:"current_id,omitempty"`
	PreviousID string          `json:"previous_id,omitempty"`
	Changed    bool            `json:"changed"`
	Value      [2]string       `json:"value"`
	Markers    [2][]MarkerJSON `json:"markers"`
	RowMapping map[int]int     `json:"row_mapping"`
}

// NewDiffResponse converts p. Marker lists are never null.
func NewDiffResponse(p presentation.Presentation) DiffResponse {
	resp := DiffResponse{
		Changed:    p.Changed(),
		Value:      p.Value,
		RowMapping: p.RowMapping.Entries(),
	}
	for side := range p.Markers {
		resp.Markers[side] = make([]MarkerJSON, 0, len(p.Markers[side]))
		for _, m := range p.Markers[side] {
			resp.Markers[side] = append(resp.Markers[side], MarkerJSON{
				StartRow: m.StartRow,
				StartCol: m.StartCol,
				EndRow:   m.EndRow,
				EndCol:   m.EndCol,
				Style:    m.Style(),
			})
		}
	}
	return resp
}
