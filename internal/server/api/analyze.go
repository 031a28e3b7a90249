package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ravin/steadyhead/internal/app"
	"github.com/ravin/steadyhead/internal/detect"
	"github.com/ravin/steadyhead/internal/swing"
)

// AnalyzeHandler starts analysis runs over HTTP.
type AnalyzeHandler struct {
	app *app.App
}

// NewAnalyzeHandler creates a new AnalyzeHandler with the given app.
func NewAnalyzeHandler(a *app.App) *AnalyzeHandler {
	return &AnalyzeHandler{app: a}
}

type pointPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type analyzeRequest struct {
	VideoPath  string       `json:"video_path"`
	OutputPath string       `json:"output_path"`
	Head       pointPayload `json:"head"`
	Shoulder   pointPayload `json:"shoulder"`
	Hip        pointPayload `json:"hip"`
	Radius     int          `json:"radius"`
	GateRadius float64      `json:"gate_radius"`
	Workers    int          `json:"workers"`
}

// ServeHTTP handles POST /api/analyze. The request blocks until the
// video is fully processed and responds with the stored run.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VideoPath == "" {
		writeError(w, http.StatusBadRequest, "video_path is required")
		return
	}

	run, err := h.app.Analyze(app.Request{
		VideoPath:  req.VideoPath,
		OutputPath: req.OutputPath,
		Head:       detect.Point{X: req.Head.X, Y: req.Head.Y},
		Shoulder:   detect.Point{X: req.Shoulder.X, Y: req.Shoulder.Y},
		Hip:        detect.Point{X: req.Hip.X, Y: req.Hip.Y},
		Radius:     req.Radius,
		GateRadius: req.GateRadius,
		Workers:    req.Workers,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrBusy):
			writeError(w, http.StatusConflict, "Analysis already running")
		case errors.Is(err, swing.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, run)
}
