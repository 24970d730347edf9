package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/gesture"
)

// Evaluator classifies one frame. *gesture.Classifier implements it.
type Evaluator interface {
	Evaluate(present bool, landmarks []detector.Point3D) (gesture.Result, error)
}

// GestureHandler serves the label table and on-demand classification.
type GestureHandler struct {
	classifier Evaluator
}

// NewGestureHandler creates a GestureHandler using c.
func NewGestureHandler(c Evaluator) *GestureHandler {
	return &GestureHandler{classifier: c}
}

type labelResponse struct {
	Label      string `json:"label"`
	Pattern    string `json:"pattern,omitempty"`
	ThumbNear  bool   `json:"thumb_near,omitempty"`
	Actionable bool   `json:"actionable"`
}

type listLabelsResponse struct {
	Labels []labelResponse `json:"labels"`
}

// Labels handles GET /api/labels. Patterns read thumb first: 'O' open,
// '-' closed, '*' either.
func (h *GestureHandler) Labels(w http.ResponseWriter, r *http.Request) {
	labels := gesture.Labels()
	response := listLabelsResponse{Labels: make([]labelResponse, 0, len(labels))}
	for _, l := range labels {
		pattern, near := gesture.Pattern(l)
		response.Labels = append(response.Labels, labelResponse{
			Label:      string(l),
			Pattern:    pattern,
			ThumbNear:  near,
			Actionable: l.Actionable(),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type classifyRequest struct {
	// Present defaults to whether any landmarks were sent.
	Present   *bool              `json:"present"`
	Landmarks []detector.Point3D `json:"landmarks"`
}

type classifyResponse struct {
	Label   string              `json:"label"`
	Fingers string              `json:"fingers,omitempty"`
	State   gesture.FingerState `json:"state"`
}

// Classify handles POST /api/classify.
func (h *GestureHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	present := len(req.Landmarks) > 0
	if req.Present != nil {
		present = *req.Present
	}

	res, err := h.classifier.Evaluate(present, req.Landmarks)
	if errors.Is(err, gesture.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to classify")
		return
	}

	resp := classifyResponse{Label: string(res.Label), State: res.Fingers}
	if res.Label != gesture.NoHand {
		resp.Fingers = res.Fingers.String()
	}
	writeJSON(w, http.StatusOK, resp)
}
