package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/argoncube/trackpid/internal/features"
	"github.com/argoncube/trackpid/internal/httputil"
)

// HTTPEngine calls a model server speaking the TF-Serving style JSON
// predict protocol: one instance carrying the dE/dx sequence and the
// variable vector, one prediction row of three scores back.
type HTTPEngine struct {
	url    string
	model  string
	client httputil.Doer
}

// NewHTTPEngine creates an engine for the given predict endpoint. A nil
// client uses http.DefaultClient.
func NewHTTPEngine(url, model string, client httputil.Doer) *HTTPEngine {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPEngine{url: url, model: model, client: client}
}

type predictRequest struct {
	Model     string            `json:"model"`
	Instances []predictInstance `json:"instances"`
}

type predictInstance struct {
	Dedx      []float64 `json:"dedx"`
	Variables []float64 `json:"vars"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// Classify posts the two network inputs and decodes the score vector.
// The variable vector is serialised here, at the inference boundary. The
// only place the seven-float wire order is produced.
func (e *HTTPEngine) Classify(ctx context.Context, in *features.Inputs) (PIDResult, error) {
	payload, err := json.Marshal(predictRequest{
		Model: e.model,
		Instances: []predictInstance{{
			Dedx:      in.Dedx,
			Variables: in.Variables.Slice(),
		}},
	})
	if err != nil {
		return PIDResult{}, fmt.Errorf("encoding predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return PIDResult{}, fmt.Errorf("building predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return PIDResult{}, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PIDResult{}, fmt.Errorf("reading model server response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return PIDResult{}, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var decoded predictResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return PIDResult{}, fmt.Errorf("decoding model server response: %w", err)
	}
	if decoded.Error != "" {
		return PIDResult{}, fmt.Errorf("model server error: %s", decoded.Error)
	}
	if len(decoded.Predictions) != 1 || len(decoded.Predictions[0]) != 3 {
		return PIDResult{}, fmt.Errorf("unexpected prediction shape: %d rows", len(decoded.Predictions))
	}

	row := decoded.Predictions[0]
	result := PIDResult{Muon: row[0], Pion: row[1], Proton: row[2]}
	if !result.IsValid() {
		return PIDResult{}, fmt.Errorf("model returned out-of-range scores: %+v", result)
	}
	return result, nil
}
