package inference

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argoncube/trackpid/internal/features"
	"github.com/argoncube/trackpid/internal/httputil"
)

func testInputs() *features.Inputs {
	return &features.Inputs{
		Dedx: []float64{5, 5, 5},
		Variables: features.FeatureVector{
			NTracks:        1,
			NShowers:       0,
			NGrandchildren: 2,
			DedxMean:       5,
			DedxSigma:      0,
			DeflectionMean: 0.1,
			DeflectionSig:  0.05,
		},
	}
}

func TestHTTPEngineClassify(t *testing.T) {
	t.Parallel()

	mock := (&httputil.Mock{}).Respond(200, `{"predictions":[[0.7,0.2,0.1]]}`)
	engine := NewHTTPEngine("http://model/v1/models/trackpid:predict", "ctp-v1", mock)

	result, err := engine.Classify(context.Background(), testInputs())
	require.NoError(t, err)
	assert.Equal(t, PIDResult{Muon: 0.7, Pion: 0.2, Proton: 0.1}, result)

	best, score := result.Best()
	assert.Equal(t, "muon", best)
	assert.InDelta(t, 0.7, score, 1e-12)

	// The request carries the variable vector in the trained wire order.
	var sent struct {
		Model     string `json:"model"`
		Instances []struct {
			Dedx []float64 `json:"dedx"`
			Vars []float64 `json:"vars"`
		} `json:"instances"`
	}
	require.NoError(t, json.Unmarshal(mock.RequestBody(0), &sent))
	require.Len(t, sent.Instances, 1)
	assert.Equal(t, "ctp-v1", sent.Model)
	assert.Equal(t, []float64{1, 0, 2, 5, 0, 0.1, 0.05}, sent.Instances[0].Vars)
	assert.Equal(t, []float64{5, 5, 5}, sent.Instances[0].Dedx)
}

func TestHTTPEngineErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error status", status: 500, body: `{"error":"model not loaded"}`},
		{name: "error field", status: 200, body: `{"error":"bad shape"}`},
		{name: "wrong row count", status: 200, body: `{"predictions":[]}`},
		{name: "wrong score count", status: 200, body: `{"predictions":[[0.5,0.5]]}`},
		{name: "score out of range", status: 200, body: `{"predictions":[[1.5,-0.3,-0.2]]}`},
		{name: "malformed json", status: 200, body: `{"predictions":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := (&httputil.Mock{}).Respond(tt.status, tt.body)
			engine := NewHTTPEngine("http://model/predict", "ctp-v1", mock)
			_, err := engine.Classify(context.Background(), testInputs())
			assert.Error(t, err)
		})
	}
}

func TestPIDResultValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, PIDResult{Muon: 0.3, Pion: 0.3, Proton: 0.4}.IsValid())
	assert.False(t, PIDResult{Muon: -0.1, Pion: 0.5, Proton: 0.6}.IsValid())
	assert.False(t, PIDResult{Muon: 1.2, Pion: 0, Proton: 0}.IsValid())
}
