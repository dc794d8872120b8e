// Package httputil abstracts the HTTP client used by the inference engine
// so tests can serve canned model responses without a network.
package httputil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Doer is the subset of *http.Client the inference client needs.
// Use http.DefaultClient in production and *Mock in tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Mock is a Doer that records every request and replays canned responses
// in order. Once the canned responses are exhausted it returns Err, or a
// generic failure if Err is nil.
type Mock struct {
	mu        sync.Mutex
	Requests  []*http.Request
	bodies    [][]byte // request bodies, captured at Do time
	responses []mockResponse
	Err       error
}

type mockResponse struct {
	status int
	body   string
}

// Respond queues a canned response with the given status and body.
func (m *Mock) Respond(status int, body string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{status: status, body: body})
	return m
}

// Do records the request and pops the next canned response.
func (m *Mock) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	m.Requests = append(m.Requests, req)
	m.bodies = append(m.bodies, body)

	if len(m.responses) == 0 {
		if m.Err != nil {
			return nil, m.Err
		}
		return nil, fmt.Errorf("mock: no canned response for %s %s", req.Method, req.URL)
	}
	next := m.responses[0]
	m.responses = m.responses[1:]

	return &http.Response{
		StatusCode: next.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(next.body))),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// RequestBody returns the captured body of the i-th request.
func (m *Mock) RequestBody(i int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.bodies) {
		return nil
	}
	return m.bodies[i]
}
