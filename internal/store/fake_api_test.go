package store

import (
	"context"
	"encoding/json"
	"sync"
)

type apiCall struct {
	method string
	path   string
	body   any
}

// fakeAPI is a scripted API port for store tests. The respond function
// decides the outcome per call; jsonInto writes a canned payload into the
// caller's out value the way the real adapter would.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	token   string
	respond func(method, path string, body, out any) error
}

func (f *fakeAPI) Do(ctx context.Context, method, path string, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, path: path, body: body})
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return nil
	}
	return respond(method, path, body, out)
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]apiCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func jsonInto(out, v any) error {
	if out == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func rawInto(out any, payload string) error {
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(payload), out)
}
