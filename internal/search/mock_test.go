package search

import (
	"context"
	"errors"

	"github.com/zetasearch/zeta/internal/esclient"
)

// mockClient replays canned responses in call order and records the bodies
// it was asked to run.
type mockClient struct {
	responses []*esclient.Response
	err       error
	pingOK    bool
	bodies    []map[string]interface{}
	calls     int
}

func (m *mockClient) Ping(ctx context.Context) bool { return m.pingOK }

func (m *mockClient) Search(ctx context.Context, index string, body map[string]interface{}) (*esclient.Response, error) {
	m.bodies = append(m.bodies, body)
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &esclient.Response{}, nil
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func (m *mockClient) BulkIndex(ctx context.Context, index string, docs []esclient.Document) (esclient.BulkStats, error) {
	return esclient.BulkStats{}, errors.New("not implemented")
}

func (m *mockClient) ScrollPages(ctx context.Context, index string, body map[string]interface{}, size int, fn func([]esclient.Hit) error) error {
	return errors.New("not implemented")
}

func (m *mockClient) EnsureIndex(ctx context.Context, index string, mapping string) error {
	return nil
}

func (m *mockClient) Refresh(ctx context.Context, index string) error { return nil }
