package mocks

import (
	"context"
	"errors"
	"sync"

	"olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"
)

var ErrUnreachable = errors.New("source unreachable")

// MockOlympClient serves fixed pages by URL. Unknown URLs fail.
type MockOlympClient struct {
	mu    sync.Mutex
	pages map[string]olymp.Page
	calls map[string]int
}

func NewMockOlympClient(pages map[string]olymp.Page) *MockOlympClient {
	return &MockOlympClient{
		mu:    sync.Mutex{},
		pages: pages,
		calls: map[string]int{},
	}
}

func (m *MockOlympClient) Fetch(_ context.Context, url string) (*olymp.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[url]++

	page, ok := m.pages[url]
	if !ok {
		return nil, ErrUnreachable
	}

	page.URL = url
	return &page, nil
}

func (m *MockOlympClient) SetPage(url string, page olymp.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pages[url] = page
}

func (m *MockOlympClient) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls[url]
}
