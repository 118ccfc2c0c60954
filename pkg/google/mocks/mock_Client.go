// Package mocks provides test doubles for the google client.
package mocks

import (
	"context"

	google "github.com/sells-group/prospect-cli/pkg/google"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, query, num
func (_m *MockClient) Search(ctx context.Context, query string, num int) (*google.SearchResponse, error) {
	ret := _m.Called(ctx, query, num)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *google.SearchResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) (*google.SearchResponse, error)); ok {
		return rf(ctx, query, num)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*google.SearchResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// TextSearch provides a mock function with given fields: ctx, query
func (_m *MockClient) TextSearch(ctx context.Context, query string) (*google.TextSearchResponse, error) {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for TextSearch")
	}

	var r0 *google.TextSearchResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*google.TextSearchResponse, error)); ok {
		return rf(ctx, query)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*google.TextSearchResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
