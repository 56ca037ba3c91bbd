package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// MockTaskService mocks the service.TaskService interface.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(
	ctx context.Context,
	completed *bool,
	page domain.PageRequest,
) (*service.TaskPageResponse, error) {
	args := m.Called(ctx, completed, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskPageResponse), args.Error(1)
}

func (m *MockTaskService) GetByID(ctx context.Context, id int64) (*service.TaskResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, req service.TaskRequest) (*service.TaskResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) Update(
	ctx context.Context,
	id int64,
	req service.TaskRequest,
) (*service.TaskResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskResponse), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
