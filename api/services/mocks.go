package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/reto140/reto140-api/db"
	"github.com/reto140/reto140-api/models"
)

// MockFitnessStore satisfies both UserStore and GroupStore for service tests.
type MockFitnessStore struct {
	mock.Mock
}

func (m *MockFitnessStore) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockFitnessStore) UpdateStreak(ctx context.Context, userID uuid.UUID, increment bool) (int, error) {
	args := m.Called(ctx, userID, increment)
	return args.Int(0), args.Error(1)
}

func (m *MockFitnessStore) AddWorkout(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockFitnessStore) GetWorkoutTotals(ctx context.Context, userID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockFitnessStore) CreateGroup(ctx context.Context, params db.CreateGroupParams) (*models.Group, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockFitnessStore) JoinGroup(ctx context.Context, code string, userID uuid.UUID) (*models.JoinedGroup, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JoinedGroup), args.Error(1)
}

func (m *MockFitnessStore) ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.GroupSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GroupSummary), args.Error(1)
}

func (m *MockFitnessStore) GetGroupDetails(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupDetails, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupDetails), args.Error(1)
}

func (m *MockFitnessStore) LeaveGroup(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}
