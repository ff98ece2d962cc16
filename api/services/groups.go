package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/reto140/reto140-api/api/middleware"
	"github.com/reto140/reto140-api/db"
	"github.com/reto140/reto140-api/internal/appconfig"
	"github.com/reto140/reto140-api/models"
)

// defaultMaxMembers caps a group when the creator does not choose a limit.
const defaultMaxMembers = 50

// GroupStore is the slice of the store the group service depends on.
type GroupStore interface {
	CreateGroup(ctx context.Context, params db.CreateGroupParams) (*models.Group, error)
	JoinGroup(ctx context.Context, code string, userID uuid.UUID) (*models.JoinedGroup, error)
	ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.GroupSummary, error)
	GetGroupDetails(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupDetails, error)
	LeaveGroup(ctx context.Context, groupID, userID uuid.UUID) error
}

// GroupService serves group lifecycle and membership endpoints.
type GroupService struct {
	Config *appconfig.Config
	DB     GroupStore
}

// CreateGroupService creates a group with the caller as its first admin.
func (s *GroupService) CreateGroupService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req models.CreateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
	}

	if len(req.Name) < 3 {
		WriteErrResponse(w, http.StatusBadRequest, "group name must be at least 3 characters", "")
		return
	}
	if err := validate.Struct(req); err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	maxMembers := req.MaxMembers
	if maxMembers == 0 {
		maxMembers = defaultMaxMembers
	}

	group, err := s.DB.CreateGroup(r.Context(), db.CreateGroupParams{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   principal.ID,
		MaxMembers:  maxMembers,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	// The creator is the sole admin, so the count and role are known without
	// a second read.
	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Group models.CreatedGroup `json:"group"`
	}{
		Response: models.Response{Message: "group created successfully"},
		Group: models.CreatedGroup{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			Code:        group.Code,
			MaxMembers:  group.MaxMembers,
			IsPublic:    group.IsPublic,
			CreatedAt:   group.CreatedAt,
			MemberCount: 1,
			Role:        models.RoleAdmin,
		},
	})
}

// JoinGroupService adds the caller to the group matching the submitted code.
func (s *GroupService) JoinGroupService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req models.JoinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		WriteErrResponse(w, http.StatusBadRequest, "group code required", "")
		return
	}

	joined, err := s.DB.JoinGroup(r.Context(), code, principal.ID)
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Group models.JoinedGroup `json:"group"`
	}{
		Response: models.Response{Message: fmt.Sprintf("you have joined %q", joined.Name)},
		Group:    *joined,
	})
}

// GetMyGroupsService lists the caller's active groups, most recently joined
// first.
func (s *GroupService) GetMyGroupsService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	groups, err := s.DB.ListUserGroups(r.Context(), principal.ID)
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Groups      []models.GroupSummary `json:"groups"`
		TotalGroups int                   `json:"totalGroups"`
	}{
		Response:    models.Response{Message: "groups retrieved successfully"},
		Groups:      groups,
		TotalGroups: len(groups),
	})
}

// GetGroupDetailsService returns the full group view, members only.
func (s *GroupService) GetGroupDetailsService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["group-id"])
	if err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid group id", "")
		return
	}

	details, err := s.DB.GetGroupDetails(r.Context(), groupID, principal.ID)
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Group models.GroupDetails `json:"group"`
	}{
		Response: models.Response{Message: "group details retrieved successfully"},
		Group:    *details,
	})
}

// LeaveGroupService removes the caller from the group, promoting a successor
// admin when needed.
func (s *GroupService) LeaveGroupService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["group-id"])
	if err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid group id", "")
		return
	}

	if err := s.DB.LeaveGroup(r.Context(), groupID, principal.ID); err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, models.Response{
		Message: "you have left the group",
	})
}
