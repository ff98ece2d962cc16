package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/reto140/reto140-api/models"
)

const uniqueViolation = pq.ErrorCode("23505")

// codeAttempts bounds how often group creation redraws after a join-code
// collision.
const codeAttempts = 5

// CreateGroupParams carries the validated inputs for a new group.
type CreateGroupParams struct {
	Name        string
	Description *string
	CreatedBy   uuid.UUID
	MaxMembers  int
	IsPublic    bool
}

// CreateGroup inserts the group and its creator's admin membership in one
// transaction. Join codes come from the injected generator; a collision with
// an existing code triggers a redraw.
func (f *FitnessDB) CreateGroup(ctx context.Context, params CreateGroupParams) (*models.Group, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := f.Codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("error generating group code: %w", err)
		}

		group, err := f.insertGroup(ctx, params, code)
		if err == nil {
			return group, nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "groups_code_key" {
			f.Log.Debug().Str("code", code).Msg("group code collision, drawing again")
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("could not allocate a unique group code after %d attempts", codeAttempts)
}

func (f *FitnessDB) insertGroup(ctx context.Context, params CreateGroupParams, code string) (*models.Group, error) {
	tx, err := f.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var group models.Group
	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (id, name, description, code, created_by, max_members, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, description, code, created_by, max_members, is_public, is_active, created_at`,
		uuid.New(), params.Name, params.Description, code, params.CreatedBy, params.MaxMembers, params.IsPublic).
		Scan(&group.ID, &group.Name, &group.Description, &group.Code, &group.CreatedBy,
			&group.MaxMembers, &group.IsPublic, &group.IsActive, &group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)`, group.ID, params.CreatedBy, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("error adding creator as admin: %w", err)
	}

	if err := f.CommitTransaction(tx); err != nil {
		return nil, err
	}
	return &group, nil
}

// JoinGroup adds the user to the group identified by code, reactivating a
// previous membership when one exists. The group row is locked for the whole
// check-then-write so capacity enforcement stays exact under concurrent
// joins.
func (f *FitnessDB) JoinGroup(ctx context.Context, code string, userID uuid.UUID) (*models.JoinedGroup, error) {
	tx, err := f.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var joined models.JoinedGroup
	var maxMembers int
	var groupID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.description, g.code, g.max_members, u.display_name
		FROM groups g
		JOIN users u ON g.created_by = u.id
		WHERE g.code = $1 AND g.is_active = true
		FOR UPDATE OF g`, code).
		Scan(&groupID, &joined.Name, &joined.Description, &joined.Code, &maxMembers, &joined.CreatorName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up group by code: %w", err)
	}
	joined.ID = groupID

	var role string
	var active bool
	err = tx.QueryRowContext(ctx, `
		SELECT role, is_active FROM group_members
		WHERE group_id = $1 AND user_id = $2`, groupID, userID).
		Scan(&role, &active)

	switch {
	case err == nil && active:
		return nil, ErrAlreadyMember

	case err == nil:
		// Reactivate the existing row rather than inserting a duplicate.
		_, err = tx.ExecContext(ctx, `
			UPDATE group_members SET is_active = true, joined_at = NOW()
			WHERE group_id = $1 AND user_id = $2`, groupID, userID)
		if err != nil {
			return nil, fmt.Errorf("error reactivating membership: %w", err)
		}
		joined.Role = role

	case err == sql.ErrNoRows:
		var count int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM group_members
			WHERE group_id = $1 AND is_active = true`, groupID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("error counting members: %w", err)
		}
		if count >= maxMembers {
			return nil, ErrGroupFull
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, user_id, role)
			VALUES ($1, $2, $3)`, groupID, userID, models.RoleMember)
		if err != nil {
			return nil, fmt.Errorf("error adding member: %w", err)
		}
		joined.Role = models.RoleMember

	default:
		return nil, fmt.Errorf("error checking membership: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_members
		WHERE group_id = $1 AND is_active = true`, groupID).Scan(&joined.MemberCount)
	if err != nil {
		return nil, fmt.Errorf("error counting members: %w", err)
	}

	if err := f.CommitTransaction(tx); err != nil {
		return nil, err
	}
	return &joined, nil
}

// ListUserGroups returns the user's active memberships in active groups,
// most recently joined first.
func (f *FitnessDB) ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.GroupSummary, error) {
	rows, err := f.DB.QueryContext(ctx, `
		SELECT
			g.id, g.name, g.description, g.code, g.created_at, g.is_public,
			gm.role, gm.joined_at,
			u.display_name,
			(SELECT COUNT(*) FROM group_members WHERE group_id = g.id AND is_active = true)
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		JOIN users u ON g.created_by = u.id
		WHERE gm.user_id = $1 AND gm.is_active = true AND g.is_active = true
		ORDER BY gm.joined_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups: %w", err)
	}
	defer rows.Close()

	groups := []models.GroupSummary{}
	for rows.Next() {
		var g models.GroupSummary
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Code, &g.CreatedAt, &g.IsPublic,
			&g.Role, &g.JoinedAt, &g.CreatorName, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("error scanning groups: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetGroupDetails returns the full group view for an active member. Callers
// without an active membership get ErrNoAccess regardless of whether the
// group exists, so no existence information leaks.
func (f *FitnessDB) GetGroupDetails(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupDetails, error) {
	var userRole string
	err := f.DB.QueryRowContext(ctx, `
		SELECT role FROM group_members
		WHERE group_id = $1 AND user_id = $2 AND is_active = true`, groupID, userID).
		Scan(&userRole)
	if err == sql.ErrNoRows {
		return nil, ErrNoAccess
	}
	if err != nil {
		return nil, fmt.Errorf("error checking membership: %w", err)
	}

	details := models.GroupDetails{UserRole: userRole}
	err = f.DB.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.description, g.code, g.max_members, g.is_public, g.created_at, u.display_name
		FROM groups g
		JOIN users u ON g.created_by = u.id
		WHERE g.id = $1 AND g.is_active = true`, groupID).
		Scan(&details.ID, &details.Name, &details.Description, &details.Code,
			&details.MaxMembers, &details.IsPublic, &details.CreatedAt, &details.CreatorName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}

	rows, err := f.DB.QueryContext(ctx, `
		SELECT gm.role, gm.joined_at, u.id, u.display_name, u.photo_url, u.current_streak, u.total_workouts
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1 AND gm.is_active = true
		ORDER BY
			CASE gm.role
				WHEN 'admin' THEN 1
				WHEN 'moderator' THEN 2
				ELSE 3
			END,
			gm.joined_at ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving members: %w", err)
	}
	defer rows.Close()

	details.Members = []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.Role, &m.JoinedAt, &m.ID, &m.DisplayName, &m.PhotoURL,
			&m.Stats.CurrentStreak, &m.Stats.TotalWorkouts); err != nil {
			return nil, fmt.Errorf("error scanning members: %w", err)
		}
		details.Members = append(details.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	details.MemberCount = len(details.Members)
	return &details, nil
}

// LeaveGroup deactivates the user's membership. When the leaver is the sole
// active admin, the earliest-joined remaining active member is promoted first
// so the group never loses its last admin while it still has members. The
// group row is locked so concurrent leave-and-succession runs one at a time
// per group.
func (f *FitnessDB) LeaveGroup(ctx context.Context, groupID, userID uuid.UUID) error {
	tx, err := f.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotMember
	}
	if err != nil {
		return fmt.Errorf("error locking group: %w", err)
	}

	var role string
	err = tx.QueryRowContext(ctx, `
		SELECT role FROM group_members
		WHERE group_id = $1 AND user_id = $2 AND is_active = true`, groupID, userID).
		Scan(&role)
	if err == sql.ErrNoRows {
		return ErrNotMember
	}
	if err != nil {
		return fmt.Errorf("error checking membership: %w", err)
	}

	if role == models.RoleAdmin {
		var admins int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM group_members
			WHERE group_id = $1 AND role = $2 AND is_active = true`, groupID, models.RoleAdmin).
			Scan(&admins)
		if err != nil {
			return fmt.Errorf("error counting admins: %w", err)
		}

		if admins == 1 {
			// Promote the earliest-joined remaining active member. When the
			// leaver is the last member, this updates no rows and the group
			// is left without admins.
			_, err = tx.ExecContext(ctx, `
				UPDATE group_members SET role = $3
				WHERE group_id = $1 AND user_id = (
					SELECT user_id FROM group_members
					WHERE group_id = $1 AND user_id != $2 AND is_active = true
					ORDER BY joined_at ASC
					LIMIT 1
				)`, groupID, userID, models.RoleAdmin)
			if err != nil {
				return fmt.Errorf("error promoting successor admin: %w", err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE group_members SET is_active = false
		WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("error deactivating membership: %w", err)
	}

	return f.CommitTransaction(tx)
}
