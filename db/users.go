package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/reto140/reto140-api/internal/idp"
	"github.com/reto140/reto140-api/models"
)

const userColumns = `id, firebase_uid, email, display_name, photo_url, email_verified, is_active,
	current_streak, total_workouts, age, weight_kg, height_cm, weight_goal_kg, primary_goal, gender,
	joined_at, last_login_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.FirebaseUID,
		&u.Email,
		&u.DisplayName,
		&u.PhotoURL,
		&u.EmailVerified,
		&u.IsActive,
		&u.CurrentStreak,
		&u.TotalWorkouts,
		&u.Age,
		&u.WeightKg,
		&u.HeightCm,
		&u.WeightGoalKg,
		&u.PrimaryGoal,
		&u.Gender,
		&u.JoinedAt,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ResolveUser maps a verified identity onto a local user row. The first time
// a subject is seen the row is created; every later sighting only refreshes
// the login timestamp. Concurrent first sightings of the same subject are
// resolved by the unique constraint on firebase_uid: the loser of the insert
// race falls back to the row the winner created.
func (f *FitnessDB) ResolveUser(ctx context.Context, claims idp.Claims) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE firebase_uid = $1`
	user, err := scanUser(f.DB.QueryRowContext(ctx, query, claims.Subject))
	if err == nil {
		return f.touchLastLogin(ctx, claims.Subject)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	displayName := claims.Name
	if displayName == "" {
		displayName = localPart(claims.Email)
	}
	var photo *string
	if claims.Picture != "" {
		photo = &claims.Picture
	}

	row := f.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, firebase_uid, email, display_name, photo_url, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (firebase_uid) DO NOTHING
		RETURNING `+userColumns,
		uuid.New(), claims.Subject, claims.Email, displayName, photo, claims.EmailVerified)

	user, err = scanUser(row)
	if err == sql.ErrNoRows {
		// Lost the first-seen race; the row exists now.
		return f.touchLastLogin(ctx, claims.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	f.Log.Info().Str("email", user.Email).Msg("new user created")
	return user, nil
}

func (f *FitnessDB) touchLastLogin(ctx context.Context, firebaseUID string) (*models.User, error) {
	row := f.DB.QueryRowContext(ctx, `
		UPDATE users SET last_login_at = NOW(), updated_at = NOW()
		WHERE firebase_uid = $1
		RETURNING `+userColumns, firebaseUID)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("error updating last login: %w", err)
	}
	return user, nil
}

// localPart returns the substring before the @, the default display name when
// the claims carry none.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// UpdateProfile applies a partial profile update. Only fields from the fixed
// set below ever become assignment clauses; values are always parameterized.
func (f *FitnessDB) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	var assignments []string
	var values []interface{}
	add := func(column string, value interface{}) {
		values = append(values, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if update.DisplayName != nil {
		add("display_name", *update.DisplayName)
	}
	if update.PhotoURL != nil {
		add("photo_url", *update.PhotoURL)
	}
	if update.Age != nil {
		add("age", *update.Age)
	}
	if update.WeightKg != nil {
		add("weight_kg", *update.WeightKg)
	}
	if update.HeightCm != nil {
		add("height_cm", *update.HeightCm)
	}
	if update.WeightGoalKg != nil {
		add("weight_goal_kg", *update.WeightGoalKg)
	}
	if update.PrimaryGoal != nil {
		add("primary_goal", *update.PrimaryGoal)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}

	if len(assignments) == 0 {
		return nil, ErrNoFields
	}

	assignments = append(assignments, "updated_at = NOW()")
	values = append(values, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(assignments, ", "), len(values))

	user, err := scanUser(f.DB.QueryRowContext(ctx, query, values...))
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

// UpdateStreak bumps the streak by one or resets it to zero and returns the
// new value. Two fixed statements; nothing from the request reaches the query
// text.
func (f *FitnessDB) UpdateStreak(ctx context.Context, userID uuid.UUID, increment bool) (int, error) {
	query := `UPDATE users SET current_streak = 0, updated_at = NOW() WHERE id = $1 RETURNING current_streak`
	if increment {
		query = `UPDATE users SET current_streak = current_streak + 1, updated_at = NOW() WHERE id = $1 RETURNING current_streak`
	}

	var streak int
	if err := f.DB.QueryRowContext(ctx, query, userID).Scan(&streak); err != nil {
		return 0, fmt.Errorf("error updating streak: %w", err)
	}
	return streak, nil
}

// AddWorkout increments the per-user workout counter and returns the total.
func (f *FitnessDB) AddWorkout(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := f.DB.QueryRowContext(ctx, `
		UPDATE users SET total_workouts = total_workouts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING total_workouts`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error adding workout: %w", err)
	}
	return total, nil
}

// GetWorkoutTotals re-reads the authoritative counters for a user.
func (f *FitnessDB) GetWorkoutTotals(ctx context.Context, userID uuid.UUID) (int, int, error) {
	var total, streak int
	err := f.DB.QueryRowContext(ctx,
		`SELECT total_workouts, current_streak FROM users WHERE id = $1`, userID).
		Scan(&total, &streak)
	if err != nil {
		return 0, 0, fmt.Errorf("error retrieving workout totals: %w", err)
	}
	return total, streak, nil
}
