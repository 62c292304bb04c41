package repository

import (
	"context"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type UserProfileRepository struct {
	db DBTX
}

func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

func (r *UserProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO user_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, bio, university, field_of_study,
			   graduation_year, skills, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.University,
		&profile.FieldOfStudy,
		&profile.GraduationYear,
		&profile.Skills,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateUserProfileInput struct {
	FullName       *string
	Bio            *string
	University     *string
	FieldOfStudy   *string
	GraduationYear *int
	Skills         *[]string
}

func (r *UserProfileRepository) UpdatePartial(
	ctx context.Context,
	userID int64,
	input UpdateUserProfileInput,
) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET full_name = COALESCE($1, full_name),
			bio = COALESCE($2, bio),
			university = COALESCE($3, university),
			field_of_study = COALESCE($4, field_of_study),
			graduation_year = COALESCE($5, graduation_year),
			skills = COALESCE($6, skills),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING id, user_id, full_name, avatar_url, bio, university, field_of_study,
				  graduation_year, skills, created_at, updated_at
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query,
		input.FullName,
		input.Bio,
		input.University,
		input.FieldOfStudy,
		input.GraduationYear,
		input.Skills,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.University,
		&profile.FieldOfStudy,
		&profile.GraduationYear,
		&profile.Skills,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserProfileRepository) UpdateAvatarURL(
	ctx context.Context,
	userID int64,
	avatarURL string,
) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET avatar_url = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING id, user_id, full_name, avatar_url, bio, university, field_of_study,
				  graduation_year, skills, created_at, updated_at
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, avatarURL, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.University,
		&profile.FieldOfStudy,
		&profile.GraduationYear,
		&profile.Skills,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
