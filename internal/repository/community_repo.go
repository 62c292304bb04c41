package repository

import (
	"context"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type CommunityRepository struct {
	db DBTX
}

func NewCommunityRepository(db DBTX) *CommunityRepository {
	return &CommunityRepository{db: db}
}

func (r *CommunityRepository) Create(
	ctx context.Context,
	name string,
	description *string,
	createdBy int64,
) (*models.Community, error) {
	query := `
		INSERT INTO communities (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, member_count, created_at
	`

	var community models.Community
	err := r.db.QueryRow(ctx, query, name, description, createdBy).Scan(
		&community.ID,
		&community.Name,
		&community.Description,
		&community.CreatedBy,
		&community.MemberCount,
		&community.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &community, nil
}

func (r *CommunityRepository) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	query := `
		SELECT id, name, description, created_by, member_count, created_at
		FROM communities
		WHERE id = $1
	`

	var community models.Community
	err := r.db.QueryRow(ctx, query, id).Scan(
		&community.ID,
		&community.Name,
		&community.Description,
		&community.CreatedBy,
		&community.MemberCount,
		&community.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &community, nil
}

func (r *CommunityRepository) List(ctx context.Context, limit int, offset int) ([]models.Community, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM communities`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, description, created_by, member_count, created_at
		FROM communities
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	communities := make([]models.Community, 0)
	for rows.Next() {
		var community models.Community
		if err := rows.Scan(
			&community.ID,
			&community.Name,
			&community.Description,
			&community.CreatedBy,
			&community.MemberCount,
			&community.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		communities = append(communities, community)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return communities, total, nil
}

func (r *CommunityRepository) IsMember(ctx context.Context, communityID int64, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM community_members
			WHERE community_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, communityID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CommunityRepository) AddMember(ctx context.Context, communityID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)
	`, communityID, userID)
	return err
}

func (r *CommunityRepository) RemoveMember(ctx context.Context, communityID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM community_members
		WHERE community_id = $1 AND user_id = $2
	`, communityID, userID)
	return err
}

func (r *CommunityRepository) AdjustMemberCount(ctx context.Context, communityID int64, delta int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE communities
		SET member_count = GREATEST(member_count + $2, 0)
		WHERE id = $1
	`, communityID, delta)
	return err
}
