package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/artgaze/profile-service/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// GORM v1.25+ wraps these as gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Follow creates a follow edge from followerID to followeeID.
// If a soft-deleted record already exists for the pair it is restored
// (deleted_at set back to NULL) rather than inserting a new row, avoiding
// duplicate history entries.
func (r *GormProfileRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: attempt to restore any existing soft-deleted record.
		result := tx.Unscoped().
			Model(&domain.FollowModel{}).
			Where("follower_id = ? AND followee_id = ? AND deleted_at IS NOT NULL", followerID, followeeID).
			Update("deleted_at", nil)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			// Restored an existing row; CDC will fire a "u" event.
			return nil
		}

		// Step 2: no soft-deleted record found — insert a fresh row.
		model := domain.FollowModel{
			FollowerID: followerID,
			FolloweeID: followeeID,
		}
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyFollowing
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyFollowing) {
			return err
		}
		return classify(err)
	}
	return nil
}

// Unfollow removes the follow edge from followerID to followeeID.
func (r *GormProfileRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}
