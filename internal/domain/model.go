package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/artgaze/profile-service/pkg/database"
)

// AccountModel is the GORM model for the accounts table.
type AccountModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	Handle    string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	Bio       string         `gorm:"type:text"`
	AvatarKey string         `gorm:"type:varchar(255)"`
	IsCurator bool           `gorm:"not null;default:false"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AccountModel) TableName() string { return "accounts" }

// ArtistModel extends an account with artist attributes.
// The primary key is shared with the accounts table.
type ArtistModel struct {
	AccountID  uint      `gorm:"primaryKey"`
	Slug       string    `gorm:"type:varchar(80);uniqueIndex;not null"`
	IsVerified bool      `gorm:"not null;default:false"`
	WebsiteURL string    `gorm:"type:varchar(255)"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ArtistModel) TableName() string { return "artists" }

// ArtworkModel is the GORM model for the artworks table.
type ArtworkModel struct {
	ID        uint                 `gorm:"primaryKey;autoIncrement"`
	ArtistID  uint                 `gorm:"index;not null"`
	Title     string               `gorm:"type:varchar(200)"`
	ImageKey  string               `gorm:"type:varchar(255)"`
	Keywords  database.StringArray `gorm:"type:text"`
	CreatedAt time.Time            `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt       `gorm:"index"`
}

func (ArtworkModel) TableName() string { return "artworks" }

// FollowModel is the GORM model for the follows table.
type FollowModel struct {
	ID         uint           `gorm:"primaryKey;autoIncrement"`
	FollowerID uint           `gorm:"column:follower_id;not null"`
	FolloweeID uint           `gorm:"column:followee_id;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (FollowModel) TableName() string { return "follows" }

// LikeModel is the GORM model for the artwork_likes table.
type LikeModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	AccountID uint      `gorm:"index;not null"`
	ArtworkID uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (LikeModel) TableName() string { return "artwork_likes" }
