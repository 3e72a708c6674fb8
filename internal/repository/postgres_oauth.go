package repository

import (
	"context"
	"errors"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresOAuthRepository struct {
	db *gorm.DB
}

func NewPostgresOAuthRepository(db *gorm.DB) *PostgresOAuthRepository {
	return &PostgresOAuthRepository{db: db}
}

func (r *PostgresOAuthRepository) Upsert(ctx context.Context, connection *domain.OAuthConnection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if connection == nil {
		return errors.New("connection is nil")
	}

	connectionModel := toModelConnection(connection)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account_id", "username", "access_token", "refresh_token",
				"expires_at", "scopes", "updated_at",
			}),
		}).
		Create(connectionModel).Error
}

func (r *PostgresOAuthRepository) ListForUser(ctx context.Context, userID string) ([]*domain.OAuthConnection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var connections []model.OAuthConnection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&connections).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.OAuthConnection, 0, len(connections))
	for i := range connections {
		result = append(result, toDomainConnection(&connections[i]))
	}
	return result, nil
}

func (r *PostgresOAuthRepository) AccessToken(ctx context.Context, userID, provider string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var connection model.OAuthConnection
	err := r.db.WithContext(ctx).
		First(&connection, "user_id = ? AND provider = ?", userID, provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrConnectionNotFound
		}
		return "", err
	}

	return connection.AccessToken, nil
}

func toModelConnection(connection *domain.OAuthConnection) *model.OAuthConnection {
	var refresh *string
	if connection.RefreshToken != "" {
		v := connection.RefreshToken
		refresh = &v
	}

	var expiresAt *time.Time
	if connection.ExpiresAt != nil {
		t := connection.ExpiresAt.UTC()
		expiresAt = &t
	}

	return &model.OAuthConnection{
		ID:           connection.ID,
		UserID:       connection.UserID,
		Provider:     connection.Provider,
		AccountID:    connection.AccountID,
		Username:     connection.Username,
		AccessToken:  connection.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Scopes:       connection.Scopes,
		CreatedAt:    connection.CreatedAt.UTC(),
		UpdatedAt:    connection.UpdatedAt.UTC(),
	}
}

func toDomainConnection(connection *model.OAuthConnection) *domain.OAuthConnection {
	refresh := ""
	if connection.RefreshToken != nil {
		refresh = *connection.RefreshToken
	}

	var expiresAt *time.Time
	if connection.ExpiresAt != nil {
		t := connection.ExpiresAt.UTC()
		expiresAt = &t
	}

	return &domain.OAuthConnection{
		ID:           connection.ID,
		UserID:       connection.UserID,
		Provider:     connection.Provider,
		AccountID:    connection.AccountID,
		Username:     connection.Username,
		AccessToken:  connection.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Scopes:       connection.Scopes,
		CreatedAt:    connection.CreatedAt.UTC(),
		UpdatedAt:    connection.UpdatedAt.UTC(),
	}
}
