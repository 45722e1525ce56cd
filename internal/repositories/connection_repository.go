package repositories

import (
	"context"

	"github.com/anonto42/career-hub/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data operations
type ConnectionRepository interface {
	CreateConnection(ctx context.Context, conn *models.Connection) error
	GetConnectionByID(ctx context.Context, id uint) (*models.Connection, error)
	FindBetween(ctx context.Context, a, b uint) (*models.Connection, error)
	TransitionStatus(ctx context.Context, id uint, from []models.ConnectionStatus, to models.ConnectionStatus) (bool, error)
	DeleteConnection(ctx context.Context, id uint) error
	ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error)
	ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error)
	ListSent(ctx context.Context, userID uint) ([]models.Connection, error)
	ListReceived(ctx context.Context, userID uint) ([]models.Connection, error)
	ListAcceptedUsers(ctx context.Context, userID uint) ([]models.User, error)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// CreateConnection inserts the row. The pair_key unique index rejects a
// second row for the same two users in either direction.
func (r *PostgresConnectionRepository) CreateConnection(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *PostgresConnectionRepository) GetConnectionByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindBetween looks the pair up in both directions
func (r *PostgresConnectionRepository) FindBetween(ctx context.Context, a, b uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)", a, b, b, a).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// TransitionStatus sets the status only while the row is still in one of
// the from states, and reports whether it did.
func (r *PostgresConnectionRepository) TransitionStatus(ctx context.Context, id uint, from []models.ConnectionStatus, to models.ConnectionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PostgresConnectionRepository) DeleteConnection(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Connection{}, id).Error
}

func (r *PostgresConnectionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *PostgresConnectionRepository) ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error) {
	return r.list(ctx, "(requester_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.ConnectionAccepted)
}

func (r *PostgresConnectionRepository) ListPendingReceived(ctx context.Context, userID uint) ([]models.Connection, error) {
	return r.list(ctx, "receiver_id = ? AND status = ?", userID, models.ConnectionPending)
}

func (r *PostgresConnectionRepository) ListSent(ctx context.Context, userID uint) ([]models.Connection, error) {
	return r.list(ctx, "requester_id = ?", userID)
}

func (r *PostgresConnectionRepository) ListReceived(ctx context.Context, userID uint) ([]models.Connection, error) {
	return r.list(ctx, "receiver_id = ?", userID)
}

// ListAcceptedUsers retrieves every user connected to userID
func (r *PostgresConnectionRepository) ListAcceptedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	sent := r.db.Model(&models.Connection{}).Select("receiver_id").Where("requester_id = ? AND status = ?", userID, models.ConnectionAccepted)
	received := r.db.Model(&models.Connection{}).Select("requester_id").Where("receiver_id = ? AND status = ?", userID, models.ConnectionAccepted)

	err := r.db.WithContext(ctx).
		Where("(id IN (?) OR id IN (?)) AND id <> ?", sent, received, userID).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
