package repositories

import (
	"context"
	"slices"

	"github.com/anonto42/career-hub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessageByID(ctx context.Context, id uint) (*models.Message, error)
	GetThread(ctx context.Context, a, b uint) ([]models.Message, error)
	GetUnreadFrom(ctx context.Context, receiverID, senderID uint) ([]models.Message, error)
	MarkAsRead(ctx context.Context, ids []uint) ([]uint, error)
	GetChatPartners(ctx context.Context, userID uint) ([]models.ChatUser, error)
}

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *postgresMessageRepository) GetMessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetThread returns the conversation between a and b, oldest first
func (r *postgresMessageRepository) GetThread(ctx context.Context, a, b uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *postgresMessageRepository) GetUnreadFrom(ctx context.Context, receiverID, senderID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Order("id").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkAsRead flips the given messages in one statement and returns the ids
// this call flipped. Rows already read are left alone, so each id is
// returned by at most one caller.
func (r *postgresMessageRepository) MarkAsRead(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return []uint{}, nil
	}
	var flipped []models.Message
	err := r.db.WithContext(ctx).Model(&flipped).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ? AND is_read = ?", ids, false).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}
	out := make([]uint, 0, len(flipped))
	for _, m := range flipped {
		out = append(out, m.ID)
	}
	slices.Sort(out)
	return out, nil
}

// GetChatPartners lists every user the caller has exchanged messages with,
// along with the latest message of each conversation.
func (r *postgresMessageRepository) GetChatPartners(ctx context.Context, userID uint) ([]models.ChatUser, error) {
	var partnerIDs []uint
	err := r.db.WithContext(ctx).Raw(`
		SELECT receiver_id AS partner_id FROM messages WHERE sender_id = ?
		UNION
		SELECT sender_id AS partner_id FROM messages WHERE receiver_id = ?`, userID, userID).
		Scan(&partnerIDs).Error
	if err != nil {
		return nil, err
	}

	partners := make([]models.ChatUser, 0, len(partnerIDs))
	for _, pid := range partnerIDs {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, pid).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		var last models.Message
		err := r.db.WithContext(ctx).
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, pid, pid, userID).
			Order("sent_at DESC, id DESC").
			First(&last).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		partners = append(partners, models.ChatUser{
			ID:                user.ID,
			Username:          user.FullName(),
			Email:             user.Email,
			ProfilePictureURL: user.ProfilePictureURL,
			LastMessage:       last.Content,
		})
	}
	return partners, nil
}
