package services_test

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/career-hub/backend/internal/cache"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
	"github.com/anonto42/career-hub/backend/internal/services"
)

type pushed struct {
	UserID  uint
	Event   string
	Payload interface{}
}

// recorder stands in for a realtime registry and keeps every push.
type recorder struct {
	mu     sync.Mutex
	events []pushed
}

func (r *recorder) BroadcastToUser(userID uint, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, pushed{UserID: userID, Event: event, Payload: payload})
}

func (r *recorder) For(userID uint) []pushed {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []pushed
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) All() []pushed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pushed(nil), r.events...)
}

type fixture struct {
	db            *gorm.DB
	redis         *miniredis.Miniredis
	unread        *cache.UnreadCache
	notifications *recorder
	chat          *recorder

	users            *repositories.PostgresUserRepository
	posts            *repositories.PostgresPostRepository
	notificationRepo repositories.NotificationRepository
	dispatcher       *services.Dispatcher
	notifier         *services.Notifier

	Likes         *services.LikeService
	Comments      *services.CommentService
	Connections   *services.ConnectionService
	Applications  *services.ApplicationService
	Chat          *services.ChatService
	Notifications *services.NotificationService
	Posts         *services.PostService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		db:            db,
		redis:         mr,
		unread:        cache.NewUnreadCache(client, time.Minute),
		notifications: &recorder{},
		chat:          &recorder{},
	}

	f.users = repositories.NewPostgresUserRepository(db)
	f.posts = repositories.NewPostgresPostRepository(db)
	f.notificationRepo = repositories.NewPostgresNotificationRepository(db)
	comments := repositories.NewPostgresCommentRepository(db)
	likes := repositories.NewPostgresLikeRepository(db)
	commentLikes := repositories.NewPostgresCommentLikeRepository(db)

	f.dispatcher = services.NewDispatcher(f.notifications, f.chat, f.unread)
	f.notifier = services.NewNotifier(services.NewComposer(f.notificationRepo), f.dispatcher)

	f.Likes = services.NewLikeService(f.posts, comments, likes, commentLikes, f.users, f.notifier)
	f.Comments = services.NewCommentService(comments, commentLikes, f.posts, f.users, f.notifier)
	f.Connections = services.NewConnectionService(repositories.NewPostgresConnectionRepository(db), f.users, f.notifier)
	f.Applications = services.NewApplicationService(repositories.NewPostgresApplicationRepository(db), f.posts, f.users, f.notifier)
	f.Chat = services.NewChatService(repositories.NewPostgresMessageRepository(db), f.users, f.notifier, f.dispatcher)
	f.Notifications = services.NewNotificationService(f.notificationRepo, f.unread)
	f.Posts = services.NewPostService(f.posts, likes, f.users)
	return f
}

func (f *fixture) user(t *testing.T, id uint, first, last string) *models.User {
	t.Helper()
	u := &models.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("user%d@example.com", id),
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) publicPost(t *testing.T, ownerID uint) *models.Post {
	t.Helper()
	p := &models.Post{UserID: ownerID, Content: "hello", Kind: models.PostKindPublic}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) jobPost(t *testing.T, ownerID uint, title string) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:  ownerID,
		Content: "we are hiring",
		Kind:    models.PostKindJob,
		Job:     &models.JobDetails{Title: title, Location: "Remote", ExpiryDate: time.Now().Add(720 * time.Hour)},
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) internshipPost(t *testing.T, ownerID uint, title string) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:  ownerID,
		Content: "summer internship",
		Kind:    models.PostKindInternship,
		Internship: &models.InternshipDetails{
			Title:          title,
			Location:       "Casablanca",
			ExpiryDate:     time.Now().Add(720 * time.Hour),
			InternshipType: models.InternshipPFE,
		},
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) storedNotifications(t *testing.T, recipientID uint) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, f.db.Where("recipient_id = ?", recipientID).Order("id").Find(&out).Error)
	return out
}

func eventsNamed(events []pushed, name string) []pushed {
	var out []pushed
	for _, e := range events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// storedID is how an id inside Notification.Extra reads back from the
// database. JSONMap decodes numbers as json.Number.
func storedID(id uint) json.Number {
	return json.Number(strconv.FormatUint(uint64(id), 10))
}
