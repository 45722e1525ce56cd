package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/career-hub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// MongoPostRepository implements PostRepository for MongoDB. Post ids stay
// numeric so likes, comments and applications can reference them from
// PostgreSQL; they come from a counters collection.
type MongoPostRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	relational *gorm.DB
}

// NewMongoPostRepository creates a new MongoPostRepository. relational is used
// to clean up likes and comments when a post is deleted.
func NewMongoPostRepository(db *mongo.Database, relational *gorm.DB) *MongoPostRepository {
	return &MongoPostRepository{
		collection: db.Collection("posts"),
		counters:   db.Collection("counters"),
		relational: relational,
	}
}

func (r *MongoPostRepository) nextID(ctx context.Context) (uint, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": "posts"}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate post id: %w", err)
	}
	return uint(counter.Seq), nil
}

// CreatePost assigns the next numeric id and inserts the document
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	post.ID = id
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.Job != nil {
		post.Job.PostID = id
	}
	if post.Internship != nil {
		post.Internship.PostID = id
	}
	_, err = r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	fillVariantIDs(&post)
	return &post, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int) ([]models.Post, error) {
	findOptions := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		fillVariantIDs(&posts[i])
	}
	return posts, nil
}

func (r *MongoPostRepository) ListPosts(ctx context.Context, kind models.PostKind, skip, limit int) ([]models.Post, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	return r.find(ctx, filter, skip, limit)
}

func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID}, skip, limit)
}

// UpdatePost replaces the stored document
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MongoPostRepository) DeletePost(ctx context.Context, id uint) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.relational.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePostChildren(tx, id)
	})
}

func fillVariantIDs(post *models.Post) {
	if post.Job != nil {
		post.Job.PostID = post.ID
	}
	if post.Internship != nil {
		post.Internship.PostID = post.ID
	}
}
