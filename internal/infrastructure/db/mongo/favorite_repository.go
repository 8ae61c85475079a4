package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type FavoriteRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
	ids   sequence
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{
		col:   db.Collection(collectionFavorites),
		users: db.Collection(collectionUsers),
		ids:   newSequence(db, collectionFavorites),
	}
}

type mongoFavorite struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	MovieID   int64     `bson:"movie_tmdb_id"`
	Title     string    `bson:"title"`
	PosterURL *string   `bson:"poster_url,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (f mongoFavorite) toDomain() domain.Favorite {
	return domain.Favorite{
		ID:        f.ID,
		UserID:    f.UserID,
		MovieID:   f.MovieID,
		Title:     f.Title,
		PosterURL: f.PosterURL,
		CreatedAt: f.CreatedAt.UTC(),
	}
}

// Insert relies on the unique (user_id, movie_tmdb_id) index. Mongo has no
// foreign keys, so the owning user is checked first.
func (r *FavoriteRepository) Insert(ctx context.Context, userID int64, m domain.FavoriteMovie) (domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("check favorite owner: %w", err)
	}
	if n == 0 {
		return domain.Favorite{}, domain.ErrUserNotFound
	}

	id, err := r.ids.next(ctx)
	if err != nil {
		return domain.Favorite{}, err
	}

	doc := mongoFavorite{
		ID:        id,
		UserID:    userID,
		MovieID:   m.MovieID,
		Title:     m.Title,
		PosterURL: m.PosterURL,
		CreatedAt: now(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Favorite{}, domain.ErrAlreadyFavorited
		}
		return domain.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoFavorite
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	favs := make([]domain.Favorite, 0, len(docs))
	for _, d := range docs {
		favs = append(favs, d.toDomain())
	}
	return favs, nil
}

func (r *FavoriteRepository) Get(ctx context.Context, userID, movieID int64) (domain.Favorite, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoFavorite
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "movie_tmdb_id": movieID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Favorite{}, false, nil
		}
		return domain.Favorite{}, false, fmt.Errorf("find favorite: %w", err)
	}
	return doc.toDomain(), true, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, movieID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "movie_tmdb_id": movieID})
	if err != nil {
		return 0, fmt.Errorf("delete favorite: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *FavoriteRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)
