package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection(collectionMovies)}
}

type mongoMovie struct {
	ID          int64     `bson:"_id"`
	TMDBID      int64     `bson:"tmdb_id,omitempty"`
	Title       string    `bson:"title"`
	Overview    string    `bson:"overview,omitempty"`
	PosterPath  string    `bson:"poster_path,omitempty"`
	ReleaseDate string    `bson:"release_date,omitempty"`
	Year        int       `bson:"year"`
	GenreIDs    []int64   `bson:"genre_ids"`
	VoteAverage float64   `bson:"vote_average"`
	VoteCount   int64     `bson:"vote_count"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (m mongoMovie) toDomain() domain.Movie {
	genres := m.GenreIDs
	if genres == nil {
		genres = []int64{}
	}
	return domain.Movie{
		ID:          m.ID,
		TMDBID:      m.TMDBID,
		Title:       m.Title,
		Overview:    m.Overview,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		Year:        m.Year,
		GenreIDs:    genres,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

var movieSort = bson.D{{Key: "year", Value: -1}, {Key: "_id", Value: 1}}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(movieSort))
}

func (r *MovieRepository) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Movie, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}}
	return r.find(ctx, filter, options.Find().SetSort(movieSort).SetLimit(int64(limit)))
}

func (r *MovieRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoMovie
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	movies := make([]domain.Movie, 0, len(docs))
	for _, d := range docs {
		movies = append(movies, d.toDomain())
	}
	return movies, nil
}

var _ ports.MovieRepository = (*MovieRepository)(nil)
