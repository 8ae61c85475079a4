package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

const movieColumns = `id, COALESCE(tmdb_id, 0), title, overview, poster_path, release_date, year,
        genre_ids, vote_average, vote_count, created_at`

// MovieRepository reads the local catalog from PostgreSQL.
type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY year DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return collectMovies(rows)
}

func (r *MovieRepository) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
        SELECT `+movieColumns+`
        FROM movies
        WHERE title ILIKE $1 ESCAPE '\'
        ORDER BY year DESC, id ASC
        LIMIT $2
    `, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return collectMovies(rows)
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.TMDBID, &m.Title, &m.Overview, &m.PosterPath, &m.ReleaseDate,
			&m.Year, &m.GenreIDs, &m.VoteAverage, &m.VoteCount, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		if m.GenreIDs == nil {
			m.GenreIDs = []int64{}
		}
		m.CreatedAt = m.CreatedAt.UTC()
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ ports.MovieRepository = (*MovieRepository)(nil)
