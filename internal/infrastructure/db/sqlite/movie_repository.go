package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

const movieColumns = `id, tmdb_id, title, overview, poster_path, release_date, year,
	genre_ids, vote_average, vote_count, created_at`

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY year DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return collectMovies(rows)
}

func (r *MovieRepository) SearchByTitle(ctx context.Context, query string, limit int) ([]domain.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE title LIKE ? ESCAPE '\'
		ORDER BY year DESC, id ASC
		LIMIT ?`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return collectMovies(rows)
}

func collectMovies(rows *sql.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		var (
			m        domain.Movie
			tmdbID   sql.NullInt64
			genreIDs string
			created  string
		)
		if err := rows.Scan(&m.ID, &tmdbID, &m.Title, &m.Overview, &m.PosterPath, &m.ReleaseDate,
			&m.Year, &genreIDs, &m.VoteAverage, &m.VoteCount, &created); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.TMDBID = tmdbID.Int64
		m.GenreIDs = []int64{}
		if genreIDs != "" {
			if err := json.Unmarshal([]byte(genreIDs), &m.GenreIDs); err != nil {
				return nil, fmt.Errorf("decode genre ids of movie %d: %w", m.ID, err)
			}
		}
		t, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		m.CreatedAt = t
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
