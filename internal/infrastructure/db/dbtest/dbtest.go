// Package dbtest is the behavioral contract every storage backend must meet.
// Backend test files call Run with a factory that yields an empty store.
package dbtest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

// Harness is one freshly emptied backend.
type Harness struct {
	Users     ports.UserRepository
	Favorites ports.FavoriteRepository
	Movies    ports.MovieRepository
	Audit     ports.AuditRepository

	// SeedMovies loads catalog rows directly; the service itself never
	// writes movies.
	SeedMovies func(t *testing.T, movies []domain.Movie)
}

// Factory returns an empty backend. It must register its own cleanup.
type Factory func(t *testing.T) Harness

func Run(t *testing.T, newHarness Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newHarness) })
	t.Run("Favorites", func(t *testing.T) { testFavorites(t, newHarness) })
	t.Run("Movies", func(t *testing.T) { testMovies(t, newHarness) })
	t.Run("Audit", func(t *testing.T) { testAudit(t, newHarness) })
}

func testUsers(t *testing.T, newHarness Factory) {
	ctx := context.Background()

	t.Run("insert then find", func(t *testing.T) {
		h := newHarness(t)

		created, err := h.Users.Insert(ctx, "alice123", "hash-1")
		require.NoError(t, err)
		require.Positive(t, created.ID)
		require.Equal(t, "alice123", created.Username)
		require.False(t, created.CreatedAt.IsZero())

		found, ok, err := h.Users.FindByUsername(ctx, "alice123")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, created.ID, found.ID)
		require.Equal(t, "hash-1", found.PasswordHash)

		byID, ok, err := h.Users.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "alice123", byID.Username)
	})

	t.Run("missing user is not an error", func(t *testing.T) {
		h := newHarness(t)

		_, ok, err := h.Users.FindByUsername(ctx, "ghost")
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = h.Users.FindByID(ctx, 424242)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.Users.Insert(ctx, "Bob", "hash")
		require.NoError(t, err)

		_, ok, err := h.Users.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("duplicate username", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.Users.Insert(ctx, "carol", "hash-1")
		require.NoError(t, err)

		_, err = h.Users.Insert(ctx, "carol", "hash-2")
		require.ErrorIs(t, err, domain.ErrDuplicateUsername)

		u, _, err := h.Users.FindByUsername(ctx, "carol")
		require.NoError(t, err)
		require.Equal(t, "hash-1", u.PasswordHash)
	})

	t.Run("concurrent registrations yield one user", func(t *testing.T) {
		h := newHarness(t)
		const n = 8

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Users.Insert(ctx, "racer", "hash")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, domain.ErrDuplicateUsername):
					conflicts++
				default:
					t.Errorf("unexpected insert error: %v", err)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, successes)
		require.Equal(t, n-1, conflicts)
	})

	t.Run("ids increase", func(t *testing.T) {
		h := newHarness(t)
		a, err := h.Users.Insert(ctx, "first", "hash")
		require.NoError(t, err)
		_, err = h.Users.Insert(ctx, "first", "hash")
		require.ErrorIs(t, err, domain.ErrDuplicateUsername)
		b, err := h.Users.Insert(ctx, "second", "hash")
		require.NoError(t, err)
		require.Greater(t, b.ID, a.ID)
	})

	t.Run("update password", func(t *testing.T) {
		h := newHarness(t)
		u, err := h.Users.Insert(ctx, "dave", "old")
		require.NoError(t, err)

		ok, err := h.Users.UpdatePassword(ctx, u.ID, "new")
		require.NoError(t, err)
		require.True(t, ok)

		got, _, err := h.Users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new", got.PasswordHash)

		ok, err = h.Users.UpdatePassword(ctx, u.ID+1000, "new")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func testFavorites(t *testing.T, newHarness Factory) {
	ctx := context.Background()
	poster := "https://image.example.com/heat.jpg"

	newUser := func(t *testing.T, h Harness, name string) int64 {
		t.Helper()
		u, err := h.Users.Insert(ctx, name, "hash")
		require.NoError(t, err)
		return u.ID
	}

	t.Run("insert list remove", func(t *testing.T) {
		h := newHarness(t)
		uid := newUser(t, h, "alice")

		fav, err := h.Favorites.Insert(ctx, uid, domain.FavoriteMovie{MovieID: 42, Title: "Heat", PosterURL: &poster})
		require.NoError(t, err)
		require.Positive(t, fav.ID)
		require.Equal(t, int64(42), fav.MovieID)

		list, err := h.Favorites.ListByUser(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Heat", list[0].Title)
		require.NotNil(t, list[0].PosterURL)
		require.Equal(t, poster, *list[0].PosterURL)

		n, err := h.Favorites.Remove(ctx, uid, 42)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		list, err = h.Favorites.ListByUser(ctx, uid)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("duplicate insert keeps one row", func(t *testing.T) {
		h := newHarness(t)
		uid := newUser(t, h, "bob")

		_, err := h.Favorites.Insert(ctx, uid, domain.FavoriteMovie{MovieID: 7, Title: "Se7en"})
		require.NoError(t, err)
		_, err = h.Favorites.Insert(ctx, uid, domain.FavoriteMovie{MovieID: 7, Title: "Se7en again"})
		require.ErrorIs(t, err, domain.ErrAlreadyFavorited)

		n, err := h.Favorites.CountByUser(ctx, uid)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("concurrent duplicate inserts", func(t *testing.T) {
		h := newHarness(t)
		uid := newUser(t, h, "carol")
		const n = 8

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Favorites.Insert(ctx, uid, domain.FavoriteMovie{MovieID: 99, Title: "Race"})
				if err != nil && !errors.Is(err, domain.ErrAlreadyFavorited) {
					t.Errorf("unexpected insert error: %v", err)
					return
				}
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, successes)
		count, err := h.Favorites.CountByUser(ctx, uid)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})

	t.Run("remove without favorite", func(t *testing.T) {
		h := newHarness(t)
		uid := newUser(t, h, "dave")

		n, err := h.Favorites.Remove(ctx, uid, 12345)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("favorites are per user", func(t *testing.T) {
		h := newHarness(t)
		a := newUser(t, h, "erin")
		b := newUser(t, h, "frank")

		_, err := h.Favorites.Insert(ctx, a, domain.FavoriteMovie{MovieID: 1, Title: "A"})
		require.NoError(t, err)
		_, err = h.Favorites.Insert(ctx, b, domain.FavoriteMovie{MovieID: 1, Title: "A"})
		require.NoError(t, err)

		n, err := h.Favorites.Remove(ctx, b, 1)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		_, ok, err := h.Favorites.Get(ctx, a, 1)
		require.NoError(t, err)
		require.True(t, ok)
		_, ok, err = h.Favorites.Get(ctx, b, 1)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("newest first", func(t *testing.T) {
		h := newHarness(t)
		uid := newUser(t, h, "grace")

		for _, id := range []int64{10, 20, 30} {
			_, err := h.Favorites.Insert(ctx, uid, domain.FavoriteMovie{MovieID: id, Title: "m"})
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}

		list, err := h.Favorites.ListByUser(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, []int64{30, 20, 10}, []int64{list[0].MovieID, list[1].MovieID, list[2].MovieID})
	})

	t.Run("poster url is optional", func(t *testing.T) {
		h := newHarness(t)
		uid := newUser(t, h, "heidi")

		_, err := h.Favorites.Insert(ctx, uid, domain.FavoriteMovie{MovieID: 5, Title: "No poster"})
		require.NoError(t, err)

		fav, ok, err := h.Favorites.Get(ctx, uid, 5)
		require.NoError(t, err)
		require.True(t, ok)
		require.Nil(t, fav.PosterURL)
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.Favorites.Insert(ctx, 987654, domain.FavoriteMovie{MovieID: 5, Title: "Orphan"})
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func testMovies(t *testing.T, newHarness Factory) {
	ctx := context.Background()

	t.Run("list ordered by year", func(t *testing.T) {
		h := newHarness(t)
		h.SeedMovies(t, []domain.Movie{
			{TMDBID: 603, Title: "The Matrix", Year: 1999, GenreIDs: []int64{28, 878}, VoteAverage: 8.2, VoteCount: 24000},
			{TMDBID: 603692, Title: "John Wick: Chapter 4", Year: 2023, GenreIDs: []int64{28}},
			{TMDBID: 949, Title: "Heat", Year: 1995},
		})

		movies, err := h.Movies.List(ctx)
		require.NoError(t, err)
		require.Len(t, movies, 3)
		require.Equal(t, []int{2023, 1999, 1995}, []int{movies[0].Year, movies[1].Year, movies[2].Year})
		require.Equal(t, []int64{28, 878}, movies[1].GenreIDs)
		require.NotNil(t, movies[2].GenreIDs)
	})

	t.Run("empty catalog", func(t *testing.T) {
		h := newHarness(t)

		movies, err := h.Movies.List(ctx)
		require.NoError(t, err)
		require.NotNil(t, movies)
		require.Empty(t, movies)
	})

	t.Run("search by title", func(t *testing.T) {
		h := newHarness(t)
		h.SeedMovies(t, []domain.Movie{
			{TMDBID: 603, Title: "The Matrix", Year: 1999},
			{TMDBID: 604, Title: "The Matrix Reloaded", Year: 2003},
			{TMDBID: 949, Title: "Heat", Year: 1995},
			{TMDBID: 1000, Title: "100% Wolf", Year: 2020},
		})

		movies, err := h.Movies.SearchByTitle(ctx, "matrix", 10)
		require.NoError(t, err)
		require.Len(t, movies, 2)
		require.Equal(t, "The Matrix Reloaded", movies[0].Title)

		movies, err = h.Movies.SearchByTitle(ctx, "matrix", 1)
		require.NoError(t, err)
		require.Len(t, movies, 1)

		movies, err = h.Movies.SearchByTitle(ctx, "%", 10)
		require.NoError(t, err)
		require.Len(t, movies, 1)
		require.Equal(t, "100% Wolf", movies[0].Title)
	})
}

func testAudit(t *testing.T, newHarness Factory) {
	ctx := context.Background()
	h := newHarness(t)

	uid := int64(1)
	require.NoError(t, h.Audit.InsertEvent(ctx, domain.SecurityEvent{
		UserID:    &uid,
		Action:    domain.ActionAddFavorite + ":42",
		IPAddress: "127.0.0.1",
		UserAgent: "test",
		Success:   true,
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, h.Audit.InsertEvent(ctx, domain.SecurityEvent{
		Action:       domain.ActionLoginAttempt + ":ghost",
		IPAddress:    "127.0.0.1",
		Success:      false,
		ErrorMessage: "invalid credentials",
		CreatedAt:    time.Now().UTC(),
	}))
}
