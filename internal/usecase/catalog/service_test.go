package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinobot-uz/kinobot/internal/domain"
	repo "github.com/kinobot-uz/kinobot/internal/repository/sqlite"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Movie{}, &domain.Setting{}))

	svc := NewService(repo.NewMovieRepository(db), repo.NewSettingsRepository(db), zerolog.Nop())
	return svc, db
}

func TestAddMovieAssignsSequentialCodes(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	first, err := svc.AddMovie(ctx, "file-1", domain.FileTypeVideo, "Birinchi kino\nTavsif")
	require.NoError(t, err)
	require.Equal(t, "1", first.Code)
	require.Equal(t, "Birinchi kino", first.Title)
	require.Equal(t, "Birinchi kino\nTavsif", first.Description)

	second, err := svc.AddMovie(ctx, "file-2", domain.FileTypeDocument, "Ikkinchi kino")
	require.NoError(t, err)
	require.Equal(t, "2", second.Code)
}

func TestAddMovieTitleFromFirstNonEmptyLine(t *testing.T) {
	svc, _ := setup(t)

	movie, err := svc.AddMovie(context.Background(), "f", domain.FileTypeVideo, "\n\n  Sarlavha  \nqolgani")
	require.NoError(t, err)
	require.Equal(t, "Sarlavha", movie.Title)
}

func TestAddMovieEmptyMetaGetsFallbackTitle(t *testing.T) {
	svc, _ := setup(t)

	movie, err := svc.AddMovie(context.Background(), "f", domain.FileTypeVideo, "")
	require.NoError(t, err)
	require.NotEmpty(t, movie.Title)
	require.Contains(t, movie.Title, "Kino ")
}

// Overwriting a code must keep its accumulated download counter.
func TestResaveKeepsDownloads(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, "file-1", domain.FileTypeVideo, "Kino")
	require.NoError(t, err)

	movies := repo.NewMovieRepository(db)
	for i := 0; i < 3; i++ {
		_, err := movies.IncrementDownloads(ctx, movie.Code)
		require.NoError(t, err)
	}

	require.NoError(t, movies.Save(ctx, &domain.Movie{
		Code:     movie.Code,
		Title:    "Yangilangan nom",
		FileID:   "file-new",
		FileType: domain.FileTypeDocument,
	}))

	stored, err := movies.GetByCode(ctx, movie.Code)
	require.NoError(t, err)
	require.Equal(t, "Yangilangan nom", stored.Title)
	require.EqualValues(t, 3, stored.Downloads)
}

func TestRemoveMovie(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, "f", domain.FileTypeVideo, "Kino")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMovie(ctx, movie.Code))
	require.ErrorIs(t, svc.RemoveMovie(ctx, movie.Code), domain.ErrMovieNotFound)
}

func TestShareLink(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	link, err := svc.ShareLink(ctx)
	require.NoError(t, err)
	require.Empty(t, link)

	stored, err := svc.SetShareLink(ctx, "t.me/kodlar")
	require.NoError(t, err)
	require.Equal(t, "https://t.me/kodlar", stored)

	link, err = svc.ShareLink(ctx)
	require.NoError(t, err)
	require.Equal(t, "https://t.me/kodlar", link)

	_, err = svc.SetShareLink(ctx, "ftp://nope")
	require.Error(t, err)

	require.NoError(t, svc.ClearShareLink(ctx))
	link, err = svc.ShareLink(ctx)
	require.NoError(t, err)
	require.Empty(t, link)
}
