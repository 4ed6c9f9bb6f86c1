package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kinobot-uz/kinobot/internal/domain"
)

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie catalog repository
func NewMovieRepository(db *gorm.DB) domain.MovieRepository {
	return &movieRepository{db: db}
}

// Save inserts or overwrites a movie by code. The downloads column is
// excluded from the conflict update so re-saving a code keeps its
// counter exactly.
func (r *movieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "file_id", "file_type", "year", "genre", "language", "description",
			}),
		}).
		Create(movie).Error
}

// Delete removes a movie by code
func (r *movieRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Movie{}, "code = ?", code)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

// GetByCode returns the movie for a code
func (r *movieRepository) GetByCode(ctx context.Context, code string) (*domain.Movie, error) {
	var movie domain.Movie
	err := r.db.WithContext(ctx).First(&movie, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// IncrementDownloads bumps the counter in a single UPDATE statement so
// concurrent redemptions of the same code never lose an increment.
func (r *movieRepository) IncrementDownloads(ctx context.Context, code string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Movie{}).
		Where("code = ?", code).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrMovieNotFound
	}

	var movie domain.Movie
	if err := r.db.WithContext(ctx).Select("downloads").First(&movie, "code = ?", code).Error; err != nil {
		return 0, err
	}
	return movie.Downloads, nil
}
