// Package redemption orchestrates exchanging a numeric code for the
// associated catalog file.
package redemption

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/internal/domain"
	"github.com/kinobot-uz/kinobot/internal/usecase/membership"
)

// Outcome classifies the result of a redemption attempt.
type Outcome int

const (
	// OutcomeDelivered means the file was sent and the counter bumped
	OutcomeDelivered Outcome = iota
	// OutcomeNotFound means no catalog entry exists for the code
	OutcomeNotFound
	// OutcomeBlocked means the user does not satisfy the membership gate
	OutcomeBlocked
)

// Result is the outcome of one redemption attempt.
type Result struct {
	Outcome   Outcome
	Movie     *domain.Movie
	Downloads int64
	Missing   []domain.Requirement
}

// Sequencer runs the gate-check / lookup / deliver / count pipeline.
type Sequencer struct {
	cache     *membership.Cache
	movies    domain.MovieRepository
	deliverer domain.MovieDeliverer
	logger    zerolog.Logger
}

// NewSequencer creates a redemption sequencer.
// Note: the deliverer is not passed here to break the cyclic dependency
// with the Telegram delivery layer; use SetDeliverer after construction.
func NewSequencer(
	cache *membership.Cache,
	movies domain.MovieRepository,
	logger zerolog.Logger,
) *Sequencer {
	return &Sequencer{
		cache:  cache,
		movies: movies,
		logger: logger,
	}
}

// SetDeliverer sets the file deliverer after construction
func (s *Sequencer) SetDeliverer(d domain.MovieDeliverer) {
	s.deliverer = d
}

// Redeem validates the user, looks the code up and delivers the file.
// The download counter is incremented only after a successful delivery;
// a failed caption update after that is non-fatal and not retried.
func (s *Sequencer) Redeem(ctx context.Context, userID int64, code string, now time.Time) (*Result, error) {
	ok, missing, err := s.cache.Check(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Result{Outcome: OutcomeBlocked, Missing: missing}, nil
	}

	movie, err := s.movies.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrMovieNotFound) {
		return &Result{Outcome: OutcomeNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	ref, err := s.deliverer.DeliverMovie(ctx, userID, movie, Caption(movie))
	if err != nil {
		// no increment on failed delivery, statistics must not inflate
		s.logger.Error().
			Int64("user_id", userID).
			Str("code", code).
			Err(err).
			Msg("Failed to deliver movie")
		return nil, fmt.Errorf("%w: %s", domain.ErrDeliveryFailed, err)
	}

	count, err := s.movies.IncrementDownloads(ctx, code)
	if err != nil {
		// delivery already succeeded, surface success anyway
		s.logger.Error().Str("code", code).Err(err).Msg("Failed to increment downloads")
		return &Result{Outcome: OutcomeDelivered, Movie: movie, Downloads: movie.Downloads}, nil
	}

	if err := s.deliverer.UpdateCaption(ctx, ref, movie, CaptionWithCount(movie, count)); err != nil {
		s.logger.Warn().Str("code", code).Err(err).Msg("Failed to update caption with download count")
	}

	return &Result{Outcome: OutcomeDelivered, Movie: movie, Downloads: count}, nil
}

// Caption renders the delivery caption: title, optional description,
// then the code line.
func Caption(m *domain.Movie) string {
	return captionBody(m) + "\n\n\n" + fmt.Sprintf("Kod: %s", m.Code)
}

// CaptionWithCount renders the caption including the download counter.
func CaptionWithCount(m *domain.Movie, count int64) string {
	return captionBody(m) + "\n\n\n" + fmt.Sprintf("Kod: %s\nYuklashlar: (%d)", m.Code, count)
}

func captionBody(m *domain.Movie) string {
	title := m.Title
	if title == "" {
		title = "Film"
	}
	body := html.EscapeString(title)
	if m.Description != "" {
		body += "\n" + html.EscapeString(m.Description)
	}
	return body
}
