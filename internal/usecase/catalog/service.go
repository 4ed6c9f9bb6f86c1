// Package catalog manages the redeemable media catalog and the share
// link setting.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/internal/domain"
)

// Service provides catalog CRUD for the admin surface.
type Service struct {
	movies   domain.MovieRepository
	settings domain.SettingsRepository
	logger   zerolog.Logger
}

// NewService creates a catalog service
func NewService(
	movies domain.MovieRepository,
	settings domain.SettingsRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		movies:   movies,
		settings: settings,
		logger:   logger,
	}
}

// AddMovie stores a new catalog entry under the next auto-assigned
// code. The first non-empty meta line becomes the title, the whole meta
// text the description. Returns the stored movie including its code.
func (s *Service) AddMovie(ctx context.Context, fileID, fileType, meta string) (*domain.Movie, error) {
	meta = strings.TrimSpace(meta)

	title := ""
	for _, line := range strings.Split(meta, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			title = line
			break
		}
	}
	if title == "" {
		title = fmt.Sprintf("Kino %d", rand.Intn(999)+1)
	}

	code, err := s.nextCode(ctx)
	if err != nil {
		return nil, err
	}

	movie := &domain.Movie{
		Code:        code,
		Title:       title,
		FileID:      fileID,
		FileType:    fileType,
		Description: meta,
	}
	if err := s.movies.Save(ctx, movie); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", code).Str("title", title).Msg("Movie saved")
	return movie, nil
}

// RemoveMovie deletes a catalog entry by code
func (s *Service) RemoveMovie(ctx context.Context, code string) error {
	return s.movies.Delete(ctx, code)
}

// nextCode reads the auto-increment code from settings and advances it.
func (s *Service) nextCode(ctx context.Context) (string, error) {
	next := int64(1)
	raw, err := s.settings.Get(ctx, domain.SettingNextCode)
	if err != nil && !errors.Is(err, domain.ErrSettingNotFound) {
		return "", err
	}
	if raw != "" {
		if parsed, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			next = parsed
		}
	}

	if err := s.settings.Set(ctx, domain.SettingNextCode, strconv.FormatInt(next+1, 10)); err != nil {
		return "", err
	}
	return strconv.FormatInt(next, 10), nil
}

// ShareLink returns the configured codes link, empty when unset
func (s *Service) ShareLink(ctx context.Context) (string, error) {
	value, err := s.settings.Get(ctx, domain.SettingCodesLink)
	if errors.Is(err, domain.ErrSettingNotFound) {
		return "", nil
	}
	return value, err
}

// SetShareLink validates and stores the codes link. t.me-style values
// get the https scheme prepended; anything that still is not an http(s)
// URL is rejected.
func (s *Service) SetShareLink(ctx context.Context, link string) (string, error) {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "t.me/") || strings.HasPrefix(link, "telegram.me/") {
		link = "https://" + link
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return "", fmt.Errorf("share link must start with https:// or t.me/")
	}

	if err := s.settings.Set(ctx, domain.SettingCodesLink, link); err != nil {
		return "", err
	}
	return link, nil
}

// ClearShareLink removes the configured codes link
func (s *Service) ClearShareLink(ctx context.Context) error {
	return s.settings.Set(ctx, domain.SettingCodesLink, "")
}
