package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"animeshow/internal/ingestion/anilist"
	"animeshow/internal/metrics"
	"animeshow/internal/microservices/http-api/dto"
	"animeshow/internal/microservices/http-api/models"
	"animeshow/internal/microservices/http-api/repository"
	"animeshow/internal/shared"
)

// CharacterSource fetches raw characters from the remote catalog
type CharacterSource interface {
	SearchCharacters(ctx context.Context, search string, perPage int) ([]anilist.RawCharacter, error)
}

// SaveNotifier is told about every saved character
type SaveNotifier interface {
	CharacterSaved(ctx context.Context, id int64, name string) error
}

type CharacterSearchService interface {
	Search(ctx context.Context, rawTerm string) ([]dto.CharacterDTO, error)
}

type CharacterSaveService interface {
	Save(ctx context.Context, payload dto.SaveCharacterDTO) (int64, error)
	ListAll(ctx context.Context) ([]models.Character, error)
}

type characterSearchService struct {
	source  CharacterSource
	perPage int
	logger  *slog.Logger
}

func NewCharacterSearchService(source CharacterSource, perPage int) CharacterSearchService {
	return &characterSearchService{
		source:  source,
		perPage: perPage,
		logger:  slog.Default(),
	}
}

// Search trims the term, queries AniList and flattens every record in
// upstream order. An empty term is ErrInvalidInput and never reaches
// AniList; zero results are ErrNotFound.
func (s *characterSearchService) Search(ctx context.Context, rawTerm string) ([]dto.CharacterDTO, error) {
	term := strings.TrimSpace(rawTerm)
	if term == "" {
		return nil, fmt.Errorf("%w: character name must not be empty", shared.ErrInvalidInput)
	}

	s.logger.Info("character_search_started", "term", term)

	raws, err := s.source.SearchCharacters(ctx, term, s.perPage)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no characters match %q", shared.ErrNotFound, term)
	}

	characters := dto.FlattenCharacters(raws)
	s.logger.Info("character_search_completed", "term", term, "total", len(characters))
	return characters, nil
}

type characterSaveService struct {
	repo     repository.CharacterRepository
	notifier SaveNotifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewCharacterSaveService builds the save service. notifier and m may be nil.
func NewCharacterSaveService(repo repository.CharacterRepository, notifier SaveNotifier, m *metrics.Metrics) CharacterSaveService {
	return &characterSaveService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		logger:   slog.Default(),
	}
}

// Save maps payload onto a Character and upserts it by id
func (s *characterSaveService) Save(ctx context.Context, payload dto.SaveCharacterDTO) (int64, error) {
	if payload.ID == nil {
		return 0, fmt.Errorf("%w: id is required", shared.ErrInvalidInput)
	}

	character := payload.ToModel()
	id, err := s.repo.Upsert(ctx, &character)
	if err != nil {
		if !shared.IsClientError(err) {
			s.metrics.IncStorageError("upsert")
		}
		return 0, err
	}
	s.metrics.IncSaved()

	if s.notifier != nil {
		name := ""
		if character.NameFull != nil {
			name = *character.NameFull
		}
		if err := s.notifier.CharacterSaved(ctx, id, name); err != nil {
			s.logger.Warn("character_saved_notify_failed", "character_id", id, "error", err)
		}
	}

	s.logger.Info("character_saved", "character_id", id)
	return id, nil
}

func (s *characterSaveService) ListAll(ctx context.Context) ([]models.Character, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		s.metrics.IncStorageError("list")
		return nil, err
	}
	return list, nil
}
