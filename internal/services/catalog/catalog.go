// Package catalog содержит бизнес-логику каталога гитар и его кеширование.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/models"
	"github.com/magabrotheeeer/guitar-shop/internal/storage"
)

// ErrNotFound возвращается, если гитары нет в каталоге.
var ErrNotFound = errors.New("guitar not found")

const listCacheKey = "catalog:guitars"

// Repository определяет методы для работы с каталогом в хранилище.
type Repository interface {
	ListGuitars(ctx context.Context) ([]models.Guitar, error)
	GetGuitar(ctx context.Context, id int64) (*models.Guitar, error)
	AddGuitar(ctx context.Context, g models.Guitar) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service отдаёт каталог, кешируя список гитар. Кеш необязателен:
// при nil запросы идут прямо в репозиторий.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	md    goldmark.Markdown
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		md:    goldmark.New(),
		log:   log,
	}
}

// List возвращает все гитары каталога.
func (s *Service) List(ctx context.Context) ([]models.Guitar, error) {
	const op = "services.catalog.List"

	if s.cache != nil {
		var cached []models.Guitar
		found, err := s.cache.Get(ctx, listCacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read catalog from cache", slog.String("op", op), sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	guitars, err := s.repo.ListGuitars(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listCacheKey, guitars, s.ttl); err != nil {
			s.log.Warn("failed to cache catalog", slog.String("op", op), sl.Err(err))
		}
	}
	return guitars, nil
}

// Get возвращает гитару по идентификатору.
func (s *Service) Get(ctx context.Context, id int64) (*models.Guitar, error) {
	const op = "services.catalog.Get"

	g, err := s.repo.GetGuitar(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

// Add добавляет гитару и сбрасывает кеш списка.
func (s *Service) Add(ctx context.Context, g models.Guitar) (int64, error) {
	const op = "services.catalog.Add"

	id, err := s.repo.AddGuitar(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, listCacheKey); err != nil {
			s.log.Warn("failed to invalidate catalog cache", slog.String("op", op), sl.Err(err))
		}
	}
	return id, nil
}

// DescriptionHTML переводит markdown-описание гитары в HTML.
// Сырой HTML в описании экранируется.
func (s *Service) DescriptionHTML(g models.Guitar) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(g.Description), &buf); err != nil {
		s.log.Error("failed to convert description", slog.Int64("guitar_id", g.ID), sl.Err(err))
		return template.HTML(template.HTMLEscapeString(g.Description))
	}
	return template.HTML(buf.String())
}
