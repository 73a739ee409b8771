package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/guitar-shop/internal/models"
)

// ListGuitars возвращает каталог, отсортированный по производителю и модели.
func (s *Storage) ListGuitars(ctx context.Context) ([]models.Guitar, error) {
	const op = "storage.ListGuitars"

	query := `SELECT id, manufacturer, model, coalesce(main_image, ''), description, price_cents
			  FROM guitars
			  ORDER BY manufacturer, model, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Guitar, 0)
	for rows.Next() {
		var g models.Guitar
		if err = rows.Scan(&g.ID, &g.Manufacturer, &g.Model, &g.MainImage, &g.Description, &g.PriceCents); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetGuitar возвращает гитару по идентификатору.
func (s *Storage) GetGuitar(ctx context.Context, id int64) (*models.Guitar, error) {
	const op = "storage.GetGuitar"

	query := `SELECT id, manufacturer, model, coalesce(main_image, ''), description, price_cents
			  FROM guitars
			  WHERE id = $1`
	var g models.Guitar
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Manufacturer, &g.Model, &g.MainImage, &g.Description, &g.PriceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &g, nil
}

// AddGuitar добавляет гитару в каталог и возвращает её идентификатор.
func (s *Storage) AddGuitar(ctx context.Context, g models.Guitar) (int64, error) {
	const op = "storage.AddGuitar"

	var mainImage sql.NullString
	if g.MainImage != "" {
		mainImage = sql.NullString{String: g.MainImage, Valid: true}
	}
	var id int64
	query := `INSERT INTO guitars (manufacturer, model, main_image, description, price_cents)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		g.Manufacturer, g.Model, mainImage, g.Description, g.PriceCents).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
