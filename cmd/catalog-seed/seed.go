package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/guitar-shop/internal/models"
)

// guitarInput - запись файла с гитарами.
type guitarInput struct {
	Manufacturer string `json:"manufacturer" validate:"required,max=100"`
	Model        string `json:"model" validate:"required,max=100"`
	MainImage    string `json:"mainImage" validate:"omitempty,url"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"priceCents" validate:"gte=0"`
}

// Adder добавляет гитару в каталог.
type Adder interface {
	Add(ctx context.Context, g models.Guitar) (int64, error)
}

// readGuitars читает и проверяет файл целиком, до первой вставки.
func readGuitars(path string) ([]models.Guitar, error) {
	const op = "catalog-seed.readGuitars"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	var inputs []guitarInput
	if err := json.NewDecoder(f).Decode(&inputs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%s: no guitars in %s", op, path)
	}

	validate := validator.New()
	guitars := make([]models.Guitar, 0, len(inputs))
	for i, in := range inputs {
		if err := validate.Struct(in); err != nil {
			return nil, fmt.Errorf("%s: guitar #%d: %w", op, i+1, err)
		}
		guitars = append(guitars, models.Guitar{
			Manufacturer: in.Manufacturer,
			Model:        in.Model,
			MainImage:    in.MainImage,
			Description:  in.Description,
			PriceCents:   in.PriceCents,
		})
	}
	return guitars, nil
}

func seedCatalog(ctx context.Context, w io.Writer, adder Adder, guitars []models.Guitar) error {
	const op = "catalog-seed.seedCatalog"

	cyan := color.New(color.FgCyan)
	for _, g := range guitars {
		id, err := adder.Add(ctx, g)
		if err != nil {
			return fmt.Errorf("%s: %s %s: %w", op, g.Manufacturer, g.Model, err)
		}
		g.ID = id
		cyan.Fprintf(w, "%-4d", id)
		fmt.Fprintf(w, "%s %s  %s\n", g.Manufacturer, g.Model, g.Price())
	}
	color.New(color.FgGreen).Fprintf(w, "Added %d guitars\n", len(guitars))
	return nil
}
