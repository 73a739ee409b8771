package models

import "fmt"

// FallbackImage показывается на карточке, если у гитары нет фото.
const FallbackImage = "https://cdn.pixabay.com/photo/2017/01/31/23/08/classic-2028011_960_720.png"

// Guitar - товар каталога.
type Guitar struct {
	ID           int64  `json:"id"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	MainImage    string `json:"mainImage,omitempty"`
	Description  string `json:"description,omitempty"` // markdown
	PriceCents   int64  `json:"priceCents"`
}

// CardImage возвращает картинку для карточки товара.
func (g Guitar) CardImage() string {
	if g.MainImage == "" {
		return FallbackImage
	}
	return g.MainImage
}

// Href возвращает адрес страницы гитары.
func (g Guitar) Href() string {
	return fmt.Sprintf("/guitars/%d", g.ID)
}

// Price форматирует цену в долларах.
func (g Guitar) Price() string {
	return fmt.Sprintf("$%d.%02d", g.PriceCents/100, g.PriceCents%100)
}
