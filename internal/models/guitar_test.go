package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuitar_CardImage(t *testing.T) {
	assert.Equal(t, FallbackImage, Guitar{}.CardImage())
	assert.Equal(t, "https://img/strat.png", Guitar{MainImage: "https://img/strat.png"}.CardImage())
}

func TestGuitar_HrefAndPrice(t *testing.T) {
	g := Guitar{ID: 7, PriceCents: 149905}

	assert.Equal(t, "/guitars/7", g.Href())
	assert.Equal(t, "$1499.05", g.Price())
	assert.Equal(t, "$0.00", Guitar{}.Price())
}
