package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/guitar-shop/internal/models"
)

type AdderMock struct {
	mock.Mock
}

func (m *AdderMock) Add(ctx context.Context, g models.Guitar) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guitars.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadGuitars(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []models.Guitar
		wantErr bool
	}{
		{
			name: "valid file",
			body: `[{"manufacturer":"Gibson","model":"Les Paul","priceCents":249900,"description":"**Mahogany**"},
				{"manufacturer":"Yamaha","model":"C40","mainImage":"https://img.example.com/c40.png","priceCents":12900}]`,
			want: []models.Guitar{
				{Manufacturer: "Gibson", Model: "Les Paul", PriceCents: 249900, Description: "**Mahogany**"},
				{Manufacturer: "Yamaha", Model: "C40", MainImage: "https://img.example.com/c40.png", PriceCents: 12900},
			},
		},
		{name: "broken json", body: `[{`, wantErr: true},
		{name: "empty list", body: `[]`, wantErr: true},
		{name: "missing model", body: `[{"manufacturer":"Gibson","priceCents":1}]`, wantErr: true},
		{name: "negative price", body: `[{"manufacturer":"Gibson","model":"SG","priceCents":-1}]`, wantErr: true},
		{name: "bad image url", body: `[{"manufacturer":"Gibson","model":"SG","mainImage":"not a url"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readGuitars(writeFile(t, tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadGuitars_MissingFile(t *testing.T) {
	_, err := readGuitars(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	guitars := []models.Guitar{
		{Manufacturer: "Gibson", Model: "Les Paul", PriceCents: 249900},
		{Manufacturer: "Yamaha", Model: "C40", PriceCents: 12900},
	}

	adder := new(AdderMock)
	adder.On("Add", ctx, guitars[0]).Return(int64(4), nil).Once()
	adder.On("Add", ctx, guitars[1]).Return(int64(5), nil).Once()

	var out bytes.Buffer
	require.NoError(t, seedCatalog(ctx, &out, adder, guitars))

	adder.AssertExpectations(t)
	assert.Contains(t, out.String(), "Gibson Les Paul")
	assert.Contains(t, out.String(), "Yamaha C40")
	assert.Contains(t, out.String(), "Added 2 guitars")
}

func TestSeedCatalog_StopsOnError(t *testing.T) {
	ctx := context.Background()
	guitars := []models.Guitar{
		{Manufacturer: "Gibson", Model: "Les Paul"},
		{Manufacturer: "Yamaha", Model: "C40"},
	}

	adder := new(AdderMock)
	adder.On("Add", ctx, guitars[0]).Return(int64(0), errors.New("db down")).Once()

	var out bytes.Buffer
	err := seedCatalog(ctx, &out, adder, guitars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gibson Les Paul")

	adder.AssertExpectations(t)
	adder.AssertNotCalled(t, "Add", ctx, guitars[1])
	assert.NotContains(t, out.String(), "Added")
}
