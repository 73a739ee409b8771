package stores

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator"
)

// ErrInvalidInitialData возвращается, если снапшот не прошёл проверку.
var ErrInvalidInitialData = errors.New("invalid initial data")

// SessionSnapshot - сериализуемая проекция SessionStore.
type SessionSnapshot struct {
	LoggedIn  bool   `json:"loggedIn"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
}

// InitialData - снапшот всех хранилищ реестра, который сервер передаёт клиенту.
type InitialData struct {
	SessionSnapshot *SessionSnapshot `json:"sessionSnapshot,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(loggedOutIsAnonymous, SessionSnapshot{})
	return v
}

// loggedOutIsAnonymous запрещает снапшоты «не вошёл» с заполненными данными.
func loggedOutIsAnonymous(sl validator.StructLevel) {
	snap := sl.Current().Interface().(SessionSnapshot)
	if snap.LoggedIn {
		return
	}
	if snap.FirstName != "" {
		sl.ReportError(snap.FirstName, "firstName", "FirstName", "anonymous", "")
	}
	if snap.LastName != "" {
		sl.ReportError(snap.LastName, "lastName", "LastName", "anonymous", "")
	}
	if snap.Email != "" {
		sl.ReportError(snap.Email, "email", "Email", "anonymous", "")
	}
}

// Validate проверяет снапшот на границе гидратации.
func (d InitialData) Validate() error {
	const op = "stores.InitialData.Validate"
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInitialData, err)
	}
	return nil
}

// DecodeInitialData разбирает и проверяет JSON снапшота.
// Пустой ввод означает отсутствие снапшота и ошибкой не считается.
func DecodeInitialData(raw []byte) (*InitialData, error) {
	const op = "stores.DecodeInitialData"
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var data InitialData
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInitialData, err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &data, nil
}

// Encode сериализует снапшот в JSON.
func (d InitialData) Encode() ([]byte, error) {
	const op = "stores.InitialData.Encode"
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}
