// Package client - долгоживущий клиент витрины. Держит один реестр
// хранилищ, который гидратируется из первой открытой страницы.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/magabrotheeeer/guitar-shop/internal/models"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// ErrInvalidCredentials возвращается, если витрина отвергла email или пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError - ответ API со статусом ошибки.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Page - результат открытия страницы витрины.
type Page struct {
	Status int
	// Location заполнен, если витрина ответила перенаправлением.
	Location string
	Body     []byte
}

// Redirect сообщает, ответила ли витрина перенаправлением.
func (p *Page) Redirect() bool {
	return p.Location != ""
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// Client ходит на витрину с сохранением cookie сессии.
type Client struct {
	baseURL  string
	http     *http.Client
	provider *stores.Provider
	log      *slog.Logger
}

// New создаёт клиент для витрины по адресу baseURL.
func New(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	const op = "client.New"

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		provider: stores.NewClientProvider(),
		log:      log,
	}, nil
}

// Registry возвращает реестр клиента. До первой гидратации
// реестр строится пустым и дальше не заменяется.
func (c *Client) Registry() *stores.Registry {
	return c.provider.GetStores(nil)
}

// Session возвращает хранилище сессии клиента.
func (c *Client) Session() *stores.SessionStore {
	return c.Registry().Session()
}

// Open загружает страницу path. Если реестр ещё не построен, он
// гидратируется из снапшота, встроенного в страницу. Снапшоты
// последующих страниц реестр не заменяют.
func (c *Client) Open(ctx context.Context, path string) (*Page, error) {
	const op = "client.Open"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	page := &Page{Status: resp.StatusCode, Body: body}
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		page.Location = resp.Header.Get("Location")
		return page, nil
	}

	if c.provider.Hydrated() {
		return page, nil
	}
	raw, err := shell.ExtractInitialData(body)
	if err != nil {
		c.log.Debug("page carries no initial data", slog.String("path", path), slog.String("error", err.Error()))
		return page, nil
	}
	data, err := stores.DecodeInitialData(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reg := c.provider.GetStores(data)
	c.log.Debug("client stores hydrated",
		slog.String("path", path),
		slog.Any("stores", reg.Names()),
	)
	return page, nil
}

// Login входит на витрину и отмечает вход в хранилище сессии клиента.
func (c *Client) Login(ctx context.Context, email, password string) error {
	const op = "client.Login"

	var snap stores.SessionSnapshot
	err := c.call(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"email":    email,
		"password": password,
	}, &snap)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.Session().Login(stores.Identity{
		FirstName: snap.FirstName,
		LastName:  snap.LastName,
		Email:     snap.Email,
	})
	return nil
}

// Logout выходит из сессии на витрине и в хранилище клиента.
func (c *Client) Logout(ctx context.Context) error {
	const op = "client.Logout"

	if err := c.call(ctx, http.MethodPost, "/api/v1/logout", nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.Session().Logout()
	return nil
}

// Guitars возвращает каталог гитар.
func (c *Client) Guitars(ctx context.Context) ([]models.Guitar, error) {
	const op = "client.Guitars"

	var guitars []models.Guitar
	if err := c.call(ctx, http.MethodGet, "/api/v1/guitars", nil, &guitars); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return guitars, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "malformed response"}
	}
	if resp.StatusCode >= 400 || env.Status != "OK" {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
