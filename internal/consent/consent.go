// Package consent связывает модальное окно согласия на витрине с клиентом аналитики.
//
// Согласие не сохраняется здесь: его хранит сам баннер согласия на стороне
// покупателя. Adapter лишь пересылает изменения в аналитику и оповещает
// подписчиков.
package consent

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
)

const (
	// CategoryAnalytics - сбор статистики посещений.
	CategoryAnalytics = "analytics"
	// CategoryAdvertising - рекламные интеграции.
	CategoryAdvertising = "advertising"
	// CategoryFunctional - функциональные интеграции (чат, отзывы).
	CategoryFunctional = "functional"
)

// Categories - именованные флаги согласия покупателя.
type Categories map[string]bool

// Allowed сообщает, дано ли согласие на категорию.
func (c Categories) Allowed(name string) bool {
	return c[name]
}

// Clone возвращает независимую копию.
func (c Categories) Clone() Categories {
	out := make(Categories, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Names возвращает отсортированные имена категорий.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Event - изменение согласия.
type Event struct {
	Categories  Categories `json:"categories"`
	AnonymousID string     `json:"anonymousId,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// Callback вызывается баннером согласия при каждом изменении выбора
// и возвращает событие дальше по цепочке.
type Callback func(ctx context.Context, ev Event) Event

// Listener получает уведомление об изменении согласия.
type Listener func(ctx context.Context, ev Event)

// Adapter оборачивает клиент аналитики.
type Adapter struct {
	log      *slog.Logger
	client   Client
	writeKey string
	now      func() time.Time

	mu        sync.RWMutex
	listeners map[string]Listener
	order     []string

	callback Callback
}

// NewAdapter создаёт Adapter. Пустой writeKey отключает аналитику без ошибки.
func NewAdapter(log *slog.Logger, client Client, writeKey string) *Adapter {
	if writeKey == "" || client == nil {
		client = Noop{}
	}
	a := &Adapter{
		log:       log,
		client:    client,
		writeKey:  writeKey,
		now:       time.Now,
		listeners: make(map[string]Listener),
	}
	a.callback = a.onConsentChanged
	return a
}

// Enabled сообщает, уходят ли события в настоящий клиент аналитики.
func (a *Adapter) Enabled() bool {
	_, noop := a.client.(Noop)
	return !noop
}

// Callback возвращает одну и ту же функцию на каждый вызов,
// поэтому повторные отрисовки не плодят обработчиков.
func (a *Adapter) Callback() Callback {
	return a.callback
}

// Subscribe регистрирует слушателя под ключом. Повторная регистрация
// под тем же ключом ничего не делает и возвращает false.
func (a *Adapter) Subscribe(key string, l Listener) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.listeners[key]; exists {
		return false
	}
	a.listeners[key] = l
	a.order = append(a.order, key)
	return true
}

func (a *Adapter) onConsentChanged(ctx context.Context, ev Event) Event {
	const op = "consent.Adapter.onConsentChanged"

	ev.Categories = ev.Categories.Clone()
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = a.now().UTC()
	}

	props := make(map[string]any, len(ev.Categories))
	for k, v := range ev.Categories {
		props[k] = v
	}
	msg := Message{
		Type:        TypeConsent,
		Event:       "changed",
		WriteKey:    a.writeKey,
		AnonymousID: ev.AnonymousID,
		Properties:  props,
		Timestamp:   ev.OccurredAt,
	}
	if err := a.client.Track(ctx, msg); err != nil {
		a.log.Error("failed to forward consent change", slog.String("op", op), sl.Err(err))
	}

	a.mu.RLock()
	listeners := make([]Listener, 0, len(a.order))
	for _, key := range a.order {
		listeners = append(listeners, a.listeners[key])
	}
	a.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
	return ev
}
