package stores

import "sync"

// Mode - контекст исполнения провайдера.
type Mode int

const (
	// ModeServer - новый реестр на каждый вызов GetStores.
	ModeServer Mode = iota
	// ModeClient - один реестр на всё время жизни провайдера.
	ModeClient
)

func (m Mode) String() string {
	switch m {
	case ModeServer:
		return "server"
	case ModeClient:
		return "client"
	default:
		return "unknown"
	}
}

// Provider выдаёт реестры хранилищ по правилам своего Mode.
type Provider struct {
	mode Mode

	mu       sync.Mutex
	retained *Registry
}

// NewServerProvider создаёт провайдер для обработки запросов.
func NewServerProvider() *Provider {
	return &Provider{mode: ModeServer}
}

// NewClientProvider создаёт провайдер для долгоживущего клиента.
func NewClientProvider() *Provider {
	return &Provider{mode: ModeClient}
}

// Mode возвращает контекст исполнения провайдера.
func (p *Provider) Mode() Mode {
	return p.mode
}

// GetStores возвращает реестр хранилищ.
//
// На сервере всегда строится новый реестр, засеянный из data.
// На клиенте первый вызов строит и запоминает реестр, а последующие
// возвращают его же и data игнорируют.
func (p *Provider) GetStores(data *InitialData) *Registry {
	if p.mode == ModeServer {
		return NewRegistry(data)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.retained == nil {
		p.retained = NewRegistry(data)
	}
	return p.retained
}

// Hydrated сообщает, построен ли уже клиентский реестр.
// Для серверного провайдера всегда false.
func (p *Provider) Hydrated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retained != nil
}
