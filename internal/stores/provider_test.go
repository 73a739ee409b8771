package stores

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leoData() *InitialData {
	return &InitialData{SessionSnapshot: &SessionSnapshot{
		LoggedIn: true, FirstName: "Leo", LastName: "G", Email: "leo@x.com",
	}}
}

func TestServerProvider_SeedsFromSnapshot(t *testing.T) {
	p := NewServerProvider()

	reg := p.GetStores(leoData())

	s := reg.Session()
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "Leo", s.Identity().FirstName)
	assert.Equal(t, "G", s.Identity().LastName)
	assert.Equal(t, "leo@x.com", s.Identity().Email)
	assert.Equal(t, ModeServer, p.Mode())
	assert.False(t, p.Hydrated())
}

func TestServerProvider_Isolation(t *testing.T) {
	p := NewServerProvider()

	other := &InitialData{SessionSnapshot: &SessionSnapshot{
		LoggedIn: true, FirstName: "Ann", LastName: "B", Email: "ann@x.com",
	}}
	first := p.GetStores(leoData())
	second := p.GetStores(other)

	require.NotSame(t, first, second)
	require.NotSame(t, first.Session(), second.Session())

	first.Session().Logout()

	assert.True(t, second.Session().LoggedIn())
	assert.Equal(t, "Ann", second.Session().Identity().FirstName)
}

func TestServerProvider_SameDataNeverShared(t *testing.T) {
	p := NewServerProvider()
	data := leoData()

	first := p.GetStores(data)
	second := p.GetStores(data)

	first.Session().Logout()

	assert.True(t, second.Session().LoggedIn())
	assert.True(t, data.SessionSnapshot.LoggedIn)
}

func TestClientProvider_Identity(t *testing.T) {
	p := NewClientProvider()
	require.False(t, p.Hydrated())

	first := p.GetStores(leoData())
	second := p.GetStores(&InitialData{SessionSnapshot: &SessionSnapshot{}})
	third := p.GetStores(nil)

	assert.True(t, p.Hydrated())
	assert.Same(t, first, second)
	assert.Same(t, first.Session(), second.Session())
	assert.Same(t, first.Session(), third.Session())
	assert.True(t, second.Session().LoggedIn())
	assert.Equal(t, ModeClient, p.Mode())
}

func TestClientProvider_FirstCallWithoutData(t *testing.T) {
	p := NewClientProvider()

	first := p.GetStores(nil)
	second := p.GetStores(leoData())

	assert.Same(t, first, second)
	assert.False(t, second.Session().LoggedIn())
}

func TestClientProvider_ConcurrentFirstUse(t *testing.T) {
	p := NewClientProvider()

	const workers = 16
	got := make([]*Registry, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = p.GetStores(leoData())
		}()
	}
	wg.Wait()

	for _, reg := range got {
		assert.Same(t, got[0], reg)
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "server", ModeServer.String())
	assert.Equal(t, "client", ModeClient.String())
	assert.Equal(t, "unknown", Mode(7).String())
}
