package client

import (
	"context"
	"sync"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/auth"
	"github.com/tapcard/tapcard/pkg/sdk"
)

// Provider lazily constructs the session and the typed clients on top of
// the file-backed credential store. Every command in one invocation
// shares the same session instance.
type Provider struct {
	serverURL string

	once    sync.Once
	session *sdk.SessionManager
	cards   *sdk.CardClient
	access  *sdk.AccessController
	err     error
}

// NewProvider constructs a Provider bound to the given server URL.
func NewProvider(serverURL string) *Provider {
	return &Provider{serverURL: serverURL}
}

func (p *Provider) build(ctx context.Context) {
	p.once.Do(func() {
		store, err := auth.NewFileStore()
		if err != nil {
			p.err = err
			return
		}
		session := sdk.NewSessionManager(p.serverURL, sdk.WithCredentialStore(store))
		if err := session.Initialize(ctx); err != nil {
			p.err = err
			return
		}
		gateway := sdk.NewGateway(session)
		cards := sdk.NewCardClient(gateway)

		p.session = session
		p.cards = cards
		p.access = sdk.NewAccessController(session, cards)
	})
}

// Session returns the shared session manager, initialized from stored
// credentials on first use.
func (p *Provider) Session(ctx context.Context) (*sdk.SessionManager, error) {
	p.build(ctx)
	return p.session, p.err
}

// Cards returns the typed card client.
func (p *Provider) Cards(ctx context.Context) (*sdk.CardClient, error) {
	p.build(ctx)
	return p.cards, p.err
}

// Access returns the access controller guarding card transitions.
func (p *Provider) Access(ctx context.Context) (*sdk.AccessController, error) {
	p.build(ctx)
	return p.access, p.err
}
