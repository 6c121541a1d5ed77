// Package app holds the site's model and the update loop that keeps it in
// step with the browser location.
package app

import (
	"context"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/conneroisu/sprout/internal/router"
)

// Model is the page selector of one running site instance.
type Model struct {
	Page      router.Page
	GuidePage int
}

// DefaultModel shows the home page.
func DefaultModel() Model {
	return Model{Page: router.PageHome}
}

// Update is the only place the model changes. It applies Change* messages
// and ignores intents, which must go through the router first.
func Update(model Model, msg router.Message) Model {
	switch msg.Kind {
	case router.KindChangePage:
		model.Page = msg.Page
	case router.KindChangeSubpage:
		model.Page = msg.Page
		model.GuidePage = msg.Index
	}

	return model
}

// Program drives one model from one goroutine. Browser-driven events go
// through Resolve and never touch history; intents go through Navigate,
// which mutates history exactly once, and the returned Change* message is
// then applied here. Dispatch never re-enters itself.
type Program struct {
	model    Model
	router   *router.Router
	logger   logging.Logger
	handler  *siteerrors.ErrorHandler
	location router.URL
}

// NewProgram builds a program on the default model.
func NewProgram(r *router.Router, logger logging.Logger) *Program {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("program")

	return &Program{
		model:   DefaultModel(),
		router:  r,
		logger:  logger,
		handler: siteerrors.NewErrorHandler(logger),
	}
}

// Model returns the current model.
func (p *Program) Model() Model {
	return p.model
}

// Location returns the URL the model was last synchronised with.
func (p *Program) Location() router.URL {
	return p.location
}

// Init synchronises the model with the URL the page was loaded at.
func (p *Program) Init(ctx context.Context, u router.URL) Model {
	return p.external(ctx, u, "init")
}

// Popstate synchronises the model after a back/forward navigation.
func (p *Program) Popstate(ctx context.Context, u router.URL) Model {
	return p.external(ctx, u, "popstate")
}

func (p *Program) external(ctx context.Context, u router.URL, source string) Model {
	msg, err := p.router.Resolve(u)
	if err != nil {
		p.handler.Handle(ctx, err)
	}
	p.logger.Debug(ctx, "Location resolved",
		"source", source,
		"path", u.String(),
		"message", msg.String())

	p.location = u
	p.model = Update(p.model, msg)

	return p.model
}

// Dispatch applies msg. Intents are handed to the router; a failed history
// mutation is logged and the state change is still applied, so the model
// stays correct even if the address bar lags behind.
func (p *Program) Dispatch(ctx context.Context, msg router.Message) (Model, error) {
	if !msg.IsIntent() {
		p.model = Update(p.model, msg)

		return p.model, nil
	}

	transition, err := p.router.Navigate(ctx, msg)
	if err != nil && !siteerrors.IsHistoryUnavailable(err) {
		p.handler.Handle(ctx, err)

		return p.model, err
	}
	if err != nil {
		p.handler.Handle(ctx, err)
	}

	p.logger.Debug(ctx, "Navigated",
		"intent", msg.String(),
		"op", transition.Op.Kind.String(),
		"url", transition.Op.URL.String())

	p.location = transition.Op.URL
	p.model = Update(p.model, transition.Msg)

	return p.model, err
}
