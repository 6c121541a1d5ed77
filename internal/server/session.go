package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/conneroisu/sprout/internal/app"
	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/router"
	"github.com/conneroisu/sprout/internal/view"
)

// clientMessage is a client-to-server message.
type clientMessage struct {
	Type  string `json:"type"`
	Page  string `json:"page,omitempty"`
	Index *int   `json:"index,omitempty"`
	Path  string `json:"path,omitempty"`
}

// session runs one program for one live client. All of its methods are
// called from the connection's read loop, so the program is only ever
// driven from one goroutine.
type session struct {
	server  *Server
	client  *Client
	history *remoteHistory
	program *app.Program
}

func newSession(s *Server, client *Client) *session {
	history := newRemoteHistory(client)
	r := router.New(s.current().table, history)

	return &session{
		server:  s,
		client:  client,
		history: history,
		program: app.NewProgram(r, client.logger),
	}
}

// init synchronises the program with the location the page was served at.
// The browser already shows that page, so nothing is sent back.
func (s *session) init(ctx context.Context, rawPath string) error {
	u, err := router.ParseURL(rawPath)
	if err != nil {
		u = router.NewURL()
	}
	s.history.sync(u)
	s.program.Init(ctx, u)

	return err
}

func (s *session) handle(ctx context.Context, data []byte) error {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("malformed message: %w", err)
	}

	switch msg.Type {
	case "navigate":
		intent, err := msg.intent()
		if err != nil {
			return err
		}
		if _, err := s.program.Dispatch(ctx, intent); err != nil && !siteerrors.IsHistoryUnavailable(err) {
			return err
		}
	case "popstate":
		u, err := router.ParseURL(msg.Path)
		if err != nil {
			return fmt.Errorf("malformed popstate path %q: %w", msg.Path, err)
		}
		s.history.sync(u)
		s.program.Popstate(ctx, u)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return s.render(ctx)
}

// intent converts a navigate message into a Route* message.
func (m clientMessage) intent() (router.Message, error) {
	page, ok := router.ParsePage(m.Page)
	if !ok {
		return router.Message{}, fmt.Errorf("unknown page %q", m.Page)
	}
	if m.Index == nil {
		return router.RoutePage(page), nil
	}
	if page != router.PageGuide {
		return router.Message{}, fmt.Errorf("page %q has no sub-pages", m.Page)
	}

	return router.RouteSubpage(*m.Index), nil
}

func (s *session) render(ctx context.Context) error {
	data := view.Data{
		Model:   s.program.Model(),
		Site:    s.server.current().site,
		Version: s.server.version,
	}

	var buf bytes.Buffer
	if err := view.Body(data).Render(ctx, &buf); err != nil {
		return siteerrors.ErrRender("body", err)
	}

	return s.client.enqueue(frame{
		Type:    frameRender,
		Title:   view.Title(data),
		Content: buf.String(),
	})
}
