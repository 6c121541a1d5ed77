package server

import (
	"context"
	"sync"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/router"
)

// remoteHistory is the browser's history stack seen from the server. Push
// and replace are forwarded to the client as frames; the location is a
// mirror kept in step by those frames and by the client's popstate
// reports.
type remoteHistory struct {
	mutex    sync.Mutex
	client   *Client
	location router.URL
}

func newRemoteHistory(client *Client) *remoteHistory {
	return &remoteHistory{client: client}
}

func (h *remoteHistory) Location() (router.URL, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.location, nil
}

func (h *remoteHistory) Apply(ctx context.Context, op router.HistoryOp) error {
	if err := ctx.Err(); err != nil {
		return siteerrors.ErrHistoryUnavailable(err)
	}

	var kind string
	switch op.Kind {
	case router.OpPush:
		kind = framePush
	case router.OpReplace:
		kind = frameReplace
	default:
		return nil
	}

	if err := h.client.enqueue(frame{Type: kind, URL: op.URL.String()}); err != nil {
		return siteerrors.ErrHistoryUnavailable(err)
	}

	h.sync(op.URL)

	return nil
}

// sync records a location the browser reached on its own.
func (h *remoteHistory) sync(u router.URL) {
	h.mutex.Lock()
	h.location = u
	h.mutex.Unlock()
}
