package hudfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akmonengine/arena/hud"
	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

type viewer struct {
	ws     *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
	id     string
}

func (v *viewer) writeLoop(ctx context.Context, log zerolog.Logger) {
	for {
		select {
		case data := <-v.sendCh:
			ctx2, cancel := context.WithTimeout(ctx, writeTimeout)
			err := v.ws.Write(ctx2, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Debug().Err(err).Str("viewer", v.id).Msg("Write error")
				v.close(websocket.StatusGoingAway)
				return
			}
		case <-v.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (v *viewer) close(status websocket.StatusCode) {
	v.once.Do(func() {
		close(v.done)
		v.ws.Close(status, "")
	})
}

// Hub streams HUD frames to websocket viewers. Viewers only receive; anything they send is discarded.
type Hub struct {
	Logger         zerolog.Logger
	OriginPatterns []string

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	closed  bool
	nextID  atomic.Uint64
	dropped atomic.Uint64
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Logger:  log,
		viewers: make(map[*viewer]struct{}),
	}
}

// Publish encodes frame once and queues it for every viewer. It never blocks:
// a viewer whose buffer is full misses the frame.
func (h *Hub) Publish(frame hud.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.Logger.Error().Err(err).Uint64("tick", frame.Tick).Msg("Failed to encode frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for v := range h.viewers {
		select {
		case v.sendCh <- data:
		default:
			h.dropped.Add(1)
		}
	}
}

// Viewers returns the number of connected viewers
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Dropped returns the number of frames skipped for slow viewers
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(h.serveWS)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	acceptOpts := &websocket.AcceptOptions{}
	if len(h.OriginPatterns) > 0 {
		acceptOpts.OriginPatterns = h.OriginPatterns
	}

	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("Websocket accept failed")
		return
	}

	v := &viewer{
		ws:     ws,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		id:     fmt.Sprintf("viewer-%d", h.nextID.Add(1)),
	}
	if !h.register(v) {
		ws.Close(websocket.StatusTryAgainLater, "feed closed")
		return
	}
	defer h.unregister(v)

	h.Logger.Debug().Str("viewer", v.id).Msg("Viewer connected")

	// discards incoming messages, canceled once the peer goes away
	readCtx := ws.CloseRead(context.Background())
	go v.writeLoop(context.Background(), h.Logger)

	select {
	case <-v.done:
	case <-readCtx.Done():
		v.close(websocket.StatusNormalClosure)
	}
	h.Logger.Debug().Str("viewer", v.id).Msg("Viewer disconnected")
}

func (h *Hub) register(v *viewer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.viewers[v] = struct{}{}
	return true
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	delete(h.viewers, v)
	h.mu.Unlock()
}

// Close disconnects every viewer and refuses new ones
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	viewers := make([]*viewer, 0, len(h.viewers))
	for v := range h.viewers {
		viewers = append(viewers, v)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, v := range viewers {
		v := v
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.close(websocket.StatusNormalClosure)
		}()
	}
	wg.Wait()

	return nil
}
