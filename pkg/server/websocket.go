package server

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/searchroute/internal/errors"
	"github.com/vango-dev/searchroute/pkg/history"
	"github.com/vango-dev/searchroute/pkg/routepath"
	"github.com/vango-dev/searchroute/pkg/routestate"
	"github.com/vango-dev/searchroute/pkg/routing"
	"github.com/vango-dev/searchroute/pkg/statemap"
)

// Message types exchanged on /ws.
const (
	MessageNavigate = "navigate"
	MessageState    = "state"
	MessageBack     = "back"
	MessageRoute    = "route"
	MessageHistory  = "history"
	MessageError    = "error"
)

var errNoCurrentPage = stderrors.New("relative href before any navigate")

// writeWait bounds a single frame write.
const writeWait = 10 * time.Second

// ClientMessage is a message sent by a live client.
type ClientMessage struct {
	Type    string            `json:"type"`
	Href    string            `json:"href,omitempty"`
	UIState *statemap.UiState `json:"uiState,omitempty"`
}

// ServerMessage is a message sent to a live client.
type ServerMessage struct {
	Type       string                 `json:"type"`
	URL        string                 `json:"url,omitempty"`
	RouteState *routestate.RouteState `json:"routeState,omitempty"`
	UIState    *statemap.UiState      `json:"uiState,omitempty"`
	Title      string                 `json:"title,omitempty"`
	Mode       string                 `json:"mode,omitempty"`
	Code       string                 `json:"code,omitempty"`
	Message    string                 `json:"message,omitempty"`
}

// session is one live WebSocket client with its own history.
type session struct {
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	histMu  sync.Mutex
	history *history.History

	closeOnce sync.Once
	done      chan struct{}
}

// handleWebSocket upgrades the connection and runs the session until the
// client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.metrics.RecordWebSocketError(err)
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		server: s,
		conn:   conn,
		logger: s.logger.With("remote", s.clientIP(r)),
		done:   make(chan struct{}),
	}
	s.addSession(sess)
	sess.logger.Debug("session opened")

	go sess.pingLoop(s.config.PingInterval)
	sess.readLoop()
}

// readLoop reads messages until the connection fails or is closed.
func (sess *session) readLoop() {
	defer sess.close(websocket.CloseNormalClosure, "")

	cfg := sess.server.config
	sess.conn.SetReadLimit(cfg.MaxMessageSize)
	readTimeout := 2 * cfg.PingInterval
	sess.conn.SetReadDeadline(time.Now().Add(readTimeout))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				sess.server.metrics.RecordWebSocketError(err)
				sess.logger.Warn("read error", "error", err)
			}
			return
		}
		sess.conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.server.metrics.RecordWebSocketError(err)
			sess.sendError(errors.New("E103").Wrap(err).WithDetail(err.Error()))
			continue
		}
		sess.server.metrics.RecordWebSocketMessage(msg.Type)
		sess.handle(msg)
	}
}

func (sess *session) handle(msg ClientMessage) {
	switch msg.Type {
	case MessageNavigate:
		sess.handleNavigate(msg)
	case MessageState:
		sess.handleState(msg)
	case MessageBack:
		sess.handleBack()
	default:
		sess.sendError(errors.New("E104").WithDetail("Got type " + strconv.Quote(msg.Type)))
	}
}

// handleNavigate loads the page at href.
func (sess *session) handleNavigate(msg ClientMessage) {
	loc, err := sess.location(msg.Href)
	if err != nil {
		sess.sendError(err)
		return
	}

	sess.logger.Debug("navigate", "path", loc.PathAndQuery())

	router := sess.server.router
	rs := router.ParseURL(loc)
	sess.server.metrics.RecordURLParse()
	url := router.CreateURL(rs, loc)
	sess.server.metrics.RecordURLBuild()

	title := router.WindowTitle(rs)
	sess.record(history.Entry{URL: url, Title: title})
	sess.sendRoute(url, rs, title)
}

// handleState turns a widget state into the next URL.
func (sess *session) handleState(msg ClientMessage) {
	loc, err := sess.location(msg.Href)
	if err != nil {
		sess.sendError(err)
		return
	}
	if msg.UIState == nil {
		sess.sendError(errors.New("E103").WithDetail("A state message needs a uiState"))
		return
	}

	router := sess.server.router
	rs := statemap.StateToRoute(*msg.UIState)
	url := router.CreateURL(rs, loc)
	sess.server.metrics.RecordURLBuild()

	title := router.WindowTitle(rs)
	sess.record(history.Entry{URL: url, Title: title})
	sess.sendRoute(url, rs, title)
}

// handleBack returns to the previous history entry. With nothing to go
// back to, the current entry is sent again.
func (sess *session) handleBack() {
	h := sess.currentHistory()
	if h == nil {
		sess.sendError(errors.New("E100").WithDetail("Nothing has been navigated to yet"))
		return
	}

	// A pending debounced write is what the user sees; commit it first.
	h.Flush()
	entry, _ := h.Back()

	loc, err := routing.ParseLocation(entry.URL)
	if err != nil {
		sess.sendError(errors.New("E101").Wrap(err))
		return
	}
	rs := sess.server.router.ParseURL(loc)
	sess.server.metrics.RecordURLParse()
	sess.sendRoute(entry.URL, rs, entry.Title)
}

// location parses href and checks that it is a search page. A href that
// starts with "/" is resolved against the current history entry.
func (sess *session) location(href string) (routing.Location, *errors.Error) {
	var (
		loc routing.Location
		err error
	)
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		loc, err = sess.resolve(href)
	} else {
		loc, err = routing.ParseLocation(href)
	}
	if err != nil {
		return routing.Location{}, errors.New("E101").Wrap(err).WithDetail(err.Error())
	}
	if !sess.server.router.Anchor().Matches(loc.Pathname) {
		return routing.Location{}, errors.New("E100").
			WithDetail(loc.Pathname + " is not below /" + sess.server.router.Anchor().Name())
	}
	return loc, nil
}

// resolve turns a relative navigation target into a location on the
// session's current page.
func (sess *session) resolve(target string) (routing.Location, error) {
	h := sess.currentHistory()
	if h == nil {
		return routing.Location{}, errNoCurrentPage
	}
	path, err := routepath.CleanTarget(target)
	if err != nil {
		return routing.Location{}, err
	}
	current, err := routing.ParseLocation(h.Current().URL)
	if err != nil {
		return routing.Location{}, err
	}
	return current.Resolve(path)
}

// record writes e to the session history, creating it on first use.
func (sess *session) record(e history.Entry) {
	sess.histMu.Lock()
	h := sess.history
	if h == nil {
		opts := append([]history.Option{}, sess.server.config.HistoryOptions...)
		opts = append(opts, history.OnWrite(sess.onHistoryWrite))
		sess.history = history.New(e, opts...)
		sess.histMu.Unlock()
		// The first entry is the page the client already shows.
		sess.onHistoryWrite(e, history.ModeReplace)
		return
	}
	sess.histMu.Unlock()

	h.Write(e)
}

func (sess *session) currentHistory() *history.History {
	sess.histMu.Lock()
	defer sess.histMu.Unlock()
	return sess.history
}

// onHistoryWrite runs on the history's timer goroutine.
func (sess *session) onHistoryWrite(e history.Entry, mode history.Mode) {
	sess.server.metrics.RecordHistoryWrite(mode.String())
	sess.send(ServerMessage{
		Type:  MessageHistory,
		URL:   e.URL,
		Title: e.Title,
		Mode:  mode.String(),
	})
}

func (sess *session) sendRoute(url string, rs routestate.RouteState, title string) {
	ui := statemap.RouteToState(rs)
	sess.send(ServerMessage{
		Type:       MessageRoute,
		URL:        url,
		RouteState: &rs,
		UIState:    &ui,
		Title:      title,
	})
}

func (sess *session) sendError(err *errors.Error) {
	sess.logger.Debug("message rejected", "code", err.Code, "detail", err.Detail)
	sess.send(ServerMessage{
		Type:    MessageError,
		Code:    err.Code,
		Message: err.Message,
	})
}

func (sess *session) send(msg ServerMessage) {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	select {
	case <-sess.done:
		return
	default:
	}

	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteJSON(msg); err != nil {
		sess.server.metrics.RecordWebSocketError(err)
		sess.logger.Debug("write error", "error", err)
	}
}

func (sess *session) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.done:
			return
		case <-ticker.C:
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// close ends the session once. It is safe to call from any goroutine.
func (sess *session) close(code int, reason string) {
	sess.closeOnce.Do(func() {
		// Stop timers before the connection goes away so no write races it.
		if h := sess.currentHistory(); h != nil {
			h.Close()
		}

		sess.writeMu.Lock()
		close(sess.done)
		sess.writeMu.Unlock()

		msg := websocket.FormatCloseMessage(code, reason)
		_ = sess.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = sess.conn.Close()

		sess.server.removeSession(sess)
		sess.logger.Debug("session closed")
	})
}
