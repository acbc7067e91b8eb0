// internal/httpserver/ws.go
//
// Live play over a WebSocket at /ws?gameId=<id>.
// Every frame is a JSON envelope {type, payload}:
//   client → server: select {index} | ack | new {width,height} | state
//   server → client: state {gameId, outcome?, acknowledged?, state} | error {error}
//
// A connection drives one game at a time; "new" replaces it (or starts one
// when the connection has none). Moves share the HTTP code paths, so history
// rows and daily results are recorded the same way.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tripletmatch/internal/game"
	"github.com/robalobadob/tripletmatch/internal/store"
)

type wsType string

const (
	wsSelect wsType = "select"
	wsAck    wsType = "ack"
	wsNew    wsType = "new"
	wsState  wsType = "state"
	wsError  wsType = "error"
)

const wsPingEvery = 15 * time.Second

// wsMessage is the envelope for every frame.
type wsMessage struct {
	Type    wsType          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsStatePayload answers every successful request.
type wsStatePayload struct {
	GameID       string        `json:"gameId"`
	Outcome      game.Outcome  `json:"outcome,omitempty"`
	Acknowledged *bool         `json:"acknowledged,omitempty"`
	State        game.Snapshot `json:"state"`
}

type wsErrorPayload struct {
	Error string `json:"error"`
}

func newWsMessage(t wsType, payload any) (wsMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return wsMessage{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return wsMessage{Type: t, Payload: b}, nil
}

// handleWS upgrades the connection and serves requests until the client leaves.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" && origin != s.cfg.ClientOrigin {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}
	// The anonymous cookie has to be set before the upgrade response is written.
	o := s.ownerOf(w, r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Debug().Err(err).Msg("ws accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go keepAlive(ctx, conn)

	c := &wsConn{srv: s, conn: conn, owner: o, gameID: r.URL.Query().Get("gameId")}
	if c.gameID != "" {
		c.reply(ctx, wsMessage{Type: wsState})
	}

	for {
		var msg wsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				log.Debug().Err(err).Str("gameId", c.gameID).Msg("ws read")
			}
			return
		}
		if err := c.reply(ctx, msg); err != nil {
			log.Debug().Err(err).Str("gameId", c.gameID).Msg("ws write")
			return
		}
	}
}

// keepAlive pings until ctx ends; a failed ping closes the connection.
func keepAlive(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(wsPingEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, wsPingEvery)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				_ = conn.Close(websocket.StatusGoingAway, "ping timeout")
				return
			}
		}
	}
}

// wsConn is the per-connection state. Only the read loop touches it.
type wsConn struct {
	srv    *Server
	conn   *websocket.Conn
	owner  store.Owner
	gameID string
}

// reply handles one request and writes the answer.
func (c *wsConn) reply(ctx context.Context, msg wsMessage) error {
	res, err := c.handle(ctx, msg)
	if err != nil {
		res, err = newWsMessage(wsError, wsErrorPayload{Error: c.srv.errorText(err)})
		if err != nil {
			return err
		}
	}
	return wsjson.Write(ctx, c.conn, res)
}

func (c *wsConn) handle(ctx context.Context, msg wsMessage) (wsMessage, error) {
	out := wsStatePayload{GameID: c.gameID}
	var err error

	switch msg.Type {
	case wsSelect:
		var p struct {
			Index *int `json:"index"`
		}
		if json.Unmarshal(msg.Payload, &p) != nil || p.Index == nil {
			return wsMessage{}, errBadMessage
		}
		out.Outcome, out.State, err = c.srv.selectCard(ctx, c.owner, c.gameID, *p.Index)

	case wsAck:
		var ok bool
		ok, out.State, err = c.srv.acknowledge(ctx, c.owner, c.gameID)
		out.Acknowledged = &ok

	case wsNew:
		var p newGameReq
		if len(msg.Payload) > 0 && json.Unmarshal(msg.Payload, &p) != nil {
			return wsMessage{}, errBadMessage
		}
		if p.Width == 0 && p.Height == 0 {
			p.Width, p.Height = defaultWidth, defaultHeight
		}
		var id string
		if c.gameID == "" {
			id, out.State, err = c.srv.startGame(ctx, c.owner, "free", p.Width, p.Height, c.srv.engine)
		} else {
			id, out.State, err = c.srv.replaceGame(ctx, c.owner, c.gameID, p.Width, p.Height)
		}
		if err == nil {
			c.gameID, out.GameID = id, id
		}

	case wsState:
		out.State, err = c.srv.snapshot(ctx, c.owner, c.gameID)

	default:
		return wsMessage{}, errBadMessage
	}

	if err != nil {
		return wsMessage{}, err
	}
	return newWsMessage(wsState, out)
}

var errBadMessage = errors.New("bad_message")

// errorText is the client-facing text for err, matching the HTTP error bodies.
func (s *Server) errorText(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, game.ErrConfig), errors.Is(err, errDailyResize), errors.Is(err, errBadMessage):
		return err.Error()
	default:
		log.Error().Err(err).Msg("ws operation failed")
		return "internal"
	}
}
