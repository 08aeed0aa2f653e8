package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/integrity"
	"github.com/stemsi/codetest-backend/internal/middleware"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
	ws "github.com/stemsi/codetest-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live test session to the candidate.
type WSHandler struct {
	live     *service.LiveService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(live *service.LiveService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		live:     live,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// TestStream godoc
// WS /ws/v1/candidate/tests/:id/stream?token=...
// Attaches to the candidate's live session. Admission errors are answered as
// JSON before the upgrade.
func (h *WSHandler) TestStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	testID := c.Param("id")

	// Boot (or find) the session first so admission failures get an HTTP status.
	if _, err := h.live.Attach(c.Request.Context(), testID, claims.Email, nil); err != nil {
		failFromError(c, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	wsLog := h.log.With().Str("test_id", testID).Str("email", claims.Email).Logger()
	conn := ws.NewConn(raw, wsLog)
	defer conn.Close()

	ls, err := h.live.Attach(c.Request.Context(), testID, claims.Email, conn)
	if err != nil {
		_, code := classify(err)
		conn.WriteError("", string(code), err.Error())
		return
	}
	defer h.live.Detach(ls)

	connCtx, cancel := context.WithCancel(context.Background())
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
	}()

	wsLog.Info().Msg("Candidate connected")
	conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Data: ls.Controller.Snapshot()})

	s := &wsSession{conn: conn, ls: ls, ctx: connCtx, wg: &inflight, log: wsLog}
	for {
		var msg ws.RequestPayload
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}
		s.dispatch(&msg)
	}
}

// wsSession handles the actions of one connection.
type wsSession struct {
	conn *ws.Conn
	ls   *service.LiveSession
	ctx  context.Context
	wg   *sync.WaitGroup
	log  zerolog.Logger
}

func (s *wsSession) dispatch(msg *ws.RequestPayload) {
	c := s.ls.Controller
	switch msg.Action {
	case ws.ActionState:
		s.conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Data: c.Snapshot()})

	case ws.ActionSaveDraft:
		s.reply(msg.Action, c.SaveDraft(msg.QuestionID, msg.Code, msg.Language, msg.CustomInput, msg.UseCustomInput))

	// Judge calls run off the read loop so attention events keep flowing.
	// Results arrive as session events.
	case ws.ActionRun:
		s.async(msg.Action, func(ctx context.Context) error {
			_, err := c.Run(ctx, msg.QuestionID)
			return err
		})
	case ws.ActionSubmitQuestion:
		s.async(msg.Action, func(ctx context.Context) error {
			_, err := c.SubmitQuestion(ctx, msg.QuestionID)
			return err
		})
	case ws.ActionRequestSubmit:
		s.reply(msg.Action, c.RequestSubmit(s.ctx, model.TriggerManual))
	case ws.ActionConfirmSubmit:
		s.async(msg.Action, c.ConfirmSubmit)
	case ws.ActionCancelSubmit:
		c.CancelSubmit()
		s.reply(msg.Action, nil)
	case ws.ActionRetry:
		s.async(msg.Action, c.Retry)

	case ws.ActionFocusLost:
		s.attention(integrity.EventFocusLost)
	case ws.ActionNavigateBack:
		s.attention(integrity.EventNavigateBack)

	case ws.ActionPing:
		s.conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
	default:
		s.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		s.conn.WriteError(msg.Action, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
	}
}

func (s *wsSession) attention(kind integrity.EventKind) {
	ev := integrity.Event{Kind: kind, At: time.Now()}
	if !s.ls.Attention.Push(ev) {
		s.ls.Controller.ReportAttention(s.ctx, kind)
	}
}

func (s *wsSession) async(action ws.Action, fn func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(s.ctx); err != nil {
			s.fail(action, err)
		}
	}()
}

func (s *wsSession) reply(action ws.Action, err error) {
	if err != nil {
		s.fail(action, err)
		return
	}
	s.conn.WriteTyped(ws.AckResponse{Event: ws.EventAck, Action: action})
}

func (s *wsSession) fail(action ws.Action, err error) {
	_, code := classify(err)
	if code == response.ErrInternal {
		s.log.Error().Err(err).Str("action", string(action)).Msg("Action failed")
	}
	s.conn.WriteError(action, string(code), response.GetMessage(code))
}
