package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Websocket message types. Clients send the first three; everything else
// is sent by the server.
const (
	MsgSendMessage         = "send_message"
	MsgNewConversation     = "new_conversation"
	MsgGetFiles            = "get_files"
	MsgConversationStarted = "conversation_started"
	MsgTypingStart         = "typing_start"
	MsgTypingStop          = "typing_stop"
	MsgProgress            = "progress"
	MsgMessageResponse     = "message_response"
	MsgFileReady           = "file_ready"
	MsgFilesList           = "files_list"
	MsgError               = "error"
)

// Envelope is one websocket frame.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outgoing struct {
	Data any    `json:"data,omitempty"`
	Type string `json:"type"`
}

type sendMessage struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type conversationStarted struct {
	ConversationID string `json:"conversation_id"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
}

type fileReady struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Format string `json:"format"`
}

// Progress is the wire form of a task event.
type Progress struct {
	TaskID  string              `json:"task_id"`
	Event   types.TaskEventType `json:"event"`
	Message string              `json:"message,omitempty"`
	Action  string              `json:"action,omitempty"`
	Step    int                 `json:"step,omitempty"`
	Total   int                 `json:"total,omitempty"`
	Failed  bool                `json:"failed,omitempty"`
}

func progressOf(ev *types.TaskEvent) Progress {
	p := Progress{TaskID: ev.TaskID, Event: ev.Type, Message: ev.Message, Step: ev.Step, Total: ev.Total}
	if ev.Action != nil {
		p.Action = ev.Action.String()
	}
	if ev.Entry != nil {
		p.Failed = ev.Entry.Failed
	}
	return p
}

// wsClient serialises writes; nhooyr connections allow one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(ctx context.Context, typ string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wsjson.Write(ctx, c.conn, outgoing{Type: typ, Data: data})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.originPatterns})
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	c := &wsClient{conn: conn}
	if err := s.startConversation(ctx, c); err != nil {
		return
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				s.logger.Debugf("websocket client disconnected")
			default:
				s.logger.Debugf("websocket read ended: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			err = c.send(ctx, MsgError, errorData("invalid message"))
		} else {
			err = s.dispatch(ctx, c, env)
		}
		if err != nil {
			s.logger.Debugf("websocket write failed: %v", err)
			return
		}
	}
}

func errorData(msg string) map[string]string {
	return map[string]string{"message": msg}
}

func (s *Server) startConversation(ctx context.Context, c *wsClient) error {
	conv := s.conversations.NewConversation()
	started := conversationStarted{ConversationID: conv.ID()}
	if history := conv.History(1); len(history) > 0 {
		started.WelcomeMessage = history[0].Content
	}
	return c.send(ctx, MsgConversationStarted, started)
}

func (s *Server) dispatch(ctx context.Context, c *wsClient, env Envelope) error {
	switch env.Type {
	case MsgSendMessage:
		var msg sendMessage
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				return c.send(ctx, MsgError, errorData("invalid message"))
			}
		}
		return s.processMessage(ctx, c, msg)
	case MsgNewConversation:
		return s.startConversation(ctx, c)
	case MsgGetFiles:
		files, err := ListFiles(s.outputDir)
		if err != nil {
			return c.send(ctx, MsgError, errorData("Error getting files: "+err.Error()))
		}
		return c.send(ctx, MsgFilesList, files)
	default:
		return c.send(ctx, MsgError, errorData("unknown message type "+env.Type))
	}
}

func (s *Server) processMessage(ctx context.Context, c *wsClient, msg sendMessage) error {
	input := strings.TrimSpace(msg.Message)
	if input == "" {
		return c.send(ctx, MsgError, errorData("Empty message"))
	}
	if err := c.send(ctx, MsgTypingStart, nil); err != nil {
		return err
	}

	sink := func(ev *types.TaskEvent) {
		if err := c.send(ctx, MsgProgress, progressOf(ev)); err != nil {
			s.logger.Debugf("dropping progress event: %v", err)
		}
	}
	resp := s.conversations.Process(ctx, input, msg.ConversationID, sink)

	if err := s.sendResponse(ctx, c, resp); err != nil {
		return err
	}
	return c.send(ctx, MsgTypingStop, nil)
}

func (s *Server) sendResponse(ctx context.Context, c *wsClient, resp chat.Response) error {
	if resp.FileCreated {
		ready := fileReady{Name: resp.FileName, Path: resp.FilePath, Format: resp.OutputFormat}
		if err := c.send(ctx, MsgFileReady, ready); err != nil {
			return err
		}
	}
	return c.send(ctx, MsgMessageResponse, resp)
}
