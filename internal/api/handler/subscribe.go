package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/domain/event"
	"github.com/Peglo98/SocialSport2/internal/domain/message"
	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
	"github.com/Peglo98/SocialSport2/internal/pkg/metrics"
)

// SubscribeHandler はWebSocketでスナップショットを配信するハンドラー
// 接続直後に現在値を1回送り、以後は変更のたびに最新のスナップショット全体を送る。
// 差分は送らないため、クライアントは受信した値で手元の状態を丸ごと置き換えればよい
type SubscribeHandler struct {
	h        *hub.Hub
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func NewSubscribeHandler(h *hub.Hub, m *metrics.Metrics) *SubscribeHandler {
	return &SubscribeHandler{
		h:       h,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SnapshotEnvelope はWebSocketで送る1フレームの形式
type SnapshotEnvelope struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Events は全イベント一覧の購読
func (h *SubscribeHandler) Events(c echo.Context) error {
	return h.serve(c, hub.TopicEvents, "events")
}

// Event は単一イベントの購読
func (h *SubscribeHandler) Event(c echo.Context) error {
	return h.serve(c, hub.EventTopic(c.Param("id")), "event")
}

// Chat はイベントのチャット履歴の購読
func (h *SubscribeHandler) Chat(c echo.Context) error {
	return h.serve(c, hub.ChatTopic(c.Param("id")), "chat")
}

func (h *SubscribeHandler) serve(c echo.Context, topic hub.Topic, kind string) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.ActiveSubscriptions.WithLabelValues(kind).Inc()
		defer h.metrics.ActiveSubscriptions.WithLabelValues(kind).Dec()
	}

	sub := h.h.Subscribe(topic, func(value any) {
		envelope := SnapshotEnvelope{Topic: string(topic), Data: toSnapshotPayload(value)}
		if err := conn.WriteJSON(envelope); err != nil {
			logger.Debug("スナップショット送信に失敗、接続を閉じる",
				zap.String("topic", string(topic)), zap.Error(err))
			conn.Close()
		}
	})
	defer sub.Cancel()

	logger.Info("購読開始",
		zap.String("topic", string(topic)), zap.String("remote_ip", c.RealIP()))

	// 読み取りループは切断検知のためだけに回す
	// クライアントからのメッセージは無視する
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	logger.Info("購読終了", zap.String("topic", string(topic)))
	return nil
}

// toSnapshotPayload はドメインの値をAPIレスポンス形式に変換する
func toSnapshotPayload(value any) any {
	switch v := value.(type) {
	case *event.Event:
		return toEventResponse(v)
	case []*event.Event:
		responses := make([]EventResponse, len(v))
		for i, e := range v {
			responses[i] = toEventResponse(e)
		}
		return responses
	case []*message.Message:
		responses := make([]MessageResponse, len(v))
		for i, m := range v {
			responses[i] = toMessageResponse(m)
		}
		return responses
	default:
		return v
	}
}
