package hub

import "strings"

// Topic は購読対象のストリームを識別する
// イベント一覧・単一イベント・イベントごとのチャットの3種類がある
type Topic string

// TopicEvents はイベント一覧のトピック
const TopicEvents Topic = "events"

const (
	eventPrefix = "event:"
	chatPrefix  = "chat:"
)

// EventTopic は単一イベントのトピックを返す
func EventTopic(eventID string) Topic {
	return Topic(eventPrefix + eventID)
}

// ChatTopic はイベントのチャットのトピックを返す
func ChatTopic(eventID string) Topic {
	return Topic(chatPrefix + eventID)
}

// EventID はトピックが単一イベントを指す場合にそのIDを返す
func (t Topic) EventID() (string, bool) {
	return strings.CutPrefix(string(t), eventPrefix)
}

// ChatEventID はトピックがチャットを指す場合にそのイベントIDを返す
func (t Topic) ChatEventID() (string, bool) {
	return strings.CutPrefix(string(t), chatPrefix)
}
