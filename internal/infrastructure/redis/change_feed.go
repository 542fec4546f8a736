package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Peglo98/SocialSport2/internal/hub"
	"github.com/Peglo98/SocialSport2/internal/pkg/logger"
)

// ChangeFeed はRedis Pub/Subによるプロセス間のトピック変更通知
// ペイロードはトピック名のみで、スナップショット本体は運ばない。
// 受信側はストアから読み直して自分のHubに配信するため、
// 通知の欠落や重複があっても配信内容が壊れることはない
type ChangeFeed struct {
	client     *redis.Client
	channel    string
	instanceID string
}

// NewChangeFeed はChangeFeedを作成する
// instanceID は自分が発行した通知を受信時に無視するための識別子
func NewChangeFeed(client *redis.Client, channel, instanceID string) *ChangeFeed {
	return &ChangeFeed{client: client, channel: channel, instanceID: instanceID}
}

// Announce はトピックの変更を他のプロセスへ通知する
func (f *ChangeFeed) Announce(ctx context.Context, topic hub.Topic) error {
	payload := f.instanceID + "|" + string(topic)
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("トピック変更の発行に失敗しました: %w", err)
	}
	return nil
}

// Listen は他のプロセスが発行したトピック変更を受信してonChangeを呼ぶ
// ctx がキャンセルされるまでブロックする。自分が発行した通知は無視する
func (f *ChangeFeed) Listen(ctx context.Context, onChange func(topic hub.Topic)) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			sender, topic, found := strings.Cut(msg.Payload, "|")
			if !found {
				logger.Warn("不正なトピック通知を受信", zap.String("payload", msg.Payload))
				continue
			}
			if sender == f.instanceID {
				continue
			}
			onChange(hub.Topic(topic))
		}
	}
}
