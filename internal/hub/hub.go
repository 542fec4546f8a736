package hub

import "sync"

// Hub はトピックごとの最新スナップショットを保持し、購読者へ配信する
// 書き込み側と読み取り側を疎結合にするための中継点で、ストアを変更する
// ことはない。配信は「最新状態のみ」：遅い購読者は中間状態を飛ばすことは
// あっても、新しい状態の後に古い状態を受け取ることはない
type Hub struct {
	mu     sync.RWMutex
	topics map[Topic]*topicState
	nextID uint64
}

type topicState struct {
	seq      uint64
	version  uint64
	value    any
	hasValue bool
	subs     map[uint64]*Subscription
}

// New は新しいHubを作成する
func New() *Hub {
	return &Hub{topics: make(map[Topic]*topicState)}
}

func (h *Hub) state(topic Topic) *topicState {
	st, ok := h.topics[topic]
	if !ok {
		st = &topicState{subs: make(map[uint64]*Subscription)}
		h.topics[topic] = st
	}
	return st
}

// Publish はトピックの最新スナップショットを差し替え、全購読者を起こす
// version はストア側のコミット順を表す単調キー。発行側のゴルーチンが
// コミット順と逆順に到着しても、保持済みより古いスナップショットは
// 破棄されるため、購読者が新しい状態の後に古い状態を見ることはない
func (h *Hub) Publish(topic Topic, version uint64, value any) {
	h.mu.Lock()
	st := h.state(topic)
	if st.hasValue && version <= st.version {
		h.mu.Unlock()
		return
	}
	st.seq++
	st.version = version
	st.value = value
	st.hasValue = true
	subs := make([]*Subscription, 0, len(st.subs))
	for _, s := range st.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.wake()
	}
}

// Subscribe はトピックの購読を開始する
// 既にスナップショットがあれば、onUpdate はまずその値で呼ばれる
// onUpdate は購読ごとの専用ゴルーチンから直列に呼ばれる
func (h *Hub) Subscribe(topic Topic, onUpdate func(value any)) *Subscription {
	h.mu.Lock()
	st := h.state(topic)
	h.nextID++
	s := &Subscription{
		hub:    h,
		topic:  topic,
		id:     h.nextID,
		fn:     onUpdate,
		wakeCh: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	st.subs[s.id] = s
	hasInitial := st.hasValue
	h.mu.Unlock()

	if hasInitial {
		s.wake()
	}
	go s.loop()
	return s
}

// latest は after より新しいスナップショットがあればそれを返す
func (h *Hub) latest(topic Topic, after uint64) (any, uint64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st, ok := h.topics[topic]
	if !ok || !st.hasValue || st.seq <= after {
		return nil, after, false
	}
	return st.value, st.seq, true
}

func (h *Hub) remove(topic Topic, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.topics[topic]; ok {
		delete(st.subs, id)
	}
}

// ActiveTopics は購読者が1人以上いるトピックの一覧を返す
func (h *Hub) ActiveTopics() []Topic {
	h.mu.RLock()
	defer h.mu.RUnlock()
	topics := make([]Topic, 0, len(h.topics))
	for topic, st := range h.topics {
		if len(st.subs) > 0 {
			topics = append(topics, topic)
		}
	}
	return topics
}

// SubscriberCount はトピックの購読者数を返す
func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if st, ok := h.topics[topic]; ok {
		return len(st.subs)
	}
	return 0
}

// Subscription は1つの購読を表す
type Subscription struct {
	hub    *Hub
	topic  Topic
	id     uint64
	fn     func(value any)

	wakeCh chan struct{}
	done   chan struct{}
	once   sync.Once

	// mu は配信とキャンセルを直列化する
	// Cancel はこのロックで進行中の配信を待ってから戻るため、
	// Cancel が戻った後にコールバックが呼ばれることはない
	mu        sync.Mutex
	cancelled bool
	delivered uint64
}

func (s *Subscription) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

func (s *Subscription) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wakeCh:
			s.deliver()
		}
	}
}

func (s *Subscription) deliver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	value, seq, ok := s.hub.latest(s.topic, s.delivered)
	if !ok {
		return
	}
	s.delivered = seq
	s.fn(value)
}

// Topic は購読対象のトピックを返す
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Cancel は購読を停止する。何度呼んでも安全
// コールバックの中から呼ぶとデッドロックするため、呼び出し側の
// ゴルーチンから呼ぶこと
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.mu.Lock()
		s.cancelled = true
		s.mu.Unlock()
		s.hub.remove(s.topic, s.id)
		close(s.done)
	})
}
