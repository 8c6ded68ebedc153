package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// FeedClient subscribes to the catalog feed and buffers decoded events.
type FeedClient struct {
	t         *testing.T
	conn      *gorillaWS.Conn
	events    chan *websocket.Message
	closeOnce sync.Once
}

// NewFeedClient dials the catalog feed at url. The connection is closed when
// the test ends.
func NewFeedClient(t *testing.T, url string) *FeedClient {
	t.Helper()

	dialer := gorillaWS.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial catalog feed: %v", err)
	}

	fc := &FeedClient{
		t:      t,
		conn:   conn,
		events: make(chan *websocket.Message, 32),
	}
	go fc.listen()
	t.Cleanup(fc.Close)
	return fc
}

func (fc *FeedClient) listen() {
	defer close(fc.events)
	for {
		var msg websocket.Message
		if err := fc.conn.ReadJSON(&msg); err != nil {
			return
		}
		fc.events <- &msg
	}
}

func (fc *FeedClient) Close() {
	fc.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		fc.conn.WriteControl(gorillaWS.CloseMessage,
			gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""), deadline)
		fc.conn.Close()
	})
}

// Expect returns the payload of the next event of msgType, ignoring events
// of other types. The test fails if none arrives within timeout.
func (fc *FeedClient) Expect(msgType websocket.MessageType, timeout time.Duration) websocket.MoviePayload {
	fc.t.Helper()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			fc.t.Fatalf("no %s event within %s", msgType, timeout)
		case msg, ok := <-fc.events:
			if !ok {
				fc.t.Fatalf("feed closed before %s arrived", msgType)
			}
			if msg.Type == msgType {
				var payload websocket.MoviePayload
				if err := json.Unmarshal(msg.Payload, &payload); err != nil {
					fc.t.Fatalf("bad %s payload: %v", msgType, err)
				}
				return payload
			}
		}
	}
}
