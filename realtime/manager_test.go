package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-guest/utils"
)

// fakeBroker adalah broker websocket minimal untuk test: mencatat frame
// subscribe yang diterima dan bisa mendorong envelope ke client.
type fakeBroker struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu        sync.Mutex
	conns     []*websocket.Conn
	subs      [][]string // topic per koneksi, urut kedatangan
	connCount int
}

func newFakeBroker(t *testing.T) *fakeBroker {
	t.Helper()
	utils.InitLogger()
	b := &fakeBroker{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		b.mu.Lock()
		b.conns = append(b.conns, conn)
		b.subs = append(b.subs, nil)
		idx := len(b.conns) - 1
		b.connCount++
		b.mu.Unlock()

		for {
			var frame struct {
				Action string `json:"action"`
				Topic  string `json:"topic"`
			}
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			if frame.Action == "subscribe" {
				b.mu.Lock()
				b.subs[idx] = append(b.subs[idx], frame.Topic)
				b.mu.Unlock()
			}
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBroker) url() string {
	return "ws" + strings.TrimPrefix(b.srv.URL, "http")
}

func (b *fakeBroker) connections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connCount
}

// topicsOnLatest mengembalikan topic yang di-subscribe di koneksi terakhir.
func (b *fakeBroker) topicsOnLatest() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return nil
	}
	out := make([]string, len(b.subs[len(b.subs)-1]))
	copy(out, b.subs[len(b.subs)-1])
	return out
}

func (b *fakeBroker) push(t *testing.T, topic string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(map[string]json.RawMessage{
		"topic": json.RawMessage(fmt.Sprintf("%q", topic)),
		"data":  raw,
	})
	require.NoError(t, err)

	b.mu.Lock()
	defer b.mu.Unlock()
	conn := b.conns[len(b.conns)-1]
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// dropConnections menutup semua transport dari sisi broker.
func (b *fakeBroker) dropConnections() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.conns {
		_ = c.Close()
	}
}

func newTestManager(b *fakeBroker) *Manager {
	return NewManager(b.url(), 50*time.Millisecond, 25*time.Millisecond)
}

type recorder struct {
	mu       sync.Mutex
	payloads []string
}

func (r *recorder) handler(_ string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, string(payload))
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.payloads))
	copy(out, r.payloads)
	return out
}

func TestSubscribeBeforeConnectTriggersConnectThenSubscribe(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)
	defer m.Disconnect()

	rec := &recorder{}
	sub := m.Subscribe("table/7", rec.handler)
	assert.Equal(t, "table/7", sub.Topic)

	assert.Eventually(t, func() bool { return m.State() == StateConnected }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return len(b.topicsOnLatest()) == 1 && b.topicsOnLatest()[0] == "table/7"
	}, time.Second, 10*time.Millisecond)

	b.push(t, "table/7", map[string]string{"type": "TABLE_OPENED", "token": "abc"})
	assert.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, rec.all()[0], "TABLE_OPENED")
}

func TestConnectIsIdempotent(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)
	defer m.Disconnect()

	ready := make(chan struct{})
	m.Connect(func() { close(ready) })
	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("first connect never became ready")
	}

	// Sudah Connected: callback dipanggil langsung, tanpa transport kedua.
	called := false
	m.Connect(func() { called = true })
	assert.True(t, called)
	assert.Equal(t, 1, b.connections())
}

func TestConnectWhileConnectingQueuesCallback(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)
	defer m.Disconnect()

	var mu sync.Mutex
	var order []string
	m.Connect(func() { mu.Lock(); order = append(order, "first"); mu.Unlock() })
	m.Connect(func() { mu.Lock(); order = append(order, "second"); mu.Unlock() })

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, b.connections())
}

func TestReconnectReattachesSubscriptionsWithoutDuplicates(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)
	defer m.Disconnect()

	rec := &recorder{}
	m.Subscribe("table/3", rec.handler)
	m.Subscribe("menus", rec.handler)
	assert.Eventually(t, func() bool { return len(b.topicsOnLatest()) == 2 }, time.Second, 10*time.Millisecond)

	b.dropConnections()

	// transport baru dibuka dan kedua topic di-subscribe ulang, persis sekali
	assert.Eventually(t, func() bool { return b.connections() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return len(b.topicsOnLatest()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"table/3", "menus"}, b.topicsOnLatest())

	// satu pesan setelah reconnect diantar tepat sekali
	b.push(t, "table/3", map[string]string{"type": "ORDER_UPDATE"})
	assert.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestDisconnectTearsDownEverything(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)

	rec := &recorder{}
	m.Subscribe("table/3", rec.handler)
	assert.Eventually(t, func() bool { return m.State() == StateConnected }, time.Second, 10*time.Millisecond)

	m.Disconnect()
	assert.Equal(t, StateIdle, m.State())

	// intent sudah mati: tidak ada reconnect walau jeda reconnect lewat
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, b.connections())
	assert.Equal(t, StateIdle, m.State())
}

func TestPerTopicOrderingPreserved(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)
	defer m.Disconnect()

	rec := &recorder{}
	m.Subscribe("table/3", rec.handler)
	assert.Eventually(t, func() bool { return len(b.topicsOnLatest()) == 1 }, time.Second, 10*time.Millisecond)

	for i := 0; i < 10; i++ {
		b.push(t, "table/3", map[string]int{"seq": i})
	}

	assert.Eventually(t, func() bool { return len(rec.all()) == 10 }, 2*time.Second, 10*time.Millisecond)
	for i, payload := range rec.all() {
		assert.Contains(t, payload, fmt.Sprintf(`"seq":%d`, i))
	}
}

func TestMalformedBrokerFrameDoesNotKillReadLoop(t *testing.T) {
	b := newFakeBroker(t)
	m := newTestManager(b)
	defer m.Disconnect()

	rec := &recorder{}
	m.Subscribe("table/3", rec.handler)
	assert.Eventually(t, func() bool { return len(b.topicsOnLatest()) == 1 }, time.Second, 10*time.Millisecond)

	b.mu.Lock()
	conn := b.conns[len(b.conns)-1]
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))
	b.mu.Unlock()

	b.push(t, "table/3", map[string]string{"type": "ORDER_UPDATE"})
	assert.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 10*time.Millisecond)
}
