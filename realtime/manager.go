package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-guest/utils"
)

// ConnState adalah posisi manager dalam lifecycle koneksi.
type ConnState string

const (
	StateIdle             ConnState = "idle"
	StateConnecting       ConnState = "connecting"
	StateConnected        ConnState = "connected"
	StateReconnectPending ConnState = "reconnect_pending"
)

// Handler menerima payload mentah untuk satu topic. Handler dipanggil dari
// satu read-loop goroutine, jadi pesan per topic selalu berurutan.
type Handler func(topic string, payload []byte)

// Subscription adalah handle hasil Subscribe. Tidak ada pembatalan per
// subscription; Disconnect membongkar semuanya sekaligus.
type Subscription struct {
	Topic string
	id    uint64
}

type subscriber struct {
	id      uint64
	topic   string
	handler Handler
}

// Frame subscribe yang dikirim client ke broker.
type subscribeFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Envelope adalah bungkus pesan yang didorong broker ke client.
type Envelope struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// Manager memegang satu koneksi logis ke broker websocket. Dibuat eksplisit dan
// di-inject (bukan singleton package-level) supaya test bisa membuat instance
// independen per skenario.
type Manager struct {
	URL            string
	ReconnectDelay time.Duration
	HeartbeatEvery time.Duration
	Dialer         *websocket.Dialer

	mu         sync.Mutex
	state      ConnState
	conn       *websocket.Conn
	generation uint64 // frame dari transport yang sudah dibongkar dibuang berdasarkan ini
	intent     bool   // connect intent masih aktif (belum ada Disconnect)
	onReady    []func()
	subs       map[uint64]*subscriber
	nextSubID  uint64
}

func NewManager(url string, reconnectDelay, heartbeatEvery time.Duration) *Manager {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if heartbeatEvery <= 0 {
		heartbeatEvery = 4 * time.Second
	}
	return &Manager{
		URL:            url,
		ReconnectDelay: reconnectDelay,
		HeartbeatEvery: heartbeatEvery,
		Dialer:         websocket.DefaultDialer,
		state:          StateIdle,
		subs:           make(map[uint64]*subscriber),
	}
}

// State mengembalikan state koneksi saat ini.
func (m *Manager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect idempoten: saat sudah Connected, onReady langsung dipanggil tanpa
// membuka transport baru; saat sedang Connecting, callback hanya di-enqueue.
func (m *Manager) Connect(onReady func()) {
	m.mu.Lock()
	switch m.state {
	case StateConnected:
		m.mu.Unlock()
		if onReady != nil {
			onReady()
		}
		return
	case StateConnecting, StateReconnectPending:
		if onReady != nil {
			m.onReady = append(m.onReady, onReady)
		}
		m.mu.Unlock()
		return
	}
	// Idle -> Connecting
	m.intent = true
	m.state = StateConnecting
	if onReady != nil {
		m.onReady = append(m.onReady, onReady)
	}
	gen := m.generation
	m.mu.Unlock()

	go m.dial(gen)
}

// Subscribe mendaftarkan handler untuk satu topic. Dipanggil sebelum Connected
// pun tidak gagal: koneksi dibuka otomatis lalu subscribe menyusul.
func (m *Manager) Subscribe(topic string, handler Handler) *Subscription {
	m.mu.Lock()
	m.nextSubID++
	sub := &subscriber{id: m.nextSubID, topic: topic, handler: handler}
	m.subs[sub.id] = sub

	if m.state == StateConnected && m.conn != nil {
		if err := m.sendSubscribe(m.conn, topic); err != nil {
			utils.ErrorLogger.Printf("subscribe %s failed: %v", topic, err)
		}
		m.mu.Unlock()
		return &Subscription{Topic: topic, id: sub.id}
	}
	m.mu.Unlock()

	// Belum connected: pastikan koneksi sedang dibuka; subscribe frame akan
	// dikirim saat transport siap (lihat dial).
	m.Connect(nil)
	return &Subscription{Topic: topic, id: sub.id}
}

// Disconnect membongkar koneksi beserta seluruh subscription.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.intent = false
	m.generation++
	conn := m.conn
	m.conn = nil
	m.state = StateIdle
	m.onReady = nil
	m.subs = make(map[uint64]*subscriber)
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// dial membuka transport untuk generation tertentu. Kalau generation sudah
// bergeser saat handshake selesai, transport langsung dibuang; pesan telatnya
// tidak boleh menyentuh state meja yang baru.
func (m *Manager) dial(gen uint64) {
	conn, _, err := m.Dialer.Dial(m.URL, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket dial %s failed: %v", m.URL, err)
		m.scheduleReconnect(gen)
		return
	}

	m.mu.Lock()
	if m.generation != gen || !m.intent {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.conn = conn
	m.state = StateConnected

	// Re-attach seluruh subscription yang aktif, satu frame per topic.
	sent := make(map[string]bool)
	for _, sub := range m.subs {
		if sent[sub.topic] {
			continue
		}
		sent[sub.topic] = true
		if err := m.sendSubscribe(conn, sub.topic); err != nil {
			utils.ErrorLogger.Printf("resubscribe %s failed: %v", sub.topic, err)
		}
	}

	callbacks := m.onReady
	m.onReady = nil
	m.mu.Unlock()

	utils.InfoLogger.Printf("connected to broker %s", m.URL)
	for _, cb := range callbacks {
		cb()
	}

	go m.readLoop(conn, gen)
	go m.heartbeat(conn, gen)
}

// sendSubscribe menulis frame subscribe; caller harus memegang m.mu.
func (m *Manager) sendSubscribe(conn *websocket.Conn, topic string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(subscribeFrame{Action: "subscribe", Topic: topic})
}

// readLoop membaca frame dan menyalurkannya ke handler. Satu goroutine per
// transport menjamin urutan delivery per topic.
func (m *Manager) readLoop(conn *websocket.Conn, gen uint64) {
	_ = conn.SetReadDeadline(time.Now().Add(m.readTimeout()))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(m.readTimeout()))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			m.transportLost(conn, gen, err)
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(m.readTimeout()))

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			utils.ErrorLogger.Printf("dropping malformed broker frame: %v", err)
			continue
		}

		m.mu.Lock()
		if m.generation != gen {
			// Transport ini sudah dibongkar; frame telat dibuang.
			m.mu.Unlock()
			return
		}
		var handlers []Handler
		for _, sub := range m.subs {
			if sub.topic == env.Topic {
				handlers = append(handlers, sub.handler)
			}
		}
		m.mu.Unlock()

		for _, h := range handlers {
			h(env.Topic, env.Data)
		}
	}
}

// heartbeat mengirim ping berkala; pong memperpanjang read deadline, jadi
// koneksi half-open terdeteksi lewat timeout readLoop.
func (m *Manager) heartbeat(conn *websocket.Conn, gen uint64) {
	ticker := time.NewTicker(m.HeartbeatEvery)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		stale := m.generation != gen
		m.mu.Unlock()
		if stale {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			m.transportLost(conn, gen, err)
			return
		}
	}
}

// transportLost menandai transport gagal dan, selama intent masih aktif,
// menjadwalkan reconnect dengan jeda tetap. Subscriber tidak melihat apa-apa;
// handler mereka di-attach ulang saat transport baru siap.
func (m *Manager) transportLost(conn *websocket.Conn, gen uint64, cause error) {
	m.mu.Lock()
	if m.generation != gen {
		// Sudah ditangani (disconnect eksplisit atau loss dari goroutine lain).
		m.mu.Unlock()
		return
	}
	m.generation++
	m.conn = nil
	if !m.intent {
		m.state = StateIdle
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	m.state = StateReconnectPending
	newGen := m.generation
	m.mu.Unlock()

	_ = conn.Close()
	utils.ErrorLogger.Printf("broker connection lost: %v; reconnecting in %s", cause, m.ReconnectDelay)

	time.AfterFunc(m.ReconnectDelay, func() {
		m.mu.Lock()
		if m.generation != newGen || !m.intent || m.state != StateReconnectPending {
			m.mu.Unlock()
			return
		}
		m.state = StateConnecting
		m.mu.Unlock()
		m.dial(newGen)
	})
}

// scheduleReconnect dipakai saat dial awal gagal.
func (m *Manager) scheduleReconnect(gen uint64) {
	m.mu.Lock()
	if m.generation != gen || !m.intent {
		m.mu.Unlock()
		return
	}
	m.state = StateReconnectPending
	m.mu.Unlock()

	time.AfterFunc(m.ReconnectDelay, func() {
		m.mu.Lock()
		if m.generation != gen || !m.intent || m.state != StateReconnectPending {
			m.mu.Unlock()
			return
		}
		m.state = StateConnecting
		m.mu.Unlock()
		m.dial(gen)
	})
}

func (m *Manager) readTimeout() time.Duration {
	// Dua interval heartbeat tanpa pong berarti koneksi dianggap mati.
	return 2*m.HeartbeatEvery + time.Second
}
