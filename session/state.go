package session

import (
	"errors"
	"sync"
	"time"
)

// State adalah posisi device dalam lifecycle sesi meja.
type State string

const (
	StateUnjoined      State = "unjoined"
	StateJoinedClosed  State = "joined_closed"
	StateAwaitingStaff State = "awaiting_staff"
	StateOpen          State = "open"
)

var (
	ErrNotJoined      = errors.New("no table joined, rescan the table code")
	ErrNoOpenSession  = errors.New("table is not open for ordering, rescan the table code")
	ErrAlreadyOpen    = errors.New("table is already open")
	ErrAlreadyWaiting = errors.New("open request is already waiting for staff")
)

// Snapshot adalah view read-only dari state machine untuk rendering layer.
type Snapshot struct {
	State            State     `json:"state"`
	TableID          uint      `json:"tableId,omitempty"`
	TableName        string    `json:"tableName,omitempty"`
	IsOpen           bool      `json:"isOpen"`
	IsAwaitingStaff  bool      `json:"isAwaitingStaff"`
	PaymentQrPayload string    `json:"paymentQrPayload,omitempty"`
	LastOrderEventAt time.Time `json:"lastOrderEventAt,omitempty"`
	LastMenuEventAt  time.Time `json:"lastMenuEventAt,omitempty"`
}

// Machine adalah state container pusat sesi meja. Semua mutasi datang dari
// Reconciler (saat boot) dan EventReconciler (saat runtime); komponen lain
// hanya membaca lewat Snapshot.
type Machine struct {
	mu               sync.RWMutex
	state            State
	tableID          uint
	tableName        string
	awaitingStaff    bool
	paymentQrPayload string
	lastOrderEventAt time.Time
	lastMenuEventAt  time.Time
	now              func() time.Time
}

func NewMachine() *Machine {
	return &Machine{state: StateUnjoined, now: time.Now}
}

// Snapshot mengembalikan salinan state saat ini.
func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:            m.state,
		TableID:          m.tableID,
		TableName:        m.tableName,
		IsOpen:           m.state == StateOpen,
		IsAwaitingStaff:  m.awaitingStaff,
		PaymentQrPayload: m.paymentQrPayload,
		LastOrderEventAt: m.lastOrderEventAt,
		LastMenuEventAt:  m.lastMenuEventAt,
	}
}

func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Machine) TableID() uint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tableID
}

func (m *Machine) IsOpen() bool {
	return m.State() == StateOpen
}

func (m *Machine) IsAwaitingStaff() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.awaitingStaff
}

// InitJoined dipanggil sekali saat boot oleh Reconciler. open harus mengikuti
// keberadaan token di store: token ada -> Open, tidak ada -> JoinedClosed.
func (m *Machine) InitJoined(tableID uint, open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableID = tableID
	m.awaitingStaff = false
	if open {
		m.state = StateOpen
	} else {
		m.state = StateJoinedClosed
	}
}

// SetTableName mengisi nama meja hasil fetch table-info service.
func (m *Machine) SetTableName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableName = name
}

// MarkAwaitingStaff -> transisi JoinedClosed -> AwaitingStaff saat user
// menekan open-request.
func (m *Machine) MarkAwaitingStaff() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateUnjoined:
		return ErrNotJoined
	case StateOpen:
		return ErrAlreadyOpen
	case StateAwaitingStaff:
		return ErrAlreadyWaiting
	}
	m.state = StateAwaitingStaff
	m.awaitingStaff = true
	return nil
}

// OpenRequestFailed mengembalikan AwaitingStaff -> JoinedClosed supaya
// open-request bisa dicoba ulang.
func (m *Machine) OpenRequestFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAwaitingStaff {
		m.state = StateJoinedClosed
	}
	m.awaitingStaff = false
}

// Opened -> transisi ke Open setelah token berhasil dipersist.
// Caller wajib mempersist token SEBELUM memanggil ini.
func (m *Machine) Opened() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateOpen
	m.awaitingStaff = false
}

// ChangeTable masuk kembali ke Open di bawah identitas baru tanpa melewati
// AwaitingStaff. Payload payment QR yang menggantung dibersihkan; pembayaran
// milik meja lama tidak boleh terbawa ke meja baru.
func (m *Machine) ChangeTable(newID uint, newName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableID = newID
	m.tableName = newName
	m.state = StateOpen
	m.awaitingStaff = false
	m.paymentQrPayload = ""
}

// SetPaymentQr menyimpan payload QR pembayaran. Diabaikan bila sesi belum open;
// payload hanya boleh ada selama isOpen == true.
func (m *Machine) SetPaymentQr(payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateOpen {
		return
	}
	m.paymentQrPayload = payload
}

// ClearPaymentQr menghapus payload QR (pembayaran selesai).
func (m *Machine) ClearPaymentQr() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paymentQrPayload = ""
}

// Reset mengembalikan machine ke kondisi pre-session (Unjoined).
// Dipanggil setelah TransferSuccess atau clearSession eksplisit.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateUnjoined
	m.tableID = 0
	m.tableName = ""
	m.awaitingStaff = false
	m.paymentQrPayload = ""
}

// BumpOrderEvent menaikkan change-signal order secara monoton.
func (m *Machine) BumpOrderEvent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOrderEventAt = m.monotonicNow(m.lastOrderEventAt)
}

// BumpMenuEvent menaikkan change-signal menu secara monoton.
func (m *Machine) BumpMenuEvent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMenuEventAt = m.monotonicNow(m.lastMenuEventAt)
}

// monotonicNow menjamin timestamp tidak pernah mundur meski clock bergeser.
func (m *Machine) monotonicNow(last time.Time) time.Time {
	now := m.now()
	if !now.After(last) {
		return last.Add(time.Nanosecond)
	}
	return now
}
