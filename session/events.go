package session

import (
	"encoding/json"
	"fmt"

	"github.com/yeremiapane/restaurant-guest/locator"
	"github.com/yeremiapane/restaurant-guest/store"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// Event types yang didorong broker ke topic table/{id} dan menus.
const (
	EventTableOpened       = "TABLE_OPENED"
	EventTableChanged      = "TABLE_CHANGED"
	EventPaymentConfirmed  = "PAYMENT_CONFIRMED"
	EventOrderUpdate       = "ORDER_UPDATE"
	EventTransferSuccess   = "TRANSFER_SUCCESS"
	EventMenuStatusChanged = "MENU_STATUS_CHANGED"
)

// Event adalah pesan push yang sudah didecode. Field di luar Type hanya terisi
// untuk tipe tertentu.
type Event struct {
	Type          string `json:"type"`
	Token         string `json:"token,omitempty"`
	NewTableID    uint   `json:"newTableId,omitempty"`
	NewTableToken string `json:"newTableToken,omitempty"`
	NewTableName  string `json:"newTableName,omitempty"`
	QrCodeURL     string `json:"qrCodeUrl,omitempty"`
	Status        string `json:"status,omitempty"`
	OrderID       uint   `json:"orderId,omitempty"`
	MenuID        uint   `json:"menuId,omitempty"`
}

// CartClearer adalah satu-satunya hal yang EventReconciler butuhkan dari cart:
// mengosongkannya saat meja berpindah tangan.
type CartClearer interface {
	Clear() error
}

// EventReconciler memetakan pesan push masuk ke transisi state machine dan
// mutasi store. Handler tidak pernah panic: payload rusak di-log lalu dibuang.
type EventReconciler struct {
	Store    *store.SessionStore
	Machine  *Machine
	Cart     CartClearer
	Locator  *locator.Locator
	Notifier Notifier

	// OnTableChanged dipanggil setelah identitas berganti, supaya pemilik
	// koneksi bisa pindah subscribe ke topic meja baru.
	OnTableChanged func(oldID, newID uint)
}

// OnMessage adalah handler untuk semua topic yang di-subscribe. Pesan per topic
// diproses persis sesuai urutan delivery; tidak ada reordering atau coalescing.
func (r *EventReconciler) OnMessage(topic string, payload []byte) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		utils.ErrorLogger.Printf("dropping malformed push message on %s: %v", topic, err)
		return
	}

	switch ev.Type {
	case EventTableOpened:
		r.handleTableOpened(ev)
	case EventTableChanged:
		r.handleTableChanged(ev)
	case EventPaymentConfirmed:
		r.handlePaymentConfirmed(ev)
	case EventOrderUpdate:
		r.Machine.BumpOrderEvent()
	case EventTransferSuccess:
		r.handleTransferSuccess()
	case EventMenuStatusChanged:
		r.Machine.BumpMenuEvent()
	default:
		// Forward-compat: tipe tak dikenal yang bentuknya seperti event order
		// diperlakukan sebagai order update generik; sisanya diabaikan.
		if ev.Status != "" || ev.OrderID != 0 {
			utils.InfoLogger.Printf("treating unknown event %q on %s as order update", ev.Type, topic)
			r.Machine.BumpOrderEvent()
			return
		}
		utils.InfoLogger.Printf("ignoring unknown event %q on %s", ev.Type, topic)
	}
}

// handleTableOpened mempersist token lalu membuka sesi. Hanya bermakna selama
// menunggu staff atau saat reconnect mengejar approval yang terlewat; sesi yang
// sudah open mengabaikan duplikat, dan device yang sudah keluar dari meja
// (Unjoined) tidak boleh mengambil approval milik penghuni berikutnya.
func (r *EventReconciler) handleTableOpened(ev Event) {
	if ev.Token == "" {
		utils.ErrorLogger.Printf("TABLE_OPENED without token, dropping")
		return
	}
	switch r.Machine.State() {
	case StateJoinedClosed, StateAwaitingStaff:
	default:
		return
	}
	// Token dipersist dulu; state hanya berubah kalau persist berhasil,
	// supaya isOpen tidak pernah true tanpa token tersimpan.
	if err := r.Store.SetSessionToken(ev.Token); err != nil {
		utils.ErrorLogger.Printf("persist session token failed: %v", err)
		return
	}
	r.Machine.Opened()
	if r.Notifier != nil {
		r.Notifier.Notify("Your table is open, enjoy your meal!")
	}
}

// handleTableChanged mengganti identitas + token secara atomik, mengosongkan
// cart, menulis ulang locator, dan memberi tahu user. Ini satu-satunya event
// yang mengubah table id setelah boot.
func (r *EventReconciler) handleTableChanged(ev Event) {
	if ev.NewTableID == 0 || ev.NewTableToken == "" {
		utils.ErrorLogger.Printf("TABLE_CHANGED missing new id or token, dropping")
		return
	}
	// Hanya sesi yang sedang open yang bisa dipindahkan. Event yang masih
	// mengalir di topic lama setelah sesi berakhir milik penghuni berikutnya.
	if !r.Machine.IsOpen() {
		utils.InfoLogger.Printf("TABLE_CHANGED while session is not open, dropping")
		return
	}
	oldID := r.Machine.TableID()

	if err := r.Store.ReplaceSession(ev.NewTableID, ev.NewTableToken); err != nil {
		utils.ErrorLogger.Printf("replace session for table change failed: %v", err)
		return
	}
	r.Machine.ChangeTable(ev.NewTableID, ev.NewTableName)
	r.Locator.Rewrite(ev.NewTableID)

	// Cart milik penghuni lama tidak boleh bocor ke penghuni meja berikutnya.
	if r.Cart != nil {
		if err := r.Cart.Clear(); err != nil {
			utils.ErrorLogger.Printf("clear cart on table change failed: %v", err)
		}
	}

	if r.Notifier != nil {
		name := ev.NewTableName
		if name == "" {
			name = fmt.Sprintf("table %d", ev.NewTableID)
		}
		r.Notifier.Notify(fmt.Sprintf("Your session has moved to %s.", name))
	}

	if r.OnTableChanged != nil {
		r.OnTableChanged(oldID, ev.NewTableID)
	}
}

// handlePaymentConfirmed menyimpan payload QR pembayaran; tanpa efek bila sesi
// belum open.
func (r *EventReconciler) handlePaymentConfirmed(ev Event) {
	if !r.Machine.IsOpen() {
		return
	}
	r.Machine.SetPaymentQr(ev.QrCodeURL)
	if r.Notifier != nil {
		r.Notifier.Notify("Payment confirmed by staff, scan the QR to pay.")
	}
}

// handleTransferSuccess mengembalikan device ke kondisi pre-session: token,
// order marker, payload pembayaran, flag menunggu staff, dan cart dibersihkan
// bersama-sama, tidak pernah sebagian.
func (r *EventReconciler) handleTransferSuccess() {
	if err := r.Store.ClearSession(); err != nil {
		utils.ErrorLogger.Printf("clear session on transfer success failed: %v", err)
	}
	if r.Cart != nil {
		if err := r.Cart.Clear(); err != nil {
			utils.ErrorLogger.Printf("clear cart on transfer success failed: %v", err)
		}
	}
	r.Machine.Reset()
	if r.Notifier != nil {
		r.Notifier.Notify("Payment complete, thank you for dining with us!")
	}
}
