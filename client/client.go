package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-guest/cart"
	"github.com/yeremiapane/restaurant-guest/config"
	"github.com/yeremiapane/restaurant-guest/locator"
	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/realtime"
	"github.com/yeremiapane/restaurant-guest/services"
	"github.com/yeremiapane/restaurant-guest/session"
	"github.com/yeremiapane/restaurant-guest/store"
	"github.com/yeremiapane/restaurant-guest/utils"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNoActiveOrder = errors.New("no active order for this table")
)

// MenusTopic adalah topic broadcast bersama untuk perubahan menu.
const MenusTopic = "menus"

// Client merangkai seluruh session core untuk satu device: locator, persisted
// store, state machine, koneksi push, dan service client. Dibuat eksplisit
// dengan lifecycle New -> Start -> Stop.
type Client struct {
	Locator  *locator.Locator
	Store    *store.SessionStore
	Machine  *session.Machine
	Cart     *cart.Store
	Conn     *realtime.Manager
	Tables   *services.TableService
	Orders   *services.OrderService
	Menus    *services.MenuService
	Notifier *session.RecentNotifier

	events *session.EventReconciler
}

// New merakit client dari konfigurasi dan store yang sudah dibuka.
func New(cfg config.Config, st *store.SessionStore) *Client {
	api := services.NewAPIClient(cfg.BackendBaseURL, cfg.RequestTimeout, st)
	c := &Client{
		Locator:  locator.NewLocator(cfg.LaunchLocator),
		Store:    st,
		Machine:  session.NewMachine(),
		Cart:     cart.NewStore(st),
		Conn:     realtime.NewManager(cfg.SocketURL, cfg.ReconnectDelay, cfg.HeartbeatEvery),
		Tables:   services.NewTableService(api),
		Orders:   services.NewOrderService(api),
		Menus:    services.NewMenuService(api),
		Notifier: session.NewRecentNotifier(20),
	}

	c.events = &session.EventReconciler{
		Store:    st,
		Machine:  c.Machine,
		Cart:     c.Cart,
		Locator:  c.Locator,
		Notifier: c.Notifier,
		// Pindah meja berarti koneksi lama dibongkar penuh sebelum koneksi
		// baru dibuka; subscription basi tidak boleh mengantar event meja lama.
		OnTableChanged: func(oldID, newID uint) {
			utils.InfoLogger.Printf("table changed %d -> %d, resubscribing", oldID, newID)
			c.Conn.Disconnect()
			c.subscribeTopics(newID)
		},
	}
	return c
}

// Start menjalankan boot sequence: resolve identitas kandidat, reconcile dengan
// sesi tersimpan, lalu buka koneksi push untuk meja hasil keputusan.
func (c *Client) Start(ctx context.Context) (session.Result, error) {
	candidate := locator.Resolve(c.Locator.Current())

	rec := &session.Reconciler{
		Store:    c.Store,
		Machine:  c.Machine,
		Locator:  c.Locator,
		Tables:   c.Tables,
		Notifier: c.Notifier,
	}
	res, err := rec.Reconcile(ctx, candidate)
	if err != nil {
		return res, err
	}

	c.subscribeTopics(res.TableID)
	return res, nil
}

// Stop membongkar koneksi push. Persisted store tetap utuh.
func (c *Client) Stop() {
	c.Conn.Disconnect()
}

func (c *Client) subscribeTopics(tableID uint) {
	handler := c.events.OnMessage
	c.Conn.Subscribe(fmt.Sprintf("table/%d", tableID), handler)
	c.Conn.Subscribe(MenusTopic, handler)
}

// RequestOpenTable mengirim open-request untuk meja yang sedang di-join.
// Gagal kirim -> state kembali ke JoinedClosed supaya bisa dicoba ulang.
func (c *Client) RequestOpenTable(ctx context.Context) error {
	if err := c.Machine.MarkAwaitingStaff(); err != nil {
		return err
	}
	if err := c.Tables.RequestOpenTable(ctx, c.Machine.TableID()); err != nil {
		c.Machine.OpenRequestFailed()
		c.Notifier.Notify("Could not reach the staff, please try again or call a waiter.")
		return err
	}
	c.Notifier.Notify("Request sent, please wait for staff confirmation.")
	return nil
}

// Checkout membuat order dari isi cart. Cart dikosongkan dan order marker
// dipersist hanya bila order service sukses.
func (c *Client) Checkout(ctx context.Context, note string) (models.OrderResponse, error) {
	if !c.Machine.IsOpen() {
		return models.OrderResponse{}, session.ErrNoOpenSession
	}
	lines := c.Cart.Items()
	if len(lines) == 0 {
		return models.OrderResponse{}, ErrEmptyCart
	}

	req := models.CreateOrderRequest{TableID: c.Machine.TableID(), Note: note}
	for _, l := range lines {
		req.Items = append(req.Items, models.CreateOrderItem{
			MenuID:   l.MenuID,
			Quantity: l.Quantity,
			Note:     l.Notes,
		})
	}

	order, err := c.Orders.CreateOrder(ctx, req)
	if err != nil {
		return models.OrderResponse{}, err
	}
	if err := c.Store.SetActiveOrderMarker(order.ID); err != nil {
		utils.ErrorLogger.Printf("persist order marker failed: %v", err)
	}
	if err := c.Cart.Clear(); err != nil {
		utils.ErrorLogger.Printf("clear cart after checkout failed: %v", err)
	}
	return order, nil
}

// AddToActiveOrder menambah item ke order yang sedang berjalan.
func (c *Client) AddToActiveOrder(ctx context.Context, item models.CreateOrderItem) (models.OrderResponse, error) {
	if !c.Machine.IsOpen() {
		return models.OrderResponse{}, session.ErrNoOpenSession
	}
	orderID := c.Store.ActiveOrderMarker()
	if orderID == 0 {
		return models.OrderResponse{}, ErrNoActiveOrder
	}
	return c.Orders.AddOrderItem(ctx, orderID, item)
}

// CancelOrderItem membatalkan satu item di order berjalan.
func (c *Client) CancelOrderItem(ctx context.Context, itemID uint) error {
	if !c.Machine.IsOpen() {
		return session.ErrNoOpenSession
	}
	return c.Orders.CancelOrderItem(ctx, itemID)
}

// ListOrders mengambil order milik meja ini dari order service. Dipanggil
// consumer setiap change-signal order berubah.
func (c *Client) ListOrders(ctx context.Context) ([]models.OrderResponse, error) {
	if !c.Machine.IsOpen() {
		return nil, session.ErrNoOpenSession
	}
	return c.Orders.ListMyOrders(ctx)
}

// RequestPayment meminta pembayaran untuk order berjalan; QR datang via push.
func (c *Client) RequestPayment(ctx context.Context, method string) error {
	if !c.Machine.IsOpen() {
		return session.ErrNoOpenSession
	}
	orderID := c.Store.ActiveOrderMarker()
	if orderID == 0 {
		return ErrNoActiveOrder
	}
	if err := c.Orders.RequestPayment(ctx, orderID, method); err != nil {
		c.Notifier.Notify("Payment request failed, please try again.")
		return err
	}
	return nil
}

// RequestAssistance memanggil staff ke meja ini.
func (c *Client) RequestAssistance(ctx context.Context) error {
	if c.Machine.State() == session.StateUnjoined {
		return session.ErrNotJoined
	}
	return c.Orders.RequestAssistance(ctx, c.Machine.TableID())
}

// ClearSession mengakhiri sesi secara eksplisit dari sisi device: token, order
// marker, dan cart dibuang bersama; state kembali ke Unjoined.
func (c *Client) ClearSession() error {
	if err := c.Store.ClearSession(); err != nil {
		return err
	}
	if err := c.Cart.Clear(); err != nil {
		utils.ErrorLogger.Printf("clear cart on clear session failed: %v", err)
	}
	c.Machine.Reset()
	return nil
}

// Snapshot adalah gabungan view untuk rendering layer.
type Snapshot struct {
	Session       session.Snapshot  `json:"session"`
	Locator       string            `json:"locator"`
	ActiveOrderID uint              `json:"activeOrderId,omitempty"`
	CartItems     []models.CartLine `json:"cartItems"`
	CartTotal     float64           `json:"cartTotal"`
	CartDisplay   string            `json:"cartDisplay"`
	Notices       []string          `json:"notices,omitempty"`
}

func (c *Client) Snapshot() Snapshot {
	return Snapshot{
		Session:       c.Machine.Snapshot(),
		Locator:       c.Locator.Current(),
		ActiveOrderID: c.Store.ActiveOrderMarker(),
		CartItems:     c.Cart.Items(),
		CartTotal:     c.Cart.Total(),
		CartDisplay:   c.Cart.DisplayTotal(),
		Notices:       c.Notifier.Recent(),
	}
}
