package session

import (
	"sync"

	"github.com/yeremiapane/restaurant-guest/utils"
)

// Notifier menerima pesan yang harus terlihat user (notice reconciliation,
// perpindahan meja, hasil open-request). Bukan kanal error.
type Notifier interface {
	Notify(message string)
}

// LogNotifier menulis notice ke log; fallback paling sederhana.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	utils.InfoLogger.Printf("notice: %s", message)
}

// RecentNotifier menyimpan notice terakhir untuk diambil rendering layer,
// sambil tetap menulis ke log.
type RecentNotifier struct {
	mu      sync.Mutex
	limit   int
	notices []string
}

func NewRecentNotifier(limit int) *RecentNotifier {
	if limit <= 0 {
		limit = 20
	}
	return &RecentNotifier{limit: limit}
}

func (n *RecentNotifier) Notify(message string) {
	utils.InfoLogger.Printf("notice: %s", message)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, message)
	if len(n.notices) > n.limit {
		n.notices = n.notices[len(n.notices)-n.limit:]
	}
}

// Recent mengembalikan salinan notice yang tersimpan, paling lama dulu.
func (n *RecentNotifier) Recent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.notices))
	copy(out, n.notices)
	return out
}
