package session

import (
	"context"
	"fmt"

	"github.com/yeremiapane/restaurant-guest/locator"
	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/store"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// TableInfoFetcher adalah sisi table-info service yang dibutuhkan reconciler.
type TableInfoFetcher interface {
	GetTableInfo(ctx context.Context, tableID uint) (models.TableInfo, error)
}

// Result merangkum keputusan reconciliation saat boot.
type Result struct {
	TableID        uint   // meja yang akhirnya di-join
	Open           bool   // true bila token tersimpan ditemukan
	RewroteLocator bool   // true bila locator ditulis ulang ke sesi tersimpan
	Notice         string // pesan ke user, kosong bila tidak ada
}

// Decide adalah inti reconciliation sebagai fungsi murni: diberikan sesi yang
// dipersist dan kandidat dari locator, tentukan meja mana yang dipercaya.
// Sesi tersimpan menang HANYA bila token dan table id dua-duanya ada dan id
// berbeda dari kandidat; QR basi/terbagi tidak boleh membajak sesi berjalan.
func Decide(persistedID uint, hasToken bool, candidateID uint) (joinID uint, persistedWins bool) {
	if hasToken && persistedID != 0 && persistedID != candidateID {
		return persistedID, true
	}
	return candidateID, false
}

// Reconciler menjalankan reconciliation satu kali saat boot: membandingkan
// kandidat identitas dari locator dengan sesi yang dipersist, lalu meng-join
// meja hasil keputusan.
type Reconciler struct {
	Store    *store.SessionStore
	Machine  *Machine
	Locator  *locator.Locator
	Tables   TableInfoFetcher
	Notifier Notifier
}

// Reconcile memutuskan identitas meja, menginisialisasi state machine, dan
// mempersist table id hasil join. Kegagalan fetch nama meja tidak fatal.
func (r *Reconciler) Reconcile(ctx context.Context, candidateID uint) (Result, error) {
	persistedID := r.Store.CurrentTableID()
	token := r.Store.SessionToken()

	joinID, persistedWins := Decide(persistedID, token != "", candidateID)

	res := Result{TableID: joinID, Open: token != ""}
	if persistedWins {
		// Device ini masih punya sesi terbuka di meja lain: percayai sesi
		// tersimpan, tulis ulang locator tanpa reload, dan beri tahu user.
		r.Locator.Rewrite(joinID)
		res.RewroteLocator = true
		res.Notice = fmt.Sprintf("You have an ongoing session at table %d, taking you back there.", joinID)
		if r.Notifier != nil {
			r.Notifier.Notify(res.Notice)
		}
	}

	r.Machine.InitJoined(joinID, res.Open)

	if err := r.Store.SetCurrentTableID(joinID); err != nil {
		return res, fmt.Errorf("persist table id: %w", err)
	}

	// Nama meja human-readable diambil terpisah; gagal pun sesi tetap valid,
	// nama dibiarkan absent (UI menampilkan placeholder, bukan angka mentah).
	if r.Tables != nil {
		if info, err := r.Tables.GetTableInfo(ctx, joinID); err != nil {
			utils.ErrorLogger.Printf("fetch table info for table %d failed: %v", joinID, err)
		} else {
			r.Machine.SetTableName(info.Name)
		}
	}

	return res, nil
}
