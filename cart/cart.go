package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/store"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// Store adalah cart lokal milik device, di-keyed berdasarkan menu + notes.
// Independen dari session core; checkout yang memakainya. Di-mirror ke
// persisted store supaya survive reload.
type Store struct {
	mu      sync.Mutex
	backing *store.SessionStore
	lines   []models.CartLine
}

func NewStore(backing *store.SessionStore) *Store {
	s := &Store{backing: backing}
	if backing != nil {
		s.lines = backing.CartLines()
	}
	return s
}

// Add menambahkan item ke cart. Item dengan menu id dan notes yang sama
// digabung; selain itu jadi baris baru dengan line id sintetis.
func (s *Store) Add(menu models.Menu, quantity int, notes string) models.CartLine {
	if quantity <= 0 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].MenuID == menu.ID && s.lines[i].Notes == notes {
			s.lines[i].Quantity += quantity
			s.persist(s.lines[i])
			return s.lines[i]
		}
	}

	line := models.CartLine{
		LineID:   uuid.NewString(),
		MenuID:   menu.ID,
		Name:     menu.Name,
		Price:    menu.Price,
		ImageUrl: menu.ImageUrl,
		Quantity: quantity,
		Notes:    notes,
	}
	s.lines = append(s.lines, line)
	s.persist(line)
	return line
}

// UpdateQuantity mengubah jumlah satu baris; nol atau negatif menghapusnya.
func (s *Store) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		s.Remove(lineID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			s.lines[i].Quantity = quantity
			s.persist(s.lines[i])
			return
		}
	}
}

// Remove menghapus satu baris cart.
func (s *Store) Remove(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			if s.backing != nil {
				if err := s.backing.DeleteCartLine(lineID); err != nil {
					utils.ErrorLogger.Printf("delete cart line failed: %v", err)
				}
			}
			return
		}
	}
}

// Clear mengosongkan cart dan snapshot-nya. Dipanggil setelah checkout sukses
// dan saat meja berpindah tangan (table change / transfer success).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if s.backing != nil {
		return s.backing.ClearCart()
	}
	return nil
}

// Items mengembalikan salinan isi cart, urutan penambahan.
func (s *Store) Items() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total menghitung nilai cart.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// TotalItems menghitung jumlah item (bukan baris).
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// DisplayTotal memformat total untuk ditampilkan.
func (s *Store) DisplayTotal() string {
	return utils.FormatCurrencyIDR(s.Total())
}

// persist menulis satu baris ke snapshot; caller memegang s.mu.
func (s *Store) persist(line models.CartLine) {
	if s.backing == nil {
		return
	}
	if err := s.backing.SaveCartLine(line); err != nil {
		utils.ErrorLogger.Printf("persist cart line failed: %v", err)
	}
}
