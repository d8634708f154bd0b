package store

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/utils"
)

// SessionStore adalah durable key-value record milik device ini: table id,
// session token, active order marker, plus cart snapshot. Disimpan di satu file
// sqlite supaya survive reload. Tidak ada proses lain yang membaca/menulisnya.
type SessionStore struct {
	DB *gorm.DB
}

// Open membuka (atau membuat) file store dan menyiapkan skema.
func Open(path string) (*SessionStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New membungkus koneksi gorm yang sudah ada (dipakai test dengan sqlite in-memory).
func New(db *gorm.DB) (*SessionStore, error) {
	if err := db.AutoMigrate(&models.SessionRecord{}, &models.CartLine{}); err != nil {
		return nil, err
	}
	return &SessionStore{DB: db}, nil
}

// record mengambil baris tunggal session record, membuatnya bila belum ada.
// Kegagalan baca diperlakukan sebagai record kosong, tidak pernah error ke caller.
func (s *SessionStore) record() models.SessionRecord {
	var rec models.SessionRecord
	err := s.DB.First(&rec, 1).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("session store read failed, treating as empty: %v", err)
			return models.SessionRecord{ID: 1}
		}
		rec = models.SessionRecord{ID: 1}
		if err := s.DB.Create(&rec).Error; err != nil {
			utils.ErrorLogger.Printf("session store init failed: %v", err)
		}
	}
	return rec
}

// CurrentTableID mengembalikan table id yang dipersist, 0 bila absent.
func (s *SessionStore) CurrentTableID() uint {
	rec := s.record()
	if rec.CurrentTableID == nil {
		return 0
	}
	return *rec.CurrentTableID
}

// SessionToken mengembalikan token sesi, "" bila absent.
func (s *SessionStore) SessionToken() string {
	rec := s.record()
	if rec.SessionToken == nil {
		return ""
	}
	return *rec.SessionToken
}

// ActiveOrderMarker mengembalikan id order aktif, 0 bila absent.
func (s *SessionStore) ActiveOrderMarker() uint {
	rec := s.record()
	if rec.ActiveOrderMarker == nil {
		return 0
	}
	return *rec.ActiveOrderMarker
}

// SetCurrentTableID mempersist table id hasil join.
func (s *SessionStore) SetCurrentTableID(id uint) error {
	s.record()
	return s.DB.Model(&models.SessionRecord{}).Where("id = ?", 1).
		Update("current_table_id", id).Error
}

// SetSessionToken mempersist token yang diterima dari staff approval.
func (s *SessionStore) SetSessionToken(token string) error {
	s.record()
	return s.DB.Model(&models.SessionRecord{}).Where("id = ?", 1).
		Update("session_token", token).Error
}

// SetActiveOrderMarker menandai order yang sedang berjalan di meja ini.
func (s *SessionStore) SetActiveOrderMarker(orderID uint) error {
	s.record()
	return s.DB.Model(&models.SessionRecord{}).Where("id = ?", 1).
		Update("active_order_marker", orderID).Error
}

// ReplaceSession mengganti table id dan token sekaligus dalam satu UPDATE.
// Dipakai oleh event TABLE_CHANGED; partial update dilarang, tidak boleh ada
// jeda dimana id sudah baru tapi token masih lama.
func (s *SessionStore) ReplaceSession(tableID uint, token string) error {
	s.record()
	return s.DB.Model(&models.SessionRecord{}).Where("id = ?", 1).
		Updates(map[string]interface{}{
			"current_table_id": tableID,
			"session_token":    token,
		}).Error
}

// ClearSession menghapus table id, token, dan order marker sebagai satu operasi.
func (s *SessionStore) ClearSession() error {
	s.record()
	return s.DB.Model(&models.SessionRecord{}).Where("id = ?", 1).
		Updates(map[string]interface{}{
			"current_table_id":    nil,
			"session_token":       nil,
			"active_order_marker": nil,
		}).Error
}

// ClearOrderMarker menghapus hanya penanda order aktif.
func (s *SessionStore) ClearOrderMarker() error {
	s.record()
	return s.DB.Model(&models.SessionRecord{}).Where("id = ?", 1).
		Update("active_order_marker", nil).Error
}

// --- Cart snapshot ---

// CartLines mengembalikan seluruh baris cart; error baca degrade ke cart kosong.
func (s *SessionStore) CartLines() []models.CartLine {
	var lines []models.CartLine
	if err := s.DB.Order("id ASC").Find(&lines).Error; err != nil {
		utils.ErrorLogger.Printf("cart snapshot read failed, treating as empty: %v", err)
		return nil
	}
	return lines
}

// SaveCartLine menulis atau memperbarui satu baris cart berdasarkan line id.
func (s *SessionStore) SaveCartLine(line models.CartLine) error {
	var existing models.CartLine
	err := s.DB.Where("line_id = ?", line.LineID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.DB.Create(&line).Error
	}
	if err != nil {
		return err
	}
	existing.Quantity = line.Quantity
	existing.Notes = line.Notes
	return s.DB.Save(&existing).Error
}

// DeleteCartLine menghapus satu baris cart.
func (s *SessionStore) DeleteCartLine(lineID string) error {
	return s.DB.Where("line_id = ?", lineID).Delete(&models.CartLine{}).Error
}

// ClearCart mengosongkan snapshot cart.
func (s *SessionStore) ClearCart() error {
	return s.DB.Where("1 = 1").Delete(&models.CartLine{}).Error
}
