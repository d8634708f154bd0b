package cart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-guest/models"
	"github.com/yeremiapane/restaurant-guest/store"
	"github.com/yeremiapane/restaurant-guest/utils"
)

var cartDBSeq int

func setupBacking(t *testing.T) *store.SessionStore {
	t.Helper()
	utils.InitLogger()
	cartDBSeq++
	dsn := fmt.Sprintf("file:carttest%d?mode=memory&cache=shared", cartDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	s, err := store.New(db)
	require.NoError(t, err)
	return s
}

var (
	nasiGoreng = models.Menu{ID: 10, Name: "Nasi Goreng", Price: 25000}
	esTeh      = models.Menu{ID: 11, Name: "Es Teh", Price: 5000}
)

func TestAddMergesSameMenuAndNotes(t *testing.T) {
	s := NewStore(setupBacking(t))

	s.Add(nasiGoreng, 1, "")
	s.Add(nasiGoreng, 2, "")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddKeepsSeparateLinesForDifferentNotes(t *testing.T) {
	s := NewStore(setupBacking(t))

	a := s.Add(nasiGoreng, 1, "extra pedas")
	b := s.Add(nasiGoreng, 1, "")

	items := s.Items()
	require.Len(t, items, 2)
	// item identik dengan notes berbeda dibedakan oleh line id sintetis
	assert.NotEqual(t, a.LineID, b.LineID)
}

func TestUpdateQuantityAndRemove(t *testing.T) {
	s := NewStore(setupBacking(t))
	line := s.Add(esTeh, 1, "")

	s.UpdateQuantity(line.LineID, 4)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 4, s.Items()[0].Quantity)
	assert.Equal(t, 4, s.TotalItems())

	// nol menghapus baris
	s.UpdateQuantity(line.LineID, 0)
	assert.Empty(t, s.Items())
}

func TestTotals(t *testing.T) {
	s := NewStore(setupBacking(t))
	s.Add(nasiGoreng, 2, "")
	s.Add(esTeh, 1, "")

	assert.Equal(t, float64(55000), s.Total())
	assert.Equal(t, 3, s.TotalItems())
	assert.Equal(t, "Rp 55.000", s.DisplayTotal())
}

func TestCartSurvivesReload(t *testing.T) {
	backing := setupBacking(t)

	s := NewStore(backing)
	s.Add(nasiGoreng, 2, "extra pedas")
	s.Add(esTeh, 1, "")

	// "reload": store baru di atas backing yang sama
	reloaded := NewStore(backing)
	items := reloaded.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Nasi Goreng", items[0].Name)
	assert.Equal(t, "extra pedas", items[0].Notes)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestClearEmptiesCartAndSnapshot(t *testing.T) {
	backing := setupBacking(t)
	s := NewStore(backing)
	s.Add(nasiGoreng, 2, "")

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Items())

	// snapshot ikut kosong, reload tidak menghidupkan cart lama
	assert.Empty(t, NewStore(backing).Items())
}
