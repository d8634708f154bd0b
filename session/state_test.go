package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshMachineIsUnjoined(t *testing.T) {
	m := NewMachine()
	snap := m.Snapshot()

	assert.Equal(t, StateUnjoined, snap.State)
	assert.False(t, snap.IsOpen)
	assert.False(t, snap.IsAwaitingStaff)
}

func TestJoinClosedThenOpenFlow(t *testing.T) {
	m := NewMachine()
	m.InitJoined(7, false)
	assert.Equal(t, StateJoinedClosed, m.State())
	assert.Equal(t, uint(7), m.TableID())

	require.NoError(t, m.MarkAwaitingStaff())
	assert.Equal(t, StateAwaitingStaff, m.State())
	assert.True(t, m.IsAwaitingStaff())

	m.Opened()
	assert.Equal(t, StateOpen, m.State())
	assert.False(t, m.IsAwaitingStaff())
}

func TestInitJoinedWithTokenStartsOpen(t *testing.T) {
	m := NewMachine()
	m.InitJoined(3, true)
	assert.True(t, m.IsOpen())
}

func TestMarkAwaitingStaffGuards(t *testing.T) {
	m := NewMachine()
	assert.ErrorIs(t, m.MarkAwaitingStaff(), ErrNotJoined)

	m.InitJoined(2, true)
	assert.ErrorIs(t, m.MarkAwaitingStaff(), ErrAlreadyOpen)

	m.InitJoined(2, false)
	require.NoError(t, m.MarkAwaitingStaff())
	assert.ErrorIs(t, m.MarkAwaitingStaff(), ErrAlreadyWaiting)
}

func TestOpenRequestFailedRollsBack(t *testing.T) {
	m := NewMachine()
	m.InitJoined(2, false)
	require.NoError(t, m.MarkAwaitingStaff())

	m.OpenRequestFailed()
	assert.Equal(t, StateJoinedClosed, m.State())
	assert.False(t, m.IsAwaitingStaff())

	// aksi bisa diulang setelah rollback
	require.NoError(t, m.MarkAwaitingStaff())
}

func TestPaymentQrOnlyWhileOpen(t *testing.T) {
	m := NewMachine()
	m.InitJoined(2, false)

	m.SetPaymentQr("qr-payload")
	assert.Empty(t, m.Snapshot().PaymentQrPayload)

	m.Opened()
	m.SetPaymentQr("qr-payload")
	assert.Equal(t, "qr-payload", m.Snapshot().PaymentQrPayload)

	m.ClearPaymentQr()
	assert.Empty(t, m.Snapshot().PaymentQrPayload)
}

func TestChangeTableReentersOpenAndDropsPaymentQr(t *testing.T) {
	m := NewMachine()
	m.InitJoined(3, true)
	m.SetPaymentQr("pending-qr")

	m.ChangeTable(5, "Table 5")

	snap := m.Snapshot()
	assert.Equal(t, StateOpen, snap.State)
	assert.Equal(t, uint(5), snap.TableID)
	assert.Equal(t, "Table 5", snap.TableName)
	assert.False(t, snap.IsAwaitingStaff)
	assert.Empty(t, snap.PaymentQrPayload)
}

func TestResetReturnsToUnjoinedFromAnyState(t *testing.T) {
	for _, setup := range []func(*Machine){
		func(m *Machine) {},
		func(m *Machine) { m.InitJoined(1, false) },
		func(m *Machine) { m.InitJoined(1, false); _ = m.MarkAwaitingStaff() },
		func(m *Machine) { m.InitJoined(1, true); m.SetPaymentQr("qr") },
	} {
		m := NewMachine()
		setup(m)
		m.Reset()

		snap := m.Snapshot()
		assert.Equal(t, StateUnjoined, snap.State)
		assert.Zero(t, snap.TableID)
		assert.Empty(t, snap.TableName)
		assert.False(t, snap.IsAwaitingStaff)
		assert.Empty(t, snap.PaymentQrPayload)
	}
}

func TestChangeSignalsAreMonotonic(t *testing.T) {
	m := NewMachine()

	m.BumpOrderEvent()
	first := m.Snapshot().LastOrderEventAt
	m.BumpOrderEvent()
	second := m.Snapshot().LastOrderEventAt
	assert.True(t, second.After(first))

	// clock yang membeku pun tidak membuat timestamp mundur
	frozen := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return frozen }

	m.BumpMenuEvent()
	menuFirst := m.Snapshot().LastMenuEventAt
	m.BumpMenuEvent()
	assert.True(t, m.Snapshot().LastMenuEventAt.After(menuFirst))
}
