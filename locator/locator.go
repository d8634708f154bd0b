package locator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// DefaultTableID dipakai ketika locator tidak mengandung nomor meja sama sekali.
const DefaultTableID uint = 1

// tablePattern menjaga strconv: hanya teks yang sudah lolos pattern yang diparse,
// jadi Resolve tidak pernah gagal.
var (
	tablePattern = regexp.MustCompile(`(?:^|/)table/(\d+)(?:/|$)`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

// Resolve -> menentukan kandidat nomor meja dari locator hasil scan QR.
// Prioritas ketat: path segment > fragment segment > query parameter > default.
// Pure function, tanpa side effect.
func Resolve(raw string) uint {
	path, fragment, query := splitLocator(raw)

	if id, ok := matchTableSegment(path); ok {
		return id
	}
	if id, ok := matchTableSegment(fragment); ok {
		return id
	}
	if id, ok := matchTableQuery(query); ok {
		return id
	}
	return DefaultTableID
}

// splitLocator memecah locator mentah menjadi path, fragment, dan query string.
// Tidak memakai net/url.Parse karena locator dari QR bisa berupa fragment-route
// ("#/table/7") yang bukan URL absolut valid; pemecahan manual tidak pernah error.
func splitLocator(raw string) (path, fragment, query string) {
	path = raw
	if i := strings.Index(path, "#"); i >= 0 {
		fragment = path[i+1:]
		path = path[:i]
	}
	if i := strings.Index(fragment, "?"); i >= 0 {
		fragment = fragment[:i]
	}
	if i := strings.Index(path, "?"); i >= 0 {
		query = path[i+1:]
		path = path[:i]
	}
	return path, fragment, query
}

func matchTableSegment(segment string) (uint, bool) {
	m := tablePattern.FindStringSubmatch(segment)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil || n == 0 {
		// angka terlalu besar atau nol -> perlakukan seperti tidak match
		return 0, false
	}
	return uint(n), true
}

func matchTableQuery(query string) (uint, bool) {
	for _, pair := range strings.Split(query, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k != "table" {
			continue
		}
		if digitsOnly.MatchString(v) {
			n, err := strconv.ParseUint(v, 10, 32)
			if err == nil && n > 0 {
				return uint(n), true
			}
		}
	}
	return 0, false
}

// Locator memegang locator yang sedang terlihat di device dan bisa ditulis ulang
// in-place (tanpa navigasi/reload) saat reconciliation atau table change.
type Locator struct {
	mu      sync.RWMutex
	current string
}

func NewLocator(initial string) *Locator {
	return &Locator{current: initial}
}

// Current mengembalikan locator yang sedang terlihat.
func (l *Locator) Current() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Rewrite mengganti locator menjadi bentuk kanonik untuk meja tertentu.
func (l *Locator) Rewrite(tableID uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = fmt.Sprintf("/table/%d", tableID)
}
