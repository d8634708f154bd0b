package config

import (
	"os"
	"strconv"
	"time"
)

// Config menampung seluruh konfigurasi runtime milik guest agent.
// Semua nilai dibaca dari environment variables dengan default yang aman,
// sehingga agent tetap bisa boot tanpa .env lengkap.
type Config struct {
	BackendBaseURL string        // base URL REST API backend (mis. http://localhost:8080/api)
	SocketURL      string        // URL websocket broker (mis. ws://localhost:8080/ws)
	LaunchLocator  string        // locator awal dari QR scan (path/fragment/query)
	StorePath      string        // lokasi file sqlite untuk persisted session + cart
	FacadePort     string        // port HTTP facade lokal untuk rendering layer
	RequestTimeout time.Duration // timeout request REST API
	ReconnectDelay time.Duration // jeda tetap sebelum reconnect websocket
	HeartbeatEvery time.Duration // interval ping heartbeat websocket
}

// Load membaca konfigurasi dari environment variables.
func Load() Config {
	return Config{
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080/api"),
		SocketURL:      getEnv("SOCKET_URL", "ws://localhost:8080/ws"),
		LaunchLocator:  getEnv("LAUNCH_LOCATOR", "/"),
		StorePath:      getEnv("STORE_PATH", "guest-session.db"),
		FacadePort:     getEnv("FACADE_PORT", "8090"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT_SEC", 15) * time.Second,
		ReconnectDelay: getDuration("RECONNECT_DELAY_SEC", 5) * time.Second,
		HeartbeatEvery: getDuration("HEARTBEAT_INTERVAL_SEC", 4) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
