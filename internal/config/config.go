package config // package config loads application configuration from environment variables

import (
	"errors"
	"io/fs"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Default listening ports. The greeter keeps the port its Node ancestor
// used; the Cloud Run style services default to 8080.
const (
	DefaultGreeterPort = 3000
	DefaultServicePort = 8080
)

var dotenvOnce sync.Once

// LoadDotEnv reads a .env file (or the file named by ENV_FILE) into the
// process environment. Variables already set in the environment win. A
// missing file is not an error; a malformed one is logged and ignored.
func LoadDotEnv() {
	dotenvOnce.Do(func() {
		path := envStr("ENV_FILE", ".env")
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	})
}

// ServerConfig is the startup configuration of an HTTP service. It is
// resolved once in main and passed down; handlers never read the
// environment themselves.
type ServerConfig struct {
	Port            int           // TCP port to listen on
	ShutdownTimeout time.Duration // grace period for in-flight requests on SIGTERM
}

// Addr returns the listen address for echo.Start.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// LoadServer resolves PORT. A value that is unset, not a number or outside
// 1..65535 falls back to defPort.
func LoadServer(defPort int) ServerConfig {
	return ServerConfig{
		Port:            envPort("PORT", defPort),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// LoadGreeter is LoadServer with the greeter's default port.
func LoadGreeter() ServerConfig {
	return LoadServer(DefaultGreeterPort)
}

func envPort(k string, d int) int {
	n := envInt(k, d)
	if n < 1 || n > 65535 {
		return d
	}
	return n
}
