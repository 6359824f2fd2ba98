package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/remiriasukaretto/tokumei/pkg/config"
)

type Config struct {
	Server    ServerConfig
	Stream    StreamConfig
	WebSocket WebSocketConfig
	Web       WebConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// StreamConfig controls live-feed delivery.
type StreamConfig struct {
	// Buffer is the per-subscriber event queue size. A subscriber that
	// falls this far behind is evicted.
	Buffer int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

// WebConfig points at the static client/host pages. An empty or missing
// dir disables static serving.
type WebConfig struct {
	Dir string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load(pkgconfig.GetEnv("CONFIG_PATH", "./config"), "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3000)
	v.SetDefault("stream.buffer", 256)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("web.dir", "./public")
	v.SetDefault("log.level", "info")

	// Override from environment
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("stream.buffer", "STREAM_BUFFER")
	v.BindEnv("web.dir", "WEB_DIR")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
