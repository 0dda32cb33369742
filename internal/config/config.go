package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrInvalidBoardSize = errors.New("board size must be at least 3")
	ErrInvalidWinLength = errors.New("win length must be between 3 and the board size")
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Game       Game   `yaml:"game" env-prefix:"GAME_"`
	Redis      Redis  `yaml:"redis" env-prefix:"REDIS_"`
	NATS       NATS   `yaml:"nats" env-prefix:"NATS_"`
}

type Game struct {
	BoardSize       int  `yaml:"board-size" env:"BOARD_SIZE" env-default:"3"`
	WinLength       int  `yaml:"win-length" env:"WIN_LENGTH" env-default:"3"`
	CoalesceUpdates bool `yaml:"coalesce-updates" env:"COALESCE_UPDATES" env-default:"false"`
	SendBuffer      int  `yaml:"send-buffer" env:"SEND_BUFFER" env-default:"16"`
}

type Redis struct {
	Enabled    bool          `yaml:"enabled" env:"ENABLED" env-default:"false"`
	Host       string        `yaml:"host" env:"HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"PORT" env-default:"6379"`
	ResultsTTL time.Duration `yaml:"results-ttl" env:"RESULTS_TTL" env-default:"168h"`
}

type NATS struct {
	URL           string `yaml:"url" env:"URL"`
	SubjectPrefix string `yaml:"subject-prefix" env:"SUBJECT_PREFIX" env-default:"tictactoe"`
}

// Load reads the YAML file at path with environment overrides. A missing file is not an
// error: the configuration then comes from the environment and defaults alone.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Game.BoardSize < 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidBoardSize, that.Game.BoardSize)
	}

	if that.Game.WinLength < 3 || that.Game.WinLength > that.Game.BoardSize {
		return fmt.Errorf("%w: got %d for board size %d", ErrInvalidWinLength, that.Game.WinLength, that.Game.BoardSize)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
