package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvDevelopment activa la salida de consola legible; cualquier otro APP_ENV emite JSON.
const EnvDevelopment = "development"

// Config opciones para el logger (APP_ENV, LOG_LEVEL, APP_NAME).
type Config struct {
	Env     string
	Level   string // trace, debug, info, warn, error; vacío o desconocido -> info
	Service string
	// Out destino de la salida; nil usa stdout y redirige el logger global de zerolog.
	Out io.Writer
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del servicio.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if isDevelopment(cfg.Env) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	zctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}
	if env := strings.TrimSpace(cfg.Env); env != "" {
		zctx = zctx.Str("env", env)
	}
	zl := zctx.Logger()

	// Librerías que usan el logger global de zerolog escriben con el mismo formato
	if cfg.Out == nil {
		log.Logger = zl
	}
	return &Logger{zl: zl}
}

// NewWithWriter crea un logger JSON sobre w.
func NewWithWriter(w io.Writer, level string) *Logger {
	return New(Config{Level: level, Out: w})
}

// Nop devuelve un logger que descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// ParseLevel interpreta LOG_LEVEL sin distinguir mayúsculas.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func isDevelopment(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), EnvDevelopment)
}

// Component sublogger con el campo component, usado por cada caso de uso.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
