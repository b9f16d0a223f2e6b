package form

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier shows transient status messages. Loading returns an id that the
// matching Success or Error call replaces.
type Notifier interface {
	Loading(msg string) string
	Success(id, msg string)
	Error(id, msg string)
}

// NopNotifier discards every message
type NopNotifier struct{}

func (NopNotifier) Loading(string) string { return "" }
func (NopNotifier) Success(string, string) {}
func (NopNotifier) Error(string, string)   {}

// LogNotifier writes status messages to a zap logger
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("toast")}
}

func (n *LogNotifier) Loading(msg string) string {
	id := uuid.NewString()
	n.log.Info(msg, zap.String("id", id))
	return id
}

func (n *LogNotifier) Success(id, msg string) {
	n.log.Info(msg, zap.String("id", id))
}

func (n *LogNotifier) Error(id, msg string) {
	n.log.Warn(msg, zap.String("id", id))
}
