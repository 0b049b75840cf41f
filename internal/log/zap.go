package log

import "go.uber.org/zap"

// ZapLogger keeps events in memory and mirrors each one to a structured zap logger.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	event = l.record(event)
	fields := []zap.Field{
		zap.Int("seq", event.Seq),
		zap.Int("round", event.Round),
		zap.String("phase", event.Phase),
		zap.String("type", event.Type.String()),
	}
	if event.Player != "" {
		fields = append(fields, zap.String("player", event.Player))
	}
	if event.Card != "" {
		fields = append(fields, zap.String("card", event.Card))
	}
	switch event.Type {
	case EventError:
		l.z.Error(event.Details, fields...)
	case EventIllegalAction:
		l.z.Warn(event.Details, fields...)
	case EventDialogue, EventPhaseChange:
		l.z.Debug(event.Details, fields...)
	default:
		l.z.Info(event.Details, fields...)
	}
}
