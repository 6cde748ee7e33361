package messaging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/zeromicro/go-zero/core/logx"
)

// watermillLogger Watermill 日志适配器，桥接到 logx
type watermillLogger struct {
	serviceName string
	fields      watermill.LogFields
}

// newWatermillLogger 创建 Watermill 日志适配器
func newWatermillLogger(serviceName string) watermill.LoggerAdapter {
	return &watermillLogger{serviceName: serviceName}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	logx.Errorf("[%s] %s: %v %v", l.serviceName, msg, err, l.fields.Add(fields))
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	logx.Infof("[%s] %s %v", l.serviceName, msg, l.fields.Add(fields))
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	logx.Debugf("[%s] %s %v", l.serviceName, msg, l.fields.Add(fields))
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	logx.Debugf("[%s] %s %v", l.serviceName, msg, l.fields.Add(fields))
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{
		serviceName: l.serviceName,
		fields:      l.fields.Add(fields),
	}
}
