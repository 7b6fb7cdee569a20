package httpclient

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// New returns a retrying HTTP client that logs through log.
func New(log *zap.Logger, retries int, timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retries
	c.RetryWaitMin = 100 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = timeout
	if log == nil {
		c.Logger = nil
	} else {
		c.Logger = leveled{log.Sugar()}
	}
	return c
}

// leveled adapts zap to retryablehttp.LeveledLogger.
type leveled struct{ s *zap.SugaredLogger }

func (l leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
