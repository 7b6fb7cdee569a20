package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"loanflow/internal/domain/notification"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, n *notification.Notification) error
}

// HTTPSender posts each notification as JSON to a mail relay.
type HTTPSender struct {
	url        string
	httpClient *retryablehttp.Client
}

func NewHTTPSender(url string, hc *retryablehttp.Client) *HTTPSender {
	return &HTTPSender{url: url, httpClient: hc}
}

func (s *HTTPSender) Send(ctx context.Context, n *notification.Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// LogSender only logs; used when no relay is configured.
type LogSender struct{ log *zap.Logger }

func NewLogSender(log *zap.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Send(_ context.Context, n *notification.Notification) error {
	s.log.Info("notification",
		zap.String("notification_id", n.ID),
		zap.String("to", n.Recipient),
		zap.String("subject", n.Subject),
		zap.String("loan_id", n.LoanID),
		zap.String("status", string(n.Status)))
	return nil
}
