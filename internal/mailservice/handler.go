package mailservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sushihentaime/postbook/internal/common"
	"golang.org/x/exp/rand"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender, recipient string, port int, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:    logger,
		recipient: recipient,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NotifyNewPosts consumes post.created events and mails a notification for
// each of them to the configured recipient.
func (s *MailService) NotifyNewPosts() {
	msgs, err := s.mb.Consume(common.PostCreatedKey, common.PostExchange, common.PostCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", "error", err.Error())
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event common.PostCreatedEvent
				err := json.Unmarshal(msg.Body, &event)
				if err != nil {
					s.logger.Error("could not unmarshal message", "error", err.Error())
					msg.Ack(false)
					continue
				}

				// using exponential backoff with jitter
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(s.recipient, event)
					if err == nil {
						s.logger.Info("post notification sent", "title", event.Title)
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying post notification", "title", event.Title, "attempt", attempt, "delay", delay)
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send post notification", "title", event.Title)
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping NotifyNewPosts due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
