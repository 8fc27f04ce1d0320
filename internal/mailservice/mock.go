package mailservice

import (
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/postbook/internal/common"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(event common.PostCreatedEvent) (*Notification, error) {
	args := m.Called(event)
	n, _ := args.Get(0).(*Notification)
	return n, args.Error(1)
}

// MockDialer records the messages it is asked to deliver.
type MockDialer struct {
	mock.Mock
	Sent []*mail.Message
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	d.Sent = append(d.Sent, m...)
	args := d.Called(m)
	return args.Error(0)
}

// MockMailer fails the first failures sends and records the rest.
type MockMailer struct {
	mu         sync.Mutex
	failures   int
	attempts   int
	recipients []string
	events     []common.PostCreatedEvent
	sent       chan struct{}
}

func NewMockMailer(failures int) *MockMailer {
	return &MockMailer{failures: failures, sent: make(chan struct{}, 1)}
}

func (m *MockMailer) send(recipient string, event common.PostCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.failures {
		return errMockSend
	}

	m.recipients = append(m.recipients, recipient)
	m.events = append(m.events, event)
	select {
	case m.sent <- struct{}{}:
	default:
	}
	return nil
}

func (m *MockMailer) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *MockMailer) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.recipients...)
}

func (m *MockMailer) Events() []common.PostCreatedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]common.PostCreatedEvent(nil), m.events...)
}

type mockSendError struct{}

func (mockSendError) Error() string { return "smtp unavailable" }

var errMockSend error = mockSendError{}

type MockMessageConsumer struct {
	mock.Mock
	Body string
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)
		msgsChan <- amqp.Delivery{Body: []byte(m.Body)}
	}()

	return msgsChan, nil
}

type MockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *MockLogger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

func (l *MockLogger) Infos() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...)
}
