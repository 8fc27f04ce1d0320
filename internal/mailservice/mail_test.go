package mailservice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/postbook/internal/common"
)

func TestMail_Send(t *testing.T) {
	event := common.PostCreatedEvent{Title: "Why Go", URL: "www.google.com"}

	dialer := new(MockDialer)
	dialer.On("DialAndSend", mock.Anything).Return(nil)

	m := &Mail{dialer: dialer, renderer: NewTemplate(), sender: "Postbook <no-reply@postbook.dev>"}

	err := m.send("editor@example.com", event)
	require.NoError(t, err)

	require.Len(t, dialer.Sent, 1)
	msg := dialer.Sent[0]
	assert.Equal(t, []string{"Postbook <no-reply@postbook.dev>"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"editor@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"New post: Why Go"}, msg.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "text/plain")
	assert.Contains(t, raw.String(), "text/html")
	assert.Contains(t, raw.String(), "www.google.com")

	dialer.AssertExpectations(t)
}

func TestMail_SendErrors(t *testing.T) {
	event := common.PostCreatedEvent{Title: "Why Go", URL: "www.google.com"}

	testCases := []struct {
		name      string
		renderErr error
		dialErr   error
		dialed    bool
	}{
		{name: "render failure", renderErr: errors.New("missing block"), dialed: false},
		{name: "smtp failure", dialErr: errors.New("connection refused"), dialed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			renderer := new(MockRenderer)
			if tc.renderErr != nil {
				renderer.On("Render", event).Return(nil, tc.renderErr)
			} else {
				renderer.On("Render", event).Return(&Notification{Subject: "s", PlainBody: "p", HTMLBody: "h"}, nil)
			}

			dialer := new(MockDialer)
			dialer.On("DialAndSend", mock.Anything).Return(tc.dialErr)

			m := &Mail{dialer: dialer, renderer: renderer, sender: "no-reply@postbook.dev"}

			err := m.send("editor@example.com", event)
			require.Error(t, err)
			if tc.renderErr != nil {
				assert.ErrorIs(t, err, tc.renderErr)
			} else {
				assert.ErrorIs(t, err, tc.dialErr)
			}

			assert.Equal(t, tc.dialed, len(dialer.Sent) == 1)
			renderer.AssertExpectations(t)
		})
	}
}
