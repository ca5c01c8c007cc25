package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMsg(t *testing.T) {
	email, err := buildMsg(Message{
		From:    "visitor@example.com",
		To:      "ops@example.com",
		Subject: "New Message from Ada",
		Body:    "hello",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = email.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: <visitor@example.com>")
	assert.Contains(t, raw, "To: <ops@example.com>")
	assert.Contains(t, raw, "Subject: New Message from Ada")
	assert.Contains(t, raw, "hello")
}

func TestSend_InvalidAddressFailsBeforeDialing(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "127.0.0.1", Port: 1})

	err := m.Send(context.Background(), Message{From: "not an address", To: "ops@example.com"})
	assert.ErrorContains(t, err, "invalid from address")

	err = m.Send(context.Background(), Message{From: "a@example.com", To: ""})
	assert.ErrorContains(t, err, "invalid to address")
}
