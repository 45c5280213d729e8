package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "github.com/oksasatya/lincup/pkg/mailer/templates"
)

type fakeSender struct {
	to, subject, text, html string
	err                     error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	f.to, f.subject, f.text, f.html = to, subject, text, html
	return f.err
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestHandleTemplateJob(t *testing.T) {
	s := &fakeSender{}
	body := mustJSON(t, EmailJob{
		To:       "a@lehigh.edu",
		Template: tpl.Welcome,
		Data:     tpl.Data{AppName: "Linc-Up", Email: "a@lehigh.edu"}.Map(),
	})

	out, err := Handle(context.Background(), s, body, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	assert.Equal(t, "a@lehigh.edu", s.to)
	assert.Equal(t, "Welcome to Linc-Up", s.subject)
	assert.Contains(t, s.html, "a@lehigh.edu")
}

func TestHandleRawJob(t *testing.T) {
	s := &fakeSender{}
	body := mustJSON(t, EmailJob{To: "a@lehigh.edu", Subject: "hi", Text: "hello"})
	out, err := Handle(context.Background(), s, body, time.Second)
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	assert.Equal(t, "hello", s.text)
}

func TestHandleFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		sendErr error
		want    Outcome
	}{
		{"bad json", []byte("{"), nil, Drop},
		{"no recipient", mustJSON(t, EmailJob{Subject: "x"}), nil, Drop},
		{"unknown template", mustJSON(t, EmailJob{To: "a@lehigh.edu", Template: "nope"}), nil, Drop},
		{"send error", mustJSON(t, EmailJob{To: "a@lehigh.edu", Subject: "x"}), errors.New("down"), Retry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Handle(context.Background(), &fakeSender{err: tt.sendErr}, tt.body, time.Second)
			assert.Error(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

type settled struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcker struct {
	got []settled
}

func (a *fakeAcker) Ack(tag uint64, _ bool) error {
	a.got = append(a.got, settled{tag: tag, ack: true})
	return nil
}

func (a *fakeAcker) Nack(tag uint64, _ bool, requeue bool) error {
	a.got = append(a.got, settled{tag: tag, requeue: requeue})
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestConsumeSettlesAndReturnsWhenDeliveriesClose(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	acker := &fakeAcker{}
	ok := &fakeSender{}
	msgs := make(chan amqp.Delivery, 4)
	msgs <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: mustJSON(t, EmailJob{To: "a@lehigh.edu", Subject: "hi", Text: "x"})}
	msgs <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, Body: []byte("{bad")}
	close(msgs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		Consume(context.Background(), msgs, ok, time.Second, logger)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Consume did not return after the delivery channel closed")
	}
	assert.Equal(t, []settled{{tag: 1, ack: true}, {tag: 2}}, acker.got)
}

func TestConsumeRequeuesFailedSendOnce(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	acker := &fakeAcker{}
	down := &fakeSender{err: errors.New("mailgun down")}
	body := mustJSON(t, EmailJob{To: "a@lehigh.edu", Subject: "hi", Text: "x"})

	msgs := make(chan amqp.Delivery, 2)
	msgs <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: body}
	msgs <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, Body: body, Redelivered: true}
	close(msgs)

	Consume(context.Background(), msgs, down, time.Second, logger)
	assert.Equal(t, []settled{{tag: 1, requeue: true}, {tag: 2, requeue: false}}, acker.got)
}
