package smsgw_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/notification"
	"github.com/dmitrymomot/notifyhub/pkg/smsgw"
)

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, params smsgw.SendSMSParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func TestChannelSender_Send(t *testing.T) {
	t.Parallel()

	msg := notification.NewMessage("Your invoice is overdue")
	to := notification.Recipient{Name: "Ana", Email: "ana@example.com", Phone: "+15551234567"}

	sender := new(MockSMSSender)
	sender.On("SendSMS", mock.Anything, smsgw.SendSMSParams{
		To:   "+15551234567",
		Text: "Your invoice is overdue",
	}).Return(nil).Once()

	cs := smsgw.NewChannelSender(sender)
	require.NoError(t, cs.Send(context.Background(), msg, to))
	sender.AssertExpectations(t)
}

func TestChannelSender_Send_ClipsLongText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 5000)
	msg := notification.NewMessage(long)
	to := notification.Recipient{Name: "Ana", Phone: "+15551234567"}

	sender := new(MockSMSSender)
	sender.On("SendSMS", mock.Anything, mock.MatchedBy(func(p smsgw.SendSMSParams) bool {
		return utf8.RuneCountInString(p.Text) == 1600 && strings.HasSuffix(p.Text, "...")
	})).Return(nil).Once()

	cs := smsgw.NewChannelSender(sender)
	require.NoError(t, cs.Send(context.Background(), msg, to))
	sender.AssertExpectations(t)
}

func TestChannelSender_Send_PropagatesError(t *testing.T) {
	t.Parallel()

	msg := notification.NewMessage("hi")
	to := notification.Recipient{Name: "Ana", Phone: "+15551234567"}

	sendErr := errors.New("gateway down")
	sender := new(MockSMSSender)
	sender.On("SendSMS", mock.Anything, mock.Anything).Return(sendErr).Once()

	cs := smsgw.NewChannelSender(sender)
	err := cs.Send(context.Background(), msg, to)
	assert.ErrorIs(t, err, sendErr)
	sender.AssertExpectations(t)
}
