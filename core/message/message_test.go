package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/message"
	"github.com/padhai-app/padhai/core/user"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

type mailRecorder struct {
	sent []*core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func setup(t *testing.T) (*message.Service, *user.Service, *mailRecorder) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	mail := new(mailRecorder)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	svc := message.NewService(inmemdb.NewMessageRepository(db), usrSvc, mail)
	return svc, usrSvc, mail
}

func createUser(t *testing.T, usrSvc *user.Service, name, uname, email string) user.User {
	usr, err := usrSvc.Create(user.NewUser{
		Name: name, Username: uname, Email: email,
		Password: "Secret123!", PasswordConfirm: "Secret123!",
		Roles: user.StudentRoles,
	})
	require.NoError(t, err)
	return usr
}

func TestSend(t *testing.T) {
	svc, usrSvc, mail := setup(t)
	staff := createUser(t, usrSvc, "Teacher", "teach1", "teach@test.com")
	rcpt := createUser(t, usrSvc, "Alice", "alice1", "alice@test.com")

	t.Run("stored and mirrored to email", func(t *testing.T) {
		msg, err := svc.Send(staff.ID, message.NewMessage{
			To: rcpt.ID, Subject: "Fee reminder", Content: "Second installment is due.",
		})
		require.NoError(t, err)
		assert.Equal(t, staff.ID, msg.From)
		assert.Equal(t, rcpt.ID, msg.To)
		assert.False(t, msg.Read)

		require.Len(t, mail.sent, 1)
		assert.Equal(t, "Fee reminder", mail.sent[0].Subject)
		assert.Equal(t, "alice@test.com", mail.sent[0].To[0].Address)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := svc.Send(staff.ID, message.NewMessage{To: "nope", Subject: "s", Content: "c"})
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := svc.Send(staff.ID, message.NewMessage{To: rcpt.ID, Subject: "s"})
		assert.Error(t, err)
	})
}

func TestInboxAndMarkRead(t *testing.T) {
	svc, usrSvc, _ := setup(t)
	staff := createUser(t, usrSvc, "Teacher", "teach1", "teach@test.com")
	alice := createUser(t, usrSvc, "Alice", "alice1", "alice@test.com")
	bob := createUser(t, usrSvc, "Bob", "boboon", "bob@test.com")

	msg, err := svc.Send(staff.ID, message.NewMessage{To: alice.ID, Subject: "Hello", Content: "Hi"})
	require.NoError(t, err)
	_, err = svc.Send(staff.ID, message.NewMessage{To: bob.ID, Subject: "Other", Content: "Hi"})
	require.NoError(t, err)

	t.Run("inbox only holds own messages", func(t *testing.T) {
		inbox, err := svc.Inbox(alice.ID)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		assert.Equal(t, "Hello", inbox[0].Subject)
	})

	t.Run("only the recipient may mark read", func(t *testing.T) {
		_, err := svc.MarkRead(msg.ID, bob.ID)
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("mark read is idempotent", func(t *testing.T) {
		got, err := svc.MarkRead(msg.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)

		got, err = svc.MarkRead(msg.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)
	})
}
