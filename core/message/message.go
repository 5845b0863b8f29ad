package message

import (
	"net/mail"

	"github.com/google/uuid"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("message not found")
)

// Message is a one-way note from staff to a student or parent account.
type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
}

type NewMessage struct {
	To      string `json:"to" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (nm *NewMessage) Validate() error {
	nm.Subject = core.CleanString(nm.Subject)
	return core.Validate.Struct(nm)
}

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		GetMessageByID(id string) (Message, error)
		// QueryMessagesTo returns a user's inbox, most recent first.
		QueryMessagesTo(userID string) ([]Message, error)
		UpdateMessage(msg Message) (Message, error)
	}

	Service struct {
		repo    Repository
		usrSvc  *user.Service
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, usrSvc *user.Service, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, mailSvc: mailSvc}
}

// Send stores the message and mirrors it to the recipient's email when one
// is on file.
func (svc *Service) Send(fromID string, nm NewMessage) (Message, error) {
	if err := nm.Validate(); err != nil {
		return Message{}, err
	}
	rcpt, err := svc.usrSvc.GetByID(nm.To)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		ID:      uuid.New().String(),
		From:    fromID,
		To:      rcpt.ID,
		Subject: nm.Subject,
		Content: nm.Content,
		Date:    core.Today(),
	}
	msg, err = svc.repo.CreateMessage(msg)
	if err != nil {
		return Message{}, err
	}

	if rcpt.Email != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: rcpt.Name, Address: rcpt.Email}},
			Subject: msg.Subject,
			Body:    msg.Content,
		})
	}
	return msg, nil
}

// Inbox lists a user's messages, most recent first.
func (svc *Service) Inbox(userID string) ([]Message, error) {
	return svc.repo.QueryMessagesTo(userID)
}

// MarkRead is idempotent; only the recipient may mark their message.
func (svc *Service) MarkRead(id, userID string) (Message, error) {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		return Message{}, err
	}
	if msg.To != userID {
		return Message{}, ErrNotFound
	}
	if msg.Read {
		return msg, nil
	}
	msg.Read = true
	return svc.repo.UpdateMessage(msg)
}
