package inmemdb

import (
	"sort"

	"github.com/padhai-app/padhai/core/message"
)

type messageRepository struct {
	db *messageTable
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *messageRepository) GetMessageByID(id string) (message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if msg, ok := repo.db.table[id]; ok {
		return *msg, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) QueryMessagesTo(userID string) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]message.Message, 0)
	for _, msg := range repo.db.table {
		if msg.To == userID {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Date > msgs[j].Date })
	return msgs, nil
}

func (repo *messageRepository) UpdateMessage(msg message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[msg.ID]; !ok {
		return message.Message{}, message.ErrNotFound
	}
	repo.db.table[msg.ID] = &msg
	return msg, nil
}
