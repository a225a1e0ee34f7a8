package models

import (
	"fmt"
	"strconv"
	"strings"
)

const chatIDPrefix = "chat-"

// Chat is one roster entry. ID never changes after creation.
type Chat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Roster is the ordered list of chats, in creation order.
type Roster []Chat

// ChatID formats the id for chat number n.
func ChatID(n int) string {
	return chatIDPrefix + strconv.Itoa(n)
}

// DefaultChatName is the name a chat gets when nothing better is known.
func DefaultChatName(n int) string {
	return fmt.Sprintf("Chat %d", n)
}

// ChatNumber parses the N of "chat-<N>". ok is false for ids of any other form.
func ChatNumber(id string) (n int, ok bool) {
	digits, found := strings.CutPrefix(id, chatIDPrefix)
	if !found || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NextNumber returns one more than the largest chat number in r, so numbers
// freed by deletions are never handed out again.
func (r Roster) NextNumber() int {
	highest := 0
	for _, c := range r {
		if n, ok := ChatNumber(c.ID); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func (r Roster) Find(id string) (Chat, bool) {
	for _, c := range r {
		if c.ID == id {
			return c, true
		}
	}
	return Chat{}, false
}

// Clone returns a copy that can be mutated without touching r.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// DefaultRoster is the seed written when no usable roster is stored.
func DefaultRoster() Roster {
	return Roster{
		{ID: ChatID(1), Name: DefaultChatName(1)},
		{ID: ChatID(2), Name: DefaultChatName(2)},
		{ID: ChatID(3), Name: DefaultChatName(3)},
	}
}
