package store

import "time"

// MessageRecord is one delivered message in an account's inbox. The store
// never inspects AttachmentRef or SenderMeta; both are opaque values handed
// over by the upload collaborator.
type MessageRecord struct {
	ID            string            `json:"id"`
	AttachmentRef string            `json:"attachmentRef"`
	Transcript    string            `json:"transcript,omitempty"`
	SenderMeta    map[string]string `json:"senderMeta,omitempty"`

	// ReceivedAt is assigned by the store at append time; caller-supplied
	// values are discarded.
	ReceivedAt time.Time `json:"receivedAt"`
}

// AccountRecord is the stored state of one account. The canonical username
// is the map key in the snapshot; Username is filled in on load and on
// reads for the caller's convenience.
type AccountRecord struct {
	Username        string          `json:"-"`
	CredentialHash  string          `json:"credentialHash"`
	Inbox           []MessageRecord `json:"inbox"`
	CreatedAt       time.Time       `json:"createdAt"`
	AutoProvisioned bool            `json:"autoProvisioned"`
}

// clone copies the record with its own inbox backing array, leaving room
// for one append. Records inside the inbox are never mutated after append,
// so they are copied by value.
func (a *AccountRecord) clone() *AccountRecord {
	c := *a
	c.Inbox = make([]MessageRecord, len(a.Inbox), len(a.Inbox)+1)
	copy(c.Inbox, a.Inbox)
	return &c
}
