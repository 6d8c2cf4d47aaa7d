package suggestions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"
)

// Mark is one of the two vote kinds a member can place on a suggestion.
type Mark string

const (
	MarkApprove Mark = "approve"
	MarkReject  Mark = "reject"
)

// Opposite returns the other mark.
func (m Mark) Opposite() Mark {
	if m == MarkApprove {
		return MarkReject
	}
	return MarkApprove
}

// Valid reports whether m is a known mark.
func (m Mark) Valid() bool {
	return m == MarkApprove || m == MarkReject
}

// Status is the lifecycle state of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Outcome is a staff decision on a pending suggestion.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// Status returns the terminal status the outcome leads to.
func (o Outcome) Status() Status {
	if o == OutcomeApprove {
		return StatusApproved
	}
	return StatusRejected
}

const (
	MinContentLength = 10
	MaxContentLength = 500
)

// ValidateContent checks the submission length bounds, counted in runes.
func ValidateContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < MinContentLength || n > MaxContentLength {
		return fmt.Errorf("%w: suggestion must be between %d and %d characters (got %d)",
			ErrValidation, MinContentLength, MaxContentLength, n)
	}
	return nil
}

// Votes maps each mark to the set of user IDs holding it.
type Votes map[Mark][]string

// NewVotes returns a vote map with both marks present and empty.
func NewVotes() Votes {
	return Votes{MarkApprove: []string{}, MarkReject: []string{}}
}

// Has reports whether userID holds mark.
func (v Votes) Has(mark Mark, userID string) bool {
	return slices.Contains(v[mark], userID)
}

// Add inserts userID into mark's set. It returns false when already present.
func (v Votes) Add(mark Mark, userID string) bool {
	if v.Has(mark, userID) {
		return false
	}
	v[mark] = append(v[mark], userID)
	return true
}

// Remove drops userID from mark's set. It returns false when absent.
func (v Votes) Remove(mark Mark, userID string) bool {
	set := v[mark]
	idx := slices.Index(set, userID)
	if idx < 0 {
		return false
	}
	v[mark] = slices.Delete(set, idx, idx+1)
	return true
}

// Count returns the size of mark's set.
func (v Votes) Count(mark Mark) int {
	return len(v[mark])
}

// UnmarshalJSON keeps every key as written; keys other than the two marks
// are resolved later against the store's VoteKeys.
func (v *Votes) UnmarshalJSON(raw []byte) error {
	var in map[string][]snowflake
	if err := json.Unmarshal(raw, &in); err != nil {
		return err
	}
	out := make(Votes, len(in))
	for key, ids := range in {
		set := make([]string, 0, len(ids))
		for _, id := range ids {
			set = append(set, string(id))
		}
		out[Mark(key)] = set
	}
	*v = out
	return nil
}

func (v Votes) normalize() Votes {
	if v == nil {
		return NewVotes()
	}
	for _, m := range []Mark{MarkApprove, MarkReject} {
		if v[m] == nil {
			v[m] = []string{}
		}
	}
	return v
}

func (v Votes) clone() Votes {
	out := make(Votes, len(v))
	for k, ids := range v {
		out[k] = slices.Clone(ids)
	}
	return out.normalize()
}

// Record is a single suggestion.
type Record struct {
	ID            int64      `json:"id"`
	MessageID     string     `json:"message_id"`
	AuthorID      string     `json:"author_id"`
	Content       string     `json:"content"`
	Votes         Votes      `json:"votes"`
	Status        Status     `json:"status"`
	StaffResponse *string    `json:"staff_response"`
	DecidedBy     string     `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UnmarshalJSON accepts snowflakes written as JSON numbers or strings.
func (r *Record) UnmarshalJSON(raw []byte) error {
	type plain Record
	aux := struct {
		*plain
		MessageID snowflake `json:"message_id"`
		AuthorID  snowflake `json:"author_id"`
		DecidedBy snowflake `json:"decided_by"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}
	r.MessageID = string(aux.MessageID)
	r.AuthorID = string(aux.AuthorID)
	r.DecidedBy = string(aux.DecidedBy)
	return nil
}

// Clone returns a deep copy safe to hand outside the store lock.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Votes = r.Votes.clone()
	if r.StaffResponse != nil {
		resp := *r.StaffResponse
		out.StaffResponse = &resp
	}
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		out.DecidedAt = &at
	}
	return &out
}

// Document is the whole persisted suggestions state.
type Document struct {
	LastID      int64     `json:"last_id"`
	PanelID     *string   `json:"panel_id"`
	Suggestions []*Record `json:"suggestions"`
}

// UnmarshalJSON accepts a numeric or string panel_id.
func (d *Document) UnmarshalJSON(raw []byte) error {
	type plain Document
	aux := struct {
		*plain
		PanelID *snowflake `json:"panel_id"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}
	d.PanelID = nil
	if aux.PanelID != nil {
		d.SetPanel(string(*aux.PanelID))
	}
	return nil
}

// NewDocument returns the empty document written on first use.
func NewDocument() *Document {
	return &Document{Suggestions: []*Record{}}
}

// Find returns the suggestion with the given id.
func (d *Document) Find(id int64) *Record {
	for _, s := range d.Suggestions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// FindByMessage returns the suggestion displayed by messageID.
func (d *Document) FindByMessage(messageID string) *Record {
	if messageID == "" {
		return nil
	}
	for _, s := range d.Suggestions {
		if s.MessageID == messageID {
			return s
		}
	}
	return nil
}

// Panel returns the tracked panel message id, or "".
func (d *Document) Panel() string {
	if d.PanelID == nil {
		return ""
	}
	return *d.PanelID
}

// SetPanel replaces the tracked panel message id. An empty id clears it.
func (d *Document) SetPanel(messageID string) {
	if messageID == "" {
		d.PanelID = nil
		return
	}
	d.PanelID = &messageID
}

func (d *Document) normalize() *Document {
	if d.Suggestions == nil {
		d.Suggestions = []*Record{}
	}
	for _, s := range d.Suggestions {
		if s != nil {
			s.Votes = s.Votes.normalize()
		}
	}
	return d
}

// snowflake is a Discord id stored either as a JSON string or a JSON number.
type snowflake string

func (s *snowflake) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*s = ""
		return nil
	case len(raw) > 0 && raw[0] == '"':
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return err
		}
		*s = snowflake(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("snowflake %s: %w", raw, err)
	}
	*s = snowflake(n.String())
	return nil
}
