package suggestions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Store persists the suggestions document. Update and NextID are serialized
// per store so concurrent handlers never lose writes.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	NextID(ctx context.Context) (int64, error)
	Update(ctx context.Context, fn func(*Document) error) error
}

// Encode renders a document the way it is persisted.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc.normalize()); err != nil {
		return nil, fmt.Errorf("encode suggestions document: %w", err)
	}
	return buf.Bytes(), nil
}

// VoteKeys maps the vote keys written by the earlier bot, the reaction emoji
// strings, onto marks.
type VoteKeys map[string]Mark

const (
	LegacyApproveKey = "<:Tick:1422628423620366469>"
	LegacyRejectKey  = "<:Cross:1422628421913149440>"
)

// DefaultVoteKeys returns the emoji keys used by existing suggestions files.
func DefaultVoteKeys() VoteKeys {
	return VoteKeys{LegacyApproveKey: MarkApprove, LegacyRejectKey: MarkReject}
}

// Decode parses a persisted document using DefaultVoteKeys.
func Decode(raw []byte) (*Document, error) {
	return DecodeWith(raw, DefaultVoteKeys())
}

// DecodeWith parses a persisted document and folds vote keys found in keys
// into their marks. Other unknown keys are kept as written and reported by
// Check.
func DecodeWith(raw []byte, keys VoteKeys) (*Document, error) {
	doc := NewDocument()
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode suggestions document: %w", err)
	}
	doc.foldVoteKeys(keys)
	return doc.normalize(), nil
}

func (d *Document) foldVoteKeys(keys VoteKeys) {
	for _, rec := range d.Suggestions {
		if rec == nil {
			continue
		}
		for key, mark := range keys {
			ids, ok := rec.Votes[Mark(key)]
			if !ok || !mark.Valid() || Mark(key).Valid() {
				continue
			}
			for _, id := range ids {
				rec.Votes.Add(mark, id)
			}
			delete(rec.Votes, Mark(key))
		}
	}
}

func nextID(ctx context.Context, s Store) (int64, error) {
	var id int64
	err := s.Update(ctx, func(doc *Document) error {
		doc.LastID++
		id = doc.LastID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
