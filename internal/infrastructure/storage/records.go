package storage

import (
	"time"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/versioning"
)

// 文件记录结构与领域模型分离，字段变更通过 schemaVersion 识别

type messageRecord struct {
	ID                string    `json:"id"`
	Role              string    `json:"role"`
	Content           string    `json:"content"`
	Timestamp         time.Time `json:"timestamp"`
	Round             int       `json:"round"`
	Mentions          []string  `json:"mentions,omitempty"`
	ReplyTo           *string   `json:"replyTo,omitempty"`
	MergedFrom        string    `json:"mergedFrom,omitempty"`
	OriginalMessageID string    `json:"originalMessageId,omitempty"`
}

type participantRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type conflictRecord struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Participants []string `json:"participants,omitempty"`
	Round        int      `json:"round"`
}

type contextRecord struct {
	Topic        string              `json:"topic"`
	Status       string              `json:"status"`
	Rounds       int                 `json:"rounds"`
	Participants []participantRecord `json:"participants"`
}

type stateRecord struct {
	Messages []messageRecord `json:"messages"`
	Context  contextRecord   `json:"context"`
}

type discussionRecord struct {
	SchemaVersion int                 `json:"schemaVersion"`
	ID            string              `json:"id"`
	Topic         string              `json:"topic"`
	Status        string              `json:"status"`
	Messages      []messageRecord     `json:"messages"`
	Participants  []participantRecord `json:"participants"`
	Rounds        int                 `json:"rounds"`
	Conflicts     []conflictRecord    `json:"conflicts"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type snapshotRecord struct {
	SchemaVersion int         `json:"schemaVersion"`
	ID            string      `json:"id"`
	DiscussionID  string      `json:"discussionId"`
	Version       int         `json:"version"`
	Timestamp     time.Time   `json:"timestamp"`
	Description   string      `json:"description"`
	Tags          []string    `json:"tags"`
	Type          string      `json:"type"`
	Data          stateRecord `json:"data"`
}

type branchRecord struct {
	SchemaVersion      int         `json:"schemaVersion"`
	ID                 string      `json:"id"`
	SourceDiscussionID string      `json:"sourceDiscussionId"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	CreatedAt          time.Time   `json:"createdAt"`
	SnapshotID         string      `json:"snapshotId,omitempty"`
	Data               stateRecord `json:"data"`
}

func toMessageRecords(messages []discussion.Message) []messageRecord {
	out := make([]messageRecord, len(messages))
	for i, m := range messages {
		r := messageRecord{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			Round:     m.Round,
			Mentions:  append([]string(nil), m.Mentions...),
		}
		if m.ReplyTo != nil {
			replyTo := *m.ReplyTo
			r.ReplyTo = &replyTo
		}
		if m.Provenance != nil {
			r.MergedFrom = m.Provenance.MergedFrom
			r.OriginalMessageID = m.Provenance.OriginalMessageID
		}
		out[i] = r
	}
	return out
}

func fromMessageRecords(records []messageRecord) []discussion.Message {
	out := make([]discussion.Message, len(records))
	for i, r := range records {
		m := discussion.Message{
			ID:        r.ID,
			Role:      r.Role,
			Content:   r.Content,
			Timestamp: r.Timestamp,
			Round:     r.Round,
			Mentions:  append([]string{}, r.Mentions...),
		}
		if r.ReplyTo != nil {
			replyTo := *r.ReplyTo
			m.ReplyTo = &replyTo
		}
		if r.MergedFrom != "" {
			m.Provenance = &discussion.Provenance{
				MergedFrom:        r.MergedFrom,
				OriginalMessageID: r.OriginalMessageID,
			}
		}
		out[i] = m
	}
	return out
}

func toParticipantRecords(participants []discussion.Participant) []participantRecord {
	out := make([]participantRecord, len(participants))
	for i, p := range participants {
		out[i] = participantRecord{ID: p.ID, Name: p.Name, Role: p.Role}
	}
	return out
}

func fromParticipantRecords(records []participantRecord) []discussion.Participant {
	out := make([]discussion.Participant, len(records))
	for i, r := range records {
		out[i] = discussion.Participant{ID: r.ID, Name: r.Name, Role: r.Role}
	}
	return out
}

func toStateRecord(s versioning.State) stateRecord {
	return stateRecord{
		Messages: toMessageRecords(s.Messages),
		Context: contextRecord{
			Topic:        s.Context.Topic,
			Status:       string(s.Context.Status),
			Rounds:       s.Context.Rounds,
			Participants: toParticipantRecords(s.Context.Participants),
		},
	}
}

func fromStateRecord(r stateRecord) versioning.State {
	return versioning.State{
		Messages: fromMessageRecords(r.Messages),
		Context: versioning.ContextState{
			Topic:        r.Context.Topic,
			Status:       discussion.Status(r.Context.Status),
			Rounds:       r.Context.Rounds,
			Participants: fromParticipantRecords(r.Context.Participants),
		},
	}
}

func toDiscussionRecord(d *discussion.Discussion) discussionRecord {
	conflicts := make([]conflictRecord, len(d.Conflicts))
	for i, c := range d.Conflicts {
		conflicts[i] = conflictRecord{
			ID:           c.ID,
			Description:  c.Description,
			Participants: append([]string(nil), c.Participants...),
			Round:        c.Round,
		}
	}
	return discussionRecord{
		SchemaVersion: CurrentSchemaVersion,
		ID:            d.ID,
		Topic:         d.Topic,
		Status:        string(d.Status),
		Messages:      toMessageRecords(d.Messages),
		Participants:  toParticipantRecords(d.Participants),
		Rounds:        d.Rounds,
		Conflicts:     conflicts,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func fromDiscussionRecord(r discussionRecord) (*discussion.Discussion, error) {
	if err := checkSchema("discussion", r.ID, r.SchemaVersion); err != nil {
		return nil, err
	}
	conflicts := make([]discussion.Conflict, len(r.Conflicts))
	for i, c := range r.Conflicts {
		conflicts[i] = discussion.Conflict{
			ID:           c.ID,
			Description:  c.Description,
			Participants: append([]string{}, c.Participants...),
			Round:        c.Round,
		}
	}
	return &discussion.Discussion{
		ID:           r.ID,
		Topic:        r.Topic,
		Status:       discussion.Status(r.Status),
		Messages:     fromMessageRecords(r.Messages),
		Participants: fromParticipantRecords(r.Participants),
		Rounds:       r.Rounds,
		Conflicts:    conflicts,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func toSnapshotRecord(s *versioning.Snapshot) snapshotRecord {
	return snapshotRecord{
		SchemaVersion: CurrentSchemaVersion,
		ID:            s.ID,
		DiscussionID:  s.DiscussionID,
		Version:       s.Version,
		Timestamp:     s.Timestamp,
		Description:   s.Description,
		Tags:          append([]string{}, s.Tags...),
		Type:          string(s.Type),
		Data:          toStateRecord(s.Data),
	}
}

func fromSnapshotRecord(r snapshotRecord) (*versioning.Snapshot, error) {
	if err := checkSchema("snapshot", r.ID, r.SchemaVersion); err != nil {
		return nil, err
	}
	return &versioning.Snapshot{
		ID:           r.ID,
		DiscussionID: r.DiscussionID,
		Version:      r.Version,
		Timestamp:    r.Timestamp,
		Description:  r.Description,
		Tags:         append([]string{}, r.Tags...),
		Type:         versioning.SnapshotType(r.Type),
		Data:         fromStateRecord(r.Data),
	}, nil
}

func toBranchRecord(b *versioning.Branch) branchRecord {
	return branchRecord{
		SchemaVersion:      CurrentSchemaVersion,
		ID:                 b.ID,
		SourceDiscussionID: b.SourceDiscussionID,
		Name:               b.Name,
		Description:        b.Description,
		CreatedAt:          b.CreatedAt,
		SnapshotID:         b.SnapshotID,
		Data:               toStateRecord(b.Data),
	}
}

func fromBranchRecord(r branchRecord) (*versioning.Branch, error) {
	if err := checkSchema("branch", r.ID, r.SchemaVersion); err != nil {
		return nil, err
	}
	return &versioning.Branch{
		ID:                 r.ID,
		SourceDiscussionID: r.SourceDiscussionID,
		Name:               r.Name,
		Description:        r.Description,
		CreatedAt:          r.CreatedAt,
		SnapshotID:         r.SnapshotID,
		Data:               fromStateRecord(r.Data),
	}, nil
}
