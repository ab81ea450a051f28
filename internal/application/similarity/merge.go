package similarity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	domain "github.com/roundtable/backend/internal/domain/similarity"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// MergeResult 讨论合并结果
type MergeResult struct {
	TargetID             string   `json:"targetId"`
	MergedMessagesCount  int      `json:"mergedMessagesCount"`
	MergedConflictsCount int      `json:"mergedConflictsCount"`
	SkippedSourceIDs     []string `json:"skippedSourceIds"`
}

// MergeDiscussions 把源讨论合并进目标讨论
// 源讨论的消息以新 ID 追加并带上来源标记，冲突列表拼接，主题不包含源主题时追加。
// 合并后删除源讨论及其向量。源讨论不存在（或等于目标）时记录日志并跳过。
func (s *Service) MergeDiscussions(ctx context.Context, targetID string, sourceIDs []string) (*MergeResult, error) {
	if len(sourceIDs) == 0 {
		return nil, domain.ErrEmptySourceIDs
	}
	logger := log.FromContext(ctx, s.logger)

	unlock := s.locks.LockMany(append([]string{targetID}, sourceIDs...)...)
	defer unlock()

	target, err := s.discussions.Get(targetID)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{TargetID: targetID, SkippedSourceIDs: []string{}}
	merged := make([]string, 0, len(sourceIDs))
	seen := make(map[string]struct{}, len(sourceIDs))

	for _, sourceID := range sourceIDs {
		if _, dup := seen[sourceID]; dup {
			continue
		}
		seen[sourceID] = struct{}{}

		if sourceID == targetID {
			logger.Warn("Skipping merge source equal to target", "discussion_id", targetID)
			result.SkippedSourceIDs = append(result.SkippedSourceIDs, sourceID)
			continue
		}
		source, err := s.discussions.Get(sourceID)
		if discussion.IsNotFound(err) {
			logger.Warn("Merge source not found, skipping",
				"target_id", targetID,
				"source_id", sourceID,
			)
			result.SkippedSourceIDs = append(result.SkippedSourceIDs, sourceID)
			continue
		}
		if err != nil {
			return nil, err
		}

		result.MergedMessagesCount += appendMigrated(target, source)
		for _, c := range source.Clone().Conflicts {
			target.Conflicts = append(target.Conflicts, c)
			result.MergedConflictsCount++
		}
		if !strings.Contains(target.Topic, source.Topic) {
			target.Topic = target.Topic + " / " + source.Topic
		}
		mergeParticipants(target, source.Participants)
		merged = append(merged, sourceID)
	}

	if len(merged) == 0 {
		logger.Info("No discussions merged", "target_id", targetID, "skipped", result.SkippedSourceIDs)
		return result, nil
	}

	// 先保存目标再删除源，中途失败最多留下重复内容而不会丢失消息
	target.UpdatedAt = time.Now().UTC()
	if err := s.discussions.Save(target); err != nil {
		return nil, fmt.Errorf("failed to save merged discussion: %w", err)
	}
	for _, sourceID := range merged {
		if err := s.discussions.Delete(sourceID); err != nil {
			return nil, fmt.Errorf("failed to delete merged source %s: %w", sourceID, err)
		}
		if err := s.removeVector(sourceID); err != nil {
			logger.Warn("Failed to remove merged source vector", "source_id", sourceID, "error", err)
		}
	}
	if err := s.UpdateDiscussion(ctx, targetID); err != nil {
		logger.Warn("Failed to refresh merged discussion vector", "target_id", targetID, "error", err)
	}

	s.metrics.DiscussionsMerged(result.MergedMessagesCount)
	logger.Info("Discussions merged",
		"target_id", targetID,
		"sources", merged,
		"messages", result.MergedMessagesCount,
		"conflicts", result.MergedConflictsCount,
		"skipped", len(result.SkippedSourceIDs),
	)

	ev := events.NewDiscussionEvent(events.DiscussionsMerged, targetID)
	ev.RelatedIDs = merged
	s.bus.Publish(ev)
	for _, sourceID := range merged {
		s.bus.Publish(events.NewDiscussionEvent(events.DiscussionDeleted, sourceID))
	}
	s.bus.Publish(events.NewDiscussionEvent(events.DiscussionUpdated, targetID))

	return result, nil
}

// appendMigrated 以新 ID 追加源讨论的消息，源讨论内部的回复关系映射到新 ID
func appendMigrated(target, source *discussion.Discussion) int {
	newIDs := make(map[string]string, len(source.Messages))
	for _, m := range source.Messages {
		newIDs[m.ID] = ulid.Make().String()
	}
	for _, m := range source.Messages {
		migrated := m.Clone()
		migrated.ID = newIDs[m.ID]
		migrated.Provenance = &discussion.Provenance{
			MergedFrom:        source.ID,
			OriginalMessageID: m.ID,
		}
		if m.ReplyTo != nil {
			if mapped, ok := newIDs[*m.ReplyTo]; ok {
				migrated.ReplyTo = &mapped
			}
		}
		target.Messages = append(target.Messages, migrated)
	}
	return len(source.Messages)
}

// mergeParticipants 按 ID 并入目标讨论中没有的参与者
func mergeParticipants(target *discussion.Discussion, participants []discussion.Participant) {
	known := make(map[string]struct{}, len(target.Participants))
	for _, p := range target.Participants {
		known[p.ID] = struct{}{}
	}
	for _, p := range participants {
		if _, ok := known[p.ID]; ok {
			continue
		}
		known[p.ID] = struct{}{}
		target.Participants = append(target.Participants, p)
	}
}
