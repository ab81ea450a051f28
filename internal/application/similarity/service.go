// Package similarity 维护讨论相似度索引，并基于索引合并重复讨论
package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/events"
	domain "github.com/roundtable/backend/internal/domain/similarity"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
)

// FindSimilarOptions 相似检索参数，零值使用配置默认值
type FindSimilarOptions struct {
	Threshold *float64
	Limit     int
}

// SimilarDiscussion 相似检索结果
type SimilarDiscussion struct {
	DiscussionID   string   `json:"discussionId"`
	Topic          string   `json:"topic"`
	Similarity     float64  `json:"similarity"`
	CommonKeywords []string `json:"commonKeywords"`
}

// Service 相似度服务
type Service struct {
	discussions discussion.Repository
	models      domain.ModelRepository
	index       *domain.Index
	locks       *lock.KeyedMutex
	bus         events.EventBus
	metrics     *metrics.Collector
	cfg         *config.SimilarityConfig
	logger      *slog.Logger

	// indexMu 串行化全量训练与单个向量的增量更新
	// 训练期间到达的更新会等训练落盘后再基于最新内容重算
	indexMu     sync.Mutex
	unsubscribe func()
}

// NewService 创建相似度服务
func NewService(
	discussions discussion.Repository,
	models domain.ModelRepository,
	locks *lock.KeyedMutex,
	bus events.EventBus,
	collector *metrics.Collector,
	cfg *config.SimilarityConfig,
) *Service {
	if cfg == nil {
		cfg = &config.Default().Similarity
	}
	return &Service{
		discussions: discussions,
		models:      models,
		index:       domain.NewIndex(),
		locks:       locks,
		bus:         bus,
		metrics:     collector,
		cfg:         cfg,
		logger:      log.NewModuleLogger("similarity", "service"),
	}
}

// Start 加载持久化的模型（没有则全量训练）并订阅讨论变更事件
func (s *Service) Start(ctx context.Context) error {
	model, err := s.models.LoadModel()
	if err != nil {
		s.logger.Warn("Failed to load similarity model, retraining", "error", err)
	}
	if model != nil && model.DocumentCount > 0 {
		s.index.Load(*model)
		stats := s.index.Stats()
		s.logger.Info("Similarity model loaded",
			"documents", stats.DocumentCount,
			"vocabulary", stats.VocabularySize,
			"vectors", stats.VectorCount,
			"trained_at", stats.TrainedAt,
		)
	} else if _, err := s.Train(ctx); err != nil {
		return err
	}

	s.unsubscribe = s.bus.SubscribeMultiple([]events.EventType{
		events.DiscussionUpdated,
		events.DiscussionDeleted,
	}, s)
	return nil
}

// Stop 取消事件订阅
func (s *Service) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// HandleEvent 讨论更新时增量更新向量，删除时移除向量
func (s *Service) HandleEvent(event events.Event) error {
	scoped, ok := event.(events.DiscussionScoped)
	if !ok {
		return nil
	}
	id := scoped.Discussion()
	switch event.Type() {
	case events.DiscussionUpdated:
		return s.UpdateDiscussion(context.Background(), id)
	case events.DiscussionDeleted:
		return s.removeVector(id)
	}
	return nil
}

// Train 对全部讨论全量训练并持久化模型
func (s *Service) Train(ctx context.Context) (domain.Stats, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	list, err := s.discussions.List()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to list discussions: %w", err)
	}
	corpus := make(map[string]string, len(list))
	for _, d := range list {
		corpus[d.ID] = d.Text()
	}

	start := time.Now()
	s.index.Train(corpus)
	elapsed := time.Since(start)

	if err := s.models.SaveModel(s.index.Export()); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to save similarity model: %w", err)
	}

	stats := s.index.Stats()
	s.metrics.Trained(elapsed, stats.DocumentCount, stats.VocabularySize)
	log.FromContext(ctx, s.logger).Info("Similarity index trained",
		"documents", stats.DocumentCount,
		"vocabulary", stats.VocabularySize,
		"duration", elapsed,
	)
	return stats, nil
}

// UpdateDiscussion 使用最近一次训练的 IDF 重算单个讨论的向量
// 讨论已不存在时移除其向量
func (s *Service) UpdateDiscussion(ctx context.Context, id string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	d, err := s.discussions.Get(id)
	if discussion.IsNotFound(err) {
		return s.dropVector(id)
	}
	if err != nil {
		return err
	}

	s.index.UpdateDiscussion(id, d.Text())
	vec := s.index.Vector(id)
	if len(vec) == 0 {
		err = s.models.DeleteVector(id)
	} else {
		err = s.models.SaveVector(id, vec)
	}
	if err != nil {
		return fmt.Errorf("failed to persist vector: %w", err)
	}

	log.FromContext(ctx, s.logger).Debug("Similarity vector updated",
		"discussion_id", id,
		"terms", len(vec),
	)
	return nil
}

func (s *Service) removeVector(id string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	return s.dropVector(id)
}

// dropVector 调用方需持有 indexMu
func (s *Service) dropVector(id string) error {
	s.index.RemoveDiscussion(id)
	if err := s.models.DeleteVector(id); err != nil {
		return fmt.Errorf("failed to delete vector: %w", err)
	}
	return nil
}

// FindSimilar 查找与 id 相似的讨论，结果不包含 id 本身
func (s *Service) FindSimilar(ctx context.Context, id string, opts FindSimilarOptions) ([]SimilarDiscussion, error) {
	if _, err := s.discussions.Get(id); err != nil {
		return nil, err
	}

	threshold := s.cfg.DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	list, err := s.discussions.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list discussions: %w", err)
	}
	topics := make(map[string]string, len(list))
	candidates := make([]string, 0, len(list))
	for _, d := range list {
		topics[d.ID] = d.Topic
		candidates = append(candidates, d.ID)
	}

	matches := s.index.FindSimilar(id, candidates, threshold, limit, s.cfg.KeywordCount)
	results := make([]SimilarDiscussion, 0, len(matches))
	for _, m := range matches {
		results = append(results, SimilarDiscussion{
			DiscussionID:   m.ID,
			Topic:          topics[m.ID],
			Similarity:     m.Similarity,
			CommonKeywords: m.CommonKeywords,
		})
	}

	s.metrics.SimilarityQueried()
	log.FromContext(ctx, s.logger).Debug("Similar discussions found",
		"discussion_id", id,
		"threshold", threshold,
		"limit", limit,
		"results", len(results),
	)
	return results, nil
}

// Keywords 返回讨论权重最高的 n 个词
func (s *Service) Keywords(id string, n int) ([]string, error) {
	if _, err := s.discussions.Get(id); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.cfg.KeywordCount
	}
	return s.index.TopTerms(id, n), nil
}

// CalculateSimilarity 计算两个讨论的相似度
func (s *Service) CalculateSimilarity(id1, id2 string) float64 {
	return s.index.CalculateSimilarity(id1, id2)
}

// Stats 索引统计
func (s *Service) Stats() domain.Stats {
	return s.index.Stats()
}
