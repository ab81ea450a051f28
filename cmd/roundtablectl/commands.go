package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	domain "github.com/roundtable/backend/internal/domain/versioning"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
	"github.com/roundtable/backend/internal/infrastructure/storage"
	"github.com/roundtable/backend/internal/infrastructure/watcher"
	"github.com/spf13/cobra"
)

// options 全局参数
type options struct {
	dataDir string
	jsonOut bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "roundtablectl",
		Short:         "Inspect discussion snapshots, branches and the similarity index",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default $ROUNDTABLE_DATA_DIR or ~/.roundtable)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newSnapshotsCmd(opts),
		newDiffCmd(opts),
		newBranchesCmd(opts),
		newSimilarCmd(opts),
		newTrainCmd(opts),
	)
	return root
}

// storageConfig 解析数据目录
func (o *options) storageConfig() (*config.Config, error) {
	root := o.dataDir
	if root == "" {
		root = config.GetDataDir()
	}
	cfg, err := config.Load(filepath.Join(root, config.ConfigFileName))
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = root
	return cfg, nil
}

func (o *options) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSnapshotsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots <discussion-id>",
		Short: "List snapshots of a discussion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.storageConfig()
			if err != nil {
				return err
			}
			repo, err := storage.OpenSnapshotRepository(cfg.Storage.SnapshotsDir())
			if err != nil {
				return err
			}
			list, err := repo.ListByDiscussion(args[0])
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return opts.printJSON(cmd.OutOrStdout(), list)
			}
			renderSnapshots(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newDiffCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from-snapshot-id> <to-snapshot-id>",
		Short: "Compare two snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.storageConfig()
			if err != nil {
				return err
			}
			repo, err := storage.OpenSnapshotRepository(cfg.Storage.SnapshotsDir())
			if err != nil {
				return err
			}
			from, err := loadSnapshot(repo, args[0])
			if err != nil {
				return err
			}
			to, err := loadSnapshot(repo, args[1])
			if err != nil {
				return err
			}

			diff := domain.CompareSnapshots(from, to)
			if opts.jsonOut {
				return opts.printJSON(cmd.OutOrStdout(), diff)
			}
			return renderDiff(cmd.OutOrStdout(), diff)
		},
	}
}

func loadSnapshot(repo *storage.SnapshotRepository, id string) (*domain.Snapshot, error) {
	snap, err := repo.Get(id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, id)
	}
	return snap, nil
}

func newBranchesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "branches <discussion-id>",
		Short: "List branches created from a discussion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.storageConfig()
			if err != nil {
				return err
			}
			repo, err := storage.OpenBranchRepository(cfg.Storage.BranchesDir())
			if err != nil {
				return err
			}
			list, err := repo.Scan(args[0])
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return opts.printJSON(cmd.OutOrStdout(), list)
			}
			renderBranches(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

// openSimilarity 打开离线使用的相似度服务，返回关闭函数
func openSimilarity(cfg *config.Config) (*appSimilarity.Service, func(), error) {
	discussions, err := storage.OpenDiscussionRepository(cfg.Storage.DiscussionsDir())
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.OpenDB(cfg.Storage.DBPath())
	if err != nil {
		return nil, nil, err
	}
	models, err := storage.NewSimilarityRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	bus := watcher.NewEventBus()
	svc := appSimilarity.NewService(discussions, models, lock.NewKeyedMutex(), bus, metrics.NewCollector(), &cfg.Similarity)
	return svc, func() {
		svc.Stop()
		bus.Close()
		db.Close()
	}, nil
}

func newSimilarCmd(opts *options) *cobra.Command {
	var (
		threshold float64
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "similar <discussion-id>",
		Short: "Find discussions similar to the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("--threshold must be between 0 and 1")
			}
			cfg, err := opts.storageConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := openSimilarity(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := context.Background()
			if err := svc.Start(ctx); err != nil {
				return err
			}
			findOpts := appSimilarity.FindSimilarOptions{Limit: limit}
			if cmd.Flags().Changed("threshold") {
				findOpts.Threshold = &threshold
			}
			results, err := svc.FindSimilar(ctx, args[0], findOpts)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return opts.printJSON(cmd.OutOrStdout(), results)
			}
			renderSimilar(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum similarity (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (default from config)")
	return cmd
}

func newTrainCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Retrain the similarity index over all discussions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.storageConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := openSimilarity(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := svc.Train(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return opts.printJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d documents, %d terms\n",
				color.GreenString("trained"), stats.DocumentCount, stats.VocabularySize)
			return nil
		},
	}
}
