package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	domain "github.com/roundtable/backend/internal/domain/versioning"
)

const timeLayout = "2006-01-02 15:04:05"

func renderSnapshots(w io.Writer, list []*domain.Snapshot) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return
	}
	for _, s := range list {
		fmt.Fprintf(w, "%s  %s  %s  %-11s %3d msgs  %s\n",
			color.CyanString("v%d", s.Version),
			s.ID,
			s.Timestamp.Local().Format(timeLayout),
			s.Type,
			len(s.Data.Messages),
			s.Description,
		)
	}
}

func renderBranches(w io.Writer, list []*domain.Branch) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No branches found")
		return
	}
	for _, b := range list {
		from := ""
		if b.SnapshotID != "" {
			from = " (from " + b.SnapshotID + ")"
		}
		fmt.Fprintf(w, "%s  %s  %s  %3d msgs%s\n",
			color.CyanString("%s", b.Name),
			b.ID,
			b.CreatedAt.Local().Format(timeLayout),
			len(b.Data.Messages),
			from,
		)
	}
}

// renderDiff 输出差异摘要、增删消息和修改消息的统一 diff
func renderDiff(w io.Writer, diff domain.SnapshotDiff) error {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(diff.Summary))

	for _, m := range diff.MessageChanges.Added {
		fmt.Fprintf(w, "%s %s %s\n", color.GreenString("+"), m.ID, firstLine(m.Content))
	}
	for _, m := range diff.MessageChanges.Removed {
		fmt.Fprintf(w, "%s %s %s\n", color.RedString("-"), m.ID, firstLine(m.Content))
	}
	for _, m := range diff.MessageChanges.Modified {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("~"), m.ID)
		unified, err := domain.FormatUnified(m.LineDiff)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(strings.TrimRight(unified, "\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "@@"):
				line = color.CyanString("%s", line)
			case strings.HasPrefix(line, "+"):
				line = color.GreenString("%s", line)
			case strings.HasPrefix(line, "-"):
				line = color.RedString("%s", line)
			}
			fmt.Fprintln(w, "    "+line)
		}
	}

	ctx := diff.ContextChanges
	if ctx.Topic.Changed {
		fmt.Fprintf(w, "topic:  %q -> %q\n", ctx.Topic.Old, ctx.Topic.New)
	}
	if ctx.Status.Changed {
		fmt.Fprintf(w, "status: %s -> %s\n", ctx.Status.Old, ctx.Status.New)
	}
	if ctx.Rounds.Changed {
		fmt.Fprintf(w, "rounds: %d -> %d\n", ctx.Rounds.Old, ctx.Rounds.New)
	}
	return nil
}

func renderSimilar(w io.Writer, results []appSimilarity.SimilarDiscussion) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No similar discussions found")
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s  %s  %s\n", color.GreenString("%.3f", r.Similarity), r.DiscussionID, r.Topic)
		if len(r.CommonKeywords) > 0 {
			fmt.Fprintf(w, "       keywords: %s\n", strings.Join(r.CommonKeywords, ", "))
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
