package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	appVersioning "github.com/roundtable/backend/internal/application/versioning"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// MCPServer MCP 服务器
type MCPServer struct {
	server     *mcp.Server
	handler    http.Handler
	snapshots  *appVersioning.SnapshotService
	similarity *appSimilarity.Service
	logger     *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(
	snapshots *appVersioning.SnapshotService,
	similarity *appSimilarity.Service,
) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "roundtable-backend",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	s := &MCPServer{
		server:     server,
		snapshots:  snapshots,
		similarity: similarity,
		logger:     log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "create_snapshot",
		Description: `Create an immutable snapshot of a discussion's current messages and context.
Parameters:
- discussion_id (string, required): Discussion ID
- description (string, optional): What this checkpoint captures
- tags (array of strings, optional): Free-form tags

Returns: snapshot ID, version number (strictly increasing per discussion) and message count.`,
	}, s.createSnapshotTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_snapshots",
		Description: "List all snapshots of a discussion in version order. Parameters: discussion_id (string, required). Returns: snapshot id, version, timestamp, type, description and message count for each snapshot.",
	}, s.listSnapshotsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "compare_snapshots",
		Description: `Compare two snapshots of the same discussion.
Messages are matched by ID regardless of position.
Parameters:
- discussion_id (string, required): Discussion ID
- from (string, required): Older snapshot ID
- to (string, required): Newer snapshot ID

Returns: summary, added/removed message IDs, a unified diff for each modified message, and the changed context fields (topic/status/rounds).`,
	}, s.compareSnapshotsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "find_similar_discussions",
		Description: `Find discussions similar to the given one using TF-IDF cosine similarity.
Parameters:
- discussion_id (string, required): Query discussion ID
- threshold (number, optional): Minimum similarity between 0 and 1, defaults to the server setting (0.3)
- limit (int, optional): Maximum number of results, defaults to the server setting (5)

Returns: similar discussions sorted by similarity with their topic and shared keywords. Highly similar discussions are candidates for merging.`,
	}, s.findSimilarTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
	return s
}

// GetHandler 获取 HTTP Handler（挂载到 HTTP 服务器的 /mcp/sse）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
