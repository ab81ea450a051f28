// roundtablectl 离线查看与维护数据目录中的讨论快照、分支和相似度索引
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
