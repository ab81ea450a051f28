package similarity

// ModelRepository 相似度模型持久化接口
type ModelRepository interface {
	// SaveModel 整体替换已保存的模型
	SaveModel(m Model) error
	// SaveVector 保存单个讨论的向量（增量更新后调用）
	SaveVector(id string, v Vector) error
	// DeleteVector 删除单个讨论的向量
	DeleteVector(id string) error
	// LoadModel 加载模型，从未训练过时返回 nil, nil
	LoadModel() (*Model, error)
}
