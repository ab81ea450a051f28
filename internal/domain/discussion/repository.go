package discussion

// Repository 讨论仓储接口
// 实现必须返回深拷贝，并以整体替换的方式保存，读者只能看到完整的前态或后态
type Repository interface {
	// Get 获取讨论，不存在时返回 ErrDiscussionNotFound
	Get(id string) (*Discussion, error)
	// List 获取全部讨论
	List() ([]*Discussion, error)
	// Save 保存讨论（新增或整体替换）
	Save(d *Discussion) error
	// Delete 删除讨论，不存在时不报错
	Delete(id string) error
}

// Reloader 从持久化存储重新读取单个讨论
type Reloader interface {
	// Reload 返回最新值以及与内存中的值相比是否发生变化，讨论已被删除时返回 nil
	Reload(id string) (d *Discussion, changed bool, err error)
}
