package params

// Page 分页参数，Limit 为0时返回全部
type Page struct {
	Offset int `query:"offset" vd:"$>=0"`
	Limit  int `query:"limit" vd:"$>=0 && $<=1000"`
}

// IDRequest 路径中的资源ID
type IDRequest struct {
	ID uint64 `path:"id" vd:"$>0"`
}
