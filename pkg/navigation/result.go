package navigation

// Result 读路径的结果，由调用方决定降级还是上抛
type Result[T any] struct {
	Value T
	Err   error
}

func success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failure[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Or 失败时返回 def
func (r Result[T]) Or(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}
