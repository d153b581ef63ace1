package repository

import "context"

// ストア実装（postgres / mongo / memory）の入口。
// 起動時に開いて、終了時に Close する。
type Store interface {
	TxRepos
	TransactionManager

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
