package usecase

import (
	"context"

	repo "ekathu/internal/repository"

	"golang.org/x/sync/errgroup"
)

type StatsOutput struct {
	ProductCount int64 `json:"productCount"`
	OrderCount   int64 `json:"orderCount"`
	TotalSales   int64 `json:"totalSales"`
	UserCount    int64 `json:"userCount"`
}

type StatsUsecase struct {
	products repo.ProductRepository
	orders   repo.OrderRepository
	users    repo.UserRepository
}

func NewStatsUsecase(products repo.ProductRepository, orders repo.OrderRepository, users repo.UserRepository) *StatsUsecase {
	return &StatsUsecase{products: products, orders: orders, users: users}
}

// 4つの集計は並行に取る
func (u *StatsUsecase) Get(ctx context.Context) (StatsOutput, error) {
	var out StatsOutput
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := u.products.Count(gctx)
		out.ProductCount = n
		return err
	})
	g.Go(func() error {
		n, err := u.orders.Count(gctx)
		out.OrderCount = n
		return err
	})
	g.Go(func() error {
		n, err := u.orders.SumTotal(gctx)
		out.TotalSales = n
		return err
	})
	g.Go(func() error {
		n, err := u.users.Count(gctx)
		out.UserCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		return StatsOutput{}, internalError(ctx, err, "stats")
	}
	return out, nil
}
