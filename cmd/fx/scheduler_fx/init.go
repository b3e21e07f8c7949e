package scheduler_fx

import (
	"context"

	"go.uber.org/fx"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
	"uplevel/pkg/scheduler"
)

var Module = fx.Options(
	fx.Provide(provideScheduler),
	fx.Invoke(registerSchedulerLifecycle),
)

func provideScheduler(
	rankService services.RankServiceInterface,
	payoutService services.PayoutServiceInterface,
	autoshipService services.AutoshipServiceInterface,
	distributorRepo repositories.IDistributorRepository,
) *scheduler.Scheduler {
	return scheduler.New(rankService, payoutService, autoshipService, distributorRepo)
}

func registerSchedulerLifecycle(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
