package usecase

import (
	"context"
	"fmt"
	"time"

	"fittrack-backend/internal/nutrition/domain"
	nutritionrepo "fittrack-backend/internal/nutrition/repository"
	owneddomain "fittrack-backend/internal/owned/domain"
	ownedrepo "fittrack-backend/internal/owned/repository"
	ownedusecase "fittrack-backend/internal/owned/usecase"
	"fittrack-backend/pkg/apperror"
	"fittrack-backend/pkg/cache"
	"fittrack-backend/pkg/dateutil"

	"go.uber.org/zap"
)

// NutritionUsecase adds daily aggregates on top of the owned-record
// operations. Aggregates are cached per owner and day and dropped whenever
// the owner's records change.
type NutritionUsecase struct {
	*ownedusecase.Service[domain.Nutrition, *domain.Nutrition]

	stats    nutritionrepo.StatsRepository
	cache    cache.Cache
	cacheTTL time.Duration
	loc      *time.Location
	log      *zap.Logger
	now      func() time.Time
}

func NewNutritionUsecase(
	repo ownedrepo.Repository[domain.Nutrition, *domain.Nutrition],
	stats nutritionrepo.StatsRepository,
	statsCache cache.Cache,
	cacheTTL time.Duration,
	loc *time.Location,
	log *zap.Logger,
	observers ...owneddomain.Observer,
) *NutritionUsecase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	if statsCache == nil {
		statsCache = cache.Nop{}
	}

	u := &NutritionUsecase{
		stats:    stats,
		cache:    statsCache,
		cacheTTL: cacheTTL,
		loc:      loc,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	u.Service = ownedusecase.NewService(repo, ownedusecase.Options[domain.Nutrition, *domain.Nutrition]{
		Kind:      domain.Kind,
		Validate:  domain.Validate,
		Location:  loc,
		Observers: append([]owneddomain.Observer{owneddomain.ObserverFunc(u.invalidateStats)}, observers...),
		Log:       log,
	})
	return u
}

// TodayStats totals the caller's records created today in the reference
// time zone.
func (u *NutritionUsecase) TodayStats(ctx context.Context, ownerID string) (*domain.DailyStats, error) {
	return u.statsFor(ctx, ownerID, u.now())
}

// DailyStats is TodayStats for an arbitrary YYYY-MM-DD date.
func (u *NutritionUsecase) DailyStats(ctx context.Context, ownerID, date string) (*domain.DailyStats, error) {
	if date == "" {
		return nil, apperror.Validation("date parameter is required")
	}
	day, err := dateutil.ParseDate(date, u.loc)
	if err != nil {
		return nil, apperror.Validation("invalid date format, expected YYYY-MM-DD")
	}
	return u.statsFor(ctx, ownerID, day)
}

func (u *NutritionUsecase) statsFor(ctx context.Context, ownerID string, day time.Time) (*domain.DailyStats, error) {
	date := day.In(u.loc).Format(dateutil.Layout)
	if ownerID == "" {
		return &domain.DailyStats{Date: date}, nil
	}

	key, cacheable := u.statsKey(ctx, ownerID, date)
	if cacheable {
		var cached domain.DailyStats
		hit, err := u.cache.Get(ctx, key, &cached)
		if err != nil {
			u.log.Warn("stats_cache_read_failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	start, end := dateutil.DayBounds(day, u.loc)
	stats, err := u.stats.SumBetween(ctx, ownerID, start, end)
	if err != nil {
		u.log.Error("nutrition_stats_failed",
			zap.String("user_id", ownerID),
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, apperror.Aggregate(err)
	}
	stats.Date = date

	if cacheable {
		if err := u.cache.Set(ctx, key, stats, u.cacheTTL); err != nil {
			u.log.Warn("stats_cache_write_failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

// invalidateStats bumps the owner's generation so that any total computed
// before this change is cached under a key no reader will look up again, then
// drops the superseded entries.
func (u *NutritionUsecase) invalidateStats(ctx context.Context, change owneddomain.Change) {
	if _, err := u.cache.Incr(ctx, generationKey(change.UserID)); err != nil {
		u.log.Warn("stats_generation_bump_failed", zap.String("user_id", change.UserID), zap.Error(err))
	}
	pattern := fmt.Sprintf("stats:nutrition:%s:*", change.UserID)
	if err := u.cache.DeletePattern(ctx, pattern); err != nil {
		u.log.Warn("stats_cache_invalidate_failed", zap.String("user_id", change.UserID), zap.Error(err))
	}
}

// statsKey folds the owner's current generation into the cache key. It
// reports false when the generation cannot be read, in which case the cache
// is bypassed.
func (u *NutritionUsecase) statsKey(ctx context.Context, ownerID, date string) (string, bool) {
	gen, err := u.cache.Counter(ctx, generationKey(ownerID))
	if err != nil {
		u.log.Warn("stats_generation_read_failed", zap.String("user_id", ownerID), zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("stats:nutrition:%s:g%d:%s", ownerID, gen, date), true
}

func generationKey(ownerID string) string {
	return "stats:nutrition-gen:" + ownerID
}
