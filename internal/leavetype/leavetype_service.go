package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	leavetypeerrors "go-leave/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	CatalogCacheKey = "leave_types:catalog"
	catalogCacheTTL = time.Hour
)

type Service interface {
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByKind(ctx context.Context, kind string) (LeaveTypeResponse, error)
	Seed(ctx context.Context) (int, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, CatalogCacheKey).Result()
		if err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("leave type cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(CatalogCacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, CatalogCacheKey, jsonData, catalogCacheTTL).Err(); err != nil {
					s.logger.Warn("leave type cache write failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get all leave types failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByKind(ctx context.Context, kind string) (LeaveTypeResponse, error) {
	k, ok := ParseKind(kind)
	if !ok {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidKind
	}

	t, err := s.repo.FindByKind(ctx, k)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

// Seed inserts the catalog entries that are missing and reports how many
// were created. A concurrent seeder winning the unique index is not an error.
func (s *service) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, entry := range DefaultCatalog() {
		_, err := s.repo.FindByKind(ctx, entry.Kind)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("seed leave type lookup failed", zap.String("kind", string(entry.Kind)), zap.Error(err))
			return created, err
		}

		t := entry
		t.ID = uuid.New()
		if err := s.repo.Create(ctx, &t); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			s.logger.Error("seed leave type persist failed", zap.String("kind", string(entry.Kind)), zap.Error(err))
			return created, err
		}
		created++
	}

	if created > 0 && s.rdb != nil {
		if err := s.rdb.Del(ctx, CatalogCacheKey).Err(); err != nil {
			s.logger.Warn("failed to invalidate leave type cache", zap.Error(err))
		}
	}

	s.logger.Info("leave type catalog seeded", zap.Int("created", created))
	return created, nil
}
