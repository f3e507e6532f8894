package service

import (
	"context"
	"fmt"
	"time"

	"go-lab-case-tracker/internal/domain/entity"
	"go-lab-case-tracker/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// Redis key prefix for cached role permission sets
	RedisRolePermsKeyPrefix = "role:perms:"

	// Roles change through admin action only, so a long TTL is fine; the
	// startup sync and explicit invalidation keep the cache honest.
	roleCacheTTL = 24 * time.Hour

	// Timeout for individual Redis operations
	redisOpTimeout = 5 * time.Second
)

// RoleCacheService mirrors each role's permission codes into a Redis set so
// per-request permission checks stay off the database. Redis being down is
// never fatal; lookups fall through to PostgreSQL.
type RoleCacheService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	roleRepo    repository.RoleRepository
}

func NewRoleCacheService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, roleRepo repository.RoleRepository) *RoleCacheService {
	return &RoleCacheService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		roleRepo:    roleRepo,
	}
}

// SyncOnStartup rewrites the cached permission set of every role from the
// database. Should run before accepting traffic so the first requests do not
// stampede PostgreSQL.
func (s *RoleCacheService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting role permission cache sync...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping role cache sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	roles, err := s.roleRepo.FindAll(s.db.WithContext(ctx))
	if err != nil {
		s.log.Errorf("Failed to load roles for cache sync: %+v", err)
		return fmt.Errorf("load roles: %w", err)
	}

	pipe := s.redisClient.TxPipeline()
	for _, role := range roles {
		key := RedisRolePermsKeyPrefix + role.Name
		pipe.Del(ctx, key)
		if codes := permissionCodes(role.Permissions); len(codes) > 0 {
			pipe.SAdd(ctx, key, codes...)
			pipe.Expire(ctx, key, roleCacheTTL)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Errorf("Failed to execute role cache pipeline: %+v", err)
		return fmt.Errorf("role cache pipeline: %w", err)
	}

	s.log.Infof("Role permission cache sync completed: roles=%d, duration=%s", len(roles), time.Since(startTime))
	return nil
}

// HasPermission answers a (role name, permission code) membership question
// from the cache, falling back to the database on a miss or Redis error. The
// superuser bypass is applied before the cache is consulted, matching the
// evaluator.
func (s *RoleCacheService) HasPermission(ctx context.Context, roleName, code string) (bool, error) {
	role := entity.Role{Name: roleName}
	if role.IsSuperuser() {
		return true, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := RedisRolePermsKeyPrefix + roleName
	ok, err := s.redisClient.SIsMember(opCtx, key, code).Result()
	if err == nil {
		if ok {
			return true, nil
		}
		// A negative answer is only trustworthy when the set exists
		exists, existsErr := s.redisClient.Exists(opCtx, key).Result()
		if existsErr == nil && exists > 0 {
			return false, nil
		}
	} else {
		s.log.Warnf("Redis permission lookup failed for role %s, falling back to database: %+v", roleName, err)
	}

	return s.lookupFromDB(ctx, roleName, code)
}

// Invalidate drops a role's cached set after the role's grants change.
func (s *RoleCacheService) Invalidate(ctx context.Context, roleName string) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.redisClient.Del(opCtx, RedisRolePermsKeyPrefix+roleName).Err(); err != nil {
		s.log.Warnf("Failed to invalidate cached permissions for role %s: %+v", roleName, err)
	}
}

func (s *RoleCacheService) lookupFromDB(ctx context.Context, roleName, code string) (bool, error) {
	role, err := s.roleRepo.FindByName(ctx, s.db, roleName)
	if err != nil {
		return false, err
	}
	if role == nil {
		return false, nil
	}

	// Best-effort backfill so the next lookup hits the cache
	if codes := permissionCodes(role.Permissions); len(codes) > 0 {
		opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		key := RedisRolePermsKeyPrefix + role.Name
		if err := s.redisClient.SAdd(opCtx, key, codes...).Err(); err == nil {
			s.redisClient.Expire(opCtx, key, roleCacheTTL)
		}
	}

	return role.HasPermission(code), nil
}

func permissionCodes(permissions []entity.Permission) []interface{} {
	codes := make([]interface{}, 0, len(permissions))
	for _, permission := range permissions {
		codes = append(codes, permission.Code)
	}
	return codes
}
