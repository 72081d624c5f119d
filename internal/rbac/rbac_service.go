package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	Permissions(role Role) ([]PermissionResponse, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(string(req.Role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(req.Role)),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", string(req.Role)),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(role Role) ([]PermissionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.enforcer.GetImplicitPermissionsForUser(string(role))
	if err != nil {
		return nil, err
	}

	perms := make([]PermissionResponse, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		perms = append(perms, PermissionResponse{Resource: rule[1], Action: rule[2]})
	}
	return perms, nil
}
