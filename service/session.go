package service

import (
	"layer-backend/errs"
	"layer-backend/models"
)

// Session identifies the caller of a service operation
type Session struct {
	UserID string
	Plan   models.Plan
}

// requirePlan fails with PLAN_REQUIRED when the session's plan is below required.
func (s Session) requirePlan(required models.Plan, feature string) error {
	if s.Plan.Allows(required) {
		return nil
	}
	return errs.New(errs.KindForbidden, "PLAN_REQUIRED", feature+" requires the "+string(required)+" plan.")
}

func (s Session) valid() error {
	if s.UserID == "" {
		return errs.New(errs.KindUnauthorized, "UNAUTHORIZED", "Not authenticated")
	}
	return nil
}
