package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"khao-backend/apperr"
	"khao-backend/models"
	"khao-backend/repository"
	"khao-backend/statemachine"
)

// updatableRestaurantFields whitelists what an owner may patch. country is
// deliberately absent: it is immutable after registration and silently
// dropped rather than rejected.
var updatableRestaurantFields = map[string]bool{
	"name": true, "description": true, "owner_name": true, "owner_contact": true,
	"address": true, "city": true, "state": true,
	"latitude": true, "longitude": true,
	"logo_url": true, "cover_image_url": true, "cuisine_types": true,
	"is_vegetarian_only": true, "accepts_orders": true,
	"avg_prep_time_minutes": true, "minimum_order_amount": true,
	"offers_delivery": true, "offers_pickup": true,
}

// RestaurantService owns the restaurant lifecycle: registration, the
// admin approval state machine and the owner-driven working status.
type RestaurantService struct {
	restaurants *repository.RestaurantRepository
	log         *logrus.Logger
	now         func() time.Time
}

func NewRestaurantService(restaurants *repository.RestaurantRepository, log *logrus.Logger) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, log: log, now: time.Now}
}

// Register creates the owner's single restaurant in pending_approval and
// promotes the owning account to the restaurant role.
func (s *RestaurantService) Register(ctx context.Context, ownerID string, rest *models.Restaurant) (*models.Restaurant, error) {
	count, err := s.restaurants.CountByOwner(ownerID)
	if err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Error("checking existing restaurant")
		return nil, apperr.Wrap(apperr.Internal, "Failed to register restaurant", err)
	}
	if count > 0 {
		return nil, apperr.New(apperr.Conflict, "Restaurant already registered for this user")
	}

	rest.UserID = ownerID
	rest.Status = models.StatusPendingApproval
	rest.WorkingStatus = models.WorkingOffline

	if err := s.restaurants.CreateWithOwnerRole(rest); err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Error("registering restaurant")
		return nil, apperr.Wrap(apperr.Internal, "Failed to register restaurant", err)
	}
	return rest, nil
}

func (s *RestaurantService) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	rest, err := s.restaurants.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Restaurant not found")
	} else if err != nil {
		s.log.WithError(err).WithField("restaurant_id", id).Error("fetching restaurant")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch restaurant", err)
	}
	return rest, nil
}

func (s *RestaurantService) GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	rest, err := s.restaurants.FindByOwner(ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Restaurant not found")
	} else if err != nil {
		s.log.WithError(err).WithField("owner_id", ownerID).Error("fetching owner restaurant")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch restaurant", err)
	}
	return rest, nil
}

// Update patches owner-editable fields. NotFound is reserved for ids that
// do not exist; an existing restaurant owned by someone else is Forbidden.
func (s *RestaurantService) Update(ctx context.Context, ownerID, id string, patch map[string]interface{}) (*models.Restaurant, error) {
	rest, err := s.requireOwner(id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for k, v := range patch {
		if updatableRestaurantFields[k] {
			updates[k] = v
		}
	}
	if len(updates) > 0 {
		if err := s.restaurants.Updates(rest.ID, updates); err != nil {
			s.log.WithError(err).WithField("restaurant_id", id).Error("updating restaurant")
			return nil, apperr.Wrap(apperr.Internal, "Failed to update restaurant", err)
		}
	}
	return s.GetByID(ctx, id)
}

// SetWorkingStatus writes the operational sub-state. Transitioning to
// online stamps the activity timestamp. The write is conditional on the
// restaurant still being approved, so a concurrent suspension wins.
func (s *RestaurantService) SetWorkingStatus(ctx context.Context, ownerID, id string, ws models.WorkingStatus) (*models.Restaurant, error) {
	if !statemachine.IsValidWorkingStatus(ws) {
		return nil, apperr.New(apperr.InvalidInput, "Working status must be online, busy or offline")
	}

	rest, err := s.requireOwner(id, ownerID)
	if err != nil {
		return nil, err
	}
	if !statemachine.CanSetWorkingStatus(rest.Status) {
		return nil, apperr.New(apperr.InvalidInput, "Working status can only be changed for approved restaurants")
	}

	extra := map[string]interface{}{}
	if ws == models.WorkingOnline {
		extra["last_order_at"] = s.now()
	}
	ok, err := s.restaurants.SetWorkingStatus(id, ws, extra)
	if err != nil {
		s.log.WithError(err).WithField("restaurant_id", id).Error("setting working status")
		return nil, apperr.Wrap(apperr.Internal, "Failed to update working status", err)
	}
	if !ok {
		return nil, apperr.New(apperr.InvalidInput, "Working status can only be changed for approved restaurants")
	}
	return s.GetByID(ctx, id)
}

// Approve moves a pending restaurant to approved and clears any prior
// rejection metadata. The admin role is enforced at the boundary.
func (s *RestaurantService) Approve(ctx context.Context, id, adminID string) (*models.Restaurant, error) {
	return s.transition(ctx, id, models.StatusApproved, map[string]interface{}{
		"approved_by":      adminID,
		"approved_at":      s.now(),
		"rejection_reason": "",
		"rejected_at":      nil,
	})
}

// Reject stamps the reason and timestamp; working_status is left untouched.
func (s *RestaurantService) Reject(ctx context.Context, id, adminID, reason string) (*models.Restaurant, error) {
	return s.transition(ctx, id, models.StatusRejected, map[string]interface{}{
		"rejection_reason": reason,
		"rejected_at":      s.now(),
	})
}

// Suspend forces the restaurant offline together with the status write; a
// suspended restaurant cannot remain operationally online.
func (s *RestaurantService) Suspend(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.transition(ctx, id, models.StatusSuspended, map[string]interface{}{
		"working_status": models.WorkingOffline,
	})
}

// Reactivate returns the restaurant to approved without restoring its
// working status; the owner must re-open manually.
func (s *RestaurantService) Reactivate(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.transition(ctx, id, models.StatusApproved, nil)
}

func (s *RestaurantService) List(ctx context.Context, country string, ws models.WorkingStatus, skip, take int) ([]models.Restaurant, int64, error) {
	if take <= 0 {
		take = 50
	}
	rests, total, err := s.restaurants.List(country, ws, skip, take)
	if err != nil {
		s.log.WithError(err).Error("listing restaurants")
		return nil, 0, apperr.Wrap(apperr.Internal, "Failed to fetch restaurants", err)
	}
	return rests, total, nil
}

func (s *RestaurantService) ListPending(ctx context.Context, skip, take int) ([]models.Restaurant, int64, error) {
	if take <= 0 {
		take = 50
	}
	rests, total, err := s.restaurants.ListPending(skip, take)
	if err != nil {
		s.log.WithError(err).Error("listing pending restaurants")
		return nil, 0, apperr.Wrap(apperr.Internal, "Failed to fetch pending restaurants", err)
	}
	return rests, total, nil
}

// transition validates the lifecycle change against the state machine and
// applies it as a compare-and-set on the status observed at decision time.
func (s *RestaurantService) transition(ctx context.Context, id string, to models.RestaurantStatus, extra map[string]interface{}) (*models.Restaurant, error) {
	rest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := statemachine.CanTransition(rest.Status, to, "admin"); err != nil {
		return nil, apperr.New(apperr.Conflict, err.Error())
	}

	ok, err := s.restaurants.TransitionStatus(id, rest.Status, to, extra)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"restaurant_id": id,
			"to":            to,
		}).Error("applying lifecycle transition")
		return nil, apperr.Wrap(apperr.Internal, "Failed to update restaurant status", err)
	}
	if !ok {
		return nil, apperr.New(apperr.Conflict, "Restaurant status changed concurrently, retry")
	}
	return s.GetByID(ctx, id)
}

func (s *RestaurantService) requireOwner(id, ownerID string) (*models.Restaurant, error) {
	rest, err := s.restaurants.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Restaurant not found")
	} else if err != nil {
		s.log.WithError(err).WithField("restaurant_id", id).Error("resolving restaurant for ownership check")
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch restaurant", err)
	}
	if rest.UserID != ownerID {
		return nil, apperr.New(apperr.Forbidden, "You can only manage your own restaurant")
	}
	return rest, nil
}
