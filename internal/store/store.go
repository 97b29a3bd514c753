// Package store provides the gorm-backed implementations of the subscription
// service's storage interfaces.
package store

import (
	"errors"

	"gorm.io/gorm"

	"rolegate_backend/internal/model"
)

type PlanStore struct {
	db *gorm.DB
}

func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

func (s *PlanStore) All() ([]model.Plan, error) {
	var plans []model.Plan
	if err := s.db.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *PlanStore) FindByProductID(productID string) (*model.Plan, error) {
	return s.findOne("plan_id = ?", productID)
}

func (s *PlanStore) FindByPriceID(priceID string) (*model.Plan, error) {
	return s.findOne("plan_price_id = ?", priceID)
}

func (s *PlanStore) FindByName(name string) (*model.Plan, error) {
	return s.findOne("name = ?", name)
}

func (s *PlanStore) Create(plan *model.Plan) error {
	return s.db.Create(plan).Error
}

func (s *PlanStore) Update(plan *model.Plan) error {
	return s.db.Save(plan).Error
}

func (s *PlanStore) findOne(query string, arg interface{}) (*model.Plan, error) {
	var plan model.Plan
	err := s.db.Where(query, arg).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) FindByRemoteID(remoteID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.db.Where("subscription_id = ?", remoteID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionStore) FindByUserID(userID uint) ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := s.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *SubscriptionStore) Create(sub *model.Subscription) error {
	return s.db.Create(sub).Error
}

func (s *SubscriptionStore) Save(sub *model.Subscription) error {
	return s.db.Save(sub).Error
}

type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) ByID(id uint) (*model.User, error) {
	return d.findOne("id = ?", id)
}

func (d *UserDirectory) ByEmail(email string) (*model.User, error) {
	if email == "" {
		return nil, nil
	}
	return d.findOne("email = ?", email)
}

func (d *UserDirectory) ByCustomerID(customerID string) (*model.User, error) {
	if customerID == "" {
		return nil, nil
	}
	return d.findOne("stripe_customer_id = ?", customerID)
}

func (d *UserDirectory) Save(user *model.User) error {
	return d.db.Save(user).Error
}

func (d *UserDirectory) findOne(query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := d.db.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
