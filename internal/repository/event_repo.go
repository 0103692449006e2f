package repository

import (
	"errors"
	"time"

	"github.com/Demba-Soumare/birthdate/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.Event) error {
	return r.db.Create(e).Error
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var e models.Event
	err := r.db.Preload("Fundraiser").First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByOwner returns a user's events ordered by date ascending.
func (r *EventRepository) ListByOwner(userID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Fundraiser").
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

// ListUpcoming returns a user's events with a date from now on.
func (r *EventRepository) ListUpcoming(userID uint, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Fundraiser").
		Where("user_id = ? AND date >= ?", userID, now).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

func (r *EventRepository) Update(e *models.Event) error {
	return r.db.Save(e).Error
}

// Delete removes the event together with its fundraiser and
// contributions; ledger deletion is only ever reached through here.
func (r *EventRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var f models.Fundraiser
		err := tx.Where("event_id = ?", id).First(&f).Error
		if err == nil {
			if err := tx.Where("fundraiser_id = ?", f.ID).Delete(&models.Contribution{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&f).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}
