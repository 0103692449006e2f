package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Demba-Soumare/birthdate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateWebhookEvent means the provider event id was already
	// applied; the caller acknowledges without touching the ledger.
	ErrDuplicateWebhookEvent = errors.New("webhook event already processed")
	// ErrFundraiserNotFound means the event has no fundraiser row at
	// transaction time; the caller returns an error status so the
	// provider redelivers later.
	ErrFundraiserNotFound = errors.New("fundraiser not found for event")
	ErrFundraiserExists   = errors.New("event already has a fundraiser")
)

type FundraiserRepository struct {
	db *gorm.DB
}

func NewFundraiserRepository(db *gorm.DB) *FundraiserRepository {
	return &FundraiserRepository{db: db}
}

// Create opens a fundraiser on an event. One fundraiser per event; the
// unique index on event_id backs that up.
func (r *FundraiserRepository) Create(f *models.Fundraiser) error {
	err := r.db.Create(f).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrFundraiserExists
	}
	return err
}

func (r *FundraiserRepository) GetByEventID(eventID uint) (*models.Fundraiser, error) {
	var f models.Fundraiser
	err := r.db.Preload("Contributions", func(db *gorm.DB) *gorm.DB {
		return db.Order("contributions.id ASC")
	}).Where("event_id = ?", eventID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ApplyContribution settles one completed checkout against the ledger.
// Everything happens in a single transaction: the dedup insert, a
// SELECT ... FOR UPDATE on the fundraiser row, the contribution append
// and the running-total update. The row lock serializes concurrent
// webhook deliveries for the same fundraiser so no increment is lost.
func (r *FundraiserRepository) ApplyContribution(ctx context.Context, providerEventID string, eventID uint, contrib *models.Contribution) (int64, error) {
	var newTotal int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := models.StripeWebhookEvent{
			ProviderEventID: providerEventID,
			EventType:       "checkout.session.completed",
			ProcessedAt:     time.Now(),
		}
		if err := tx.Create(&seen).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateWebhookEvent
			}
			return err
		}

		var f models.Fundraiser
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ?", eventID).First(&f).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundraiserNotFound
			}
			return err
		}

		contrib.FundraiserID = f.ID
		contrib.CreatedAt = time.Now()
		if err := tx.Create(contrib).Error; err != nil {
			return err
		}
		newTotal = f.CurrentAmountCents + contrib.AmountCents
		return tx.Model(&f).Update("current_amount_cents", newTotal).Error
	})
	if err != nil {
		return 0, err
	}
	return newTotal, nil
}
