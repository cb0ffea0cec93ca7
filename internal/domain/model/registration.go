package model

import (
	"fmt"
	"strings"
	"time"

	"training-registration/internal/domain"
)

type RegistrationStatus string

const (
	StatusPending          RegistrationStatus = "pending"
	StatusPaymentInitiated RegistrationStatus = "payment_initiated"
	StatusPaid             RegistrationStatus = "paid"
	StatusContacted        RegistrationStatus = "contacted"
	StatusCancelled        RegistrationStatus = "cancelled"
)

func ParseRegistrationStatus(s string) (RegistrationStatus, error) {
	switch st := RegistrationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusPaymentInitiated, StatusPaid, StatusContacted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("status %q: %w", s, domain.ErrInvalidArgument)
	}
}

// Registration is the persisted snapshot of a submitted draft.
type Registration struct {
	ID               string             `json:"id"`
	FullName         string             `json:"fullName"`
	Email            string             `json:"email"`
	Phone            string             `json:"phone"`
	City             string             `json:"city"`
	TrainingCategory Category           `json:"trainingCategory"`
	TrainingID       string             `json:"trainingId"`
	TrainingLabel    string             `json:"trainingLabel"`
	Price            int64              `json:"price"`
	DeliveryMode     DeliveryMode       `json:"deliveryMode"`
	Motivation       string             `json:"motivation"`
	Interests        []string           `json:"interests"`
	AcceptedTerms    bool               `json:"acceptedTerms"`
	Status           RegistrationStatus `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// NewRegistration normalizes a complete draft into a pending record.
func NewRegistration(id string, d Draft, cat *Catalog, now time.Time) (*Registration, error) {
	if id == "" || !d.IsComplete() {
		return nil, domain.ErrInvalidArgument
	}
	label := d.SpecificTraining
	price := d.Price
	if e, ok := cat.Lookup(d.TrainingCategory, d.SpecificTraining); ok {
		label = e.Label
		price = e.Price
	}
	return &Registration{
		ID:               id,
		FullName:         strings.TrimSpace(d.FullName),
		Email:            strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:            strings.TrimSpace(d.Phone),
		City:             strings.TrimSpace(d.City),
		TrainingCategory: d.TrainingCategory,
		TrainingID:       d.SpecificTraining,
		TrainingLabel:    label,
		Price:            price,
		DeliveryMode:     d.DeliveryMode,
		Motivation:       strings.TrimSpace(d.Motivation),
		Interests:        normalizeSet(d.Interests),
		AcceptedTerms:    d.AcceptedTerms,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// FallbackRecord is a registration kept locally when the primary store failed.
type FallbackRecord struct {
	ID           string       `json:"id"`
	Timestamp    time.Time    `json:"timestamp"`
	Registration Registration `json:"registration"`
}

// TransitionTo moves the record to status. Cancelled records are final.
func (r *Registration) TransitionTo(to RegistrationStatus, now time.Time) error {
	if _, err := ParseRegistrationStatus(string(to)); err != nil {
		return err
	}
	if r.Status == to {
		return nil
	}
	if r.Status == StatusCancelled {
		return fmt.Errorf("registration %s is cancelled: %w", r.ID, domain.ErrInvalidState)
	}
	r.Status = to
	r.UpdatedAt = now
	return nil
}
