package model

import (
	"fmt"
	"strconv"
	"strings"

	"training-registration/internal/domain"
)

type DeliveryMode string

const (
	ModeInPerson DeliveryMode = "in-person"
	ModeOnline   DeliveryMode = "online"
	ModeHybrid   DeliveryMode = "hybrid"
)

var modeAliases = map[string]DeliveryMode{
	"in-person":  ModeInPerson,
	"presentiel": ModeInPerson,
	"présentiel": ModeInPerson,
	"online":     ModeOnline,
	"enligne":    ModeOnline,
	"en-ligne":   ModeOnline,
	"hybrid":     ModeHybrid,
	"mixte":      ModeHybrid,
}

func ParseDeliveryMode(s string) (DeliveryMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	m, ok := modeAliases[s]
	if !ok {
		return "", fmt.Errorf("delivery mode %q: %w", s, domain.ErrInvalidArgument)
	}
	return m, nil
}

// Field names accepted by Draft.SetField.
const (
	FieldFullName         = "fullName"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldCity             = "city"
	FieldTrainingCategory = "trainingCategory"
	FieldSpecificTraining = "specificTraining"
	FieldPrice            = "price"
	FieldDeliveryMode     = "deliveryMode"
	FieldMotivation       = "motivation"
	FieldInterests        = "interests"
	FieldAcceptedTerms    = "acceptedTerms"
)

// Draft is the in-progress applicant data. Price is derived from the catalog
// and only changes through category or training updates.
type Draft struct {
	FullName         string       `json:"fullName"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	City             string       `json:"city"`
	TrainingCategory Category     `json:"trainingCategory"`
	SpecificTraining string       `json:"specificTraining"`
	Price            int64        `json:"price"`
	DeliveryMode     DeliveryMode `json:"deliveryMode"`
	Motivation       string       `json:"motivation"`
	Interests        []string     `json:"interests"`
	AcceptedTerms    bool         `json:"acceptedTerms"`
}

// SetField returns a copy of d with one field replaced. The receiver is never
// modified. Changing the category or the training recomputes the price.
func (d Draft) SetField(cat *Catalog, name string, value any) (Draft, error) {
	out := d
	out.Interests = append([]string(nil), d.Interests...)

	switch name {
	case FieldFullName, FieldEmail, FieldPhone, FieldCity, FieldMotivation:
		s, err := asString(name, value)
		if err != nil {
			return d, err
		}
		switch name {
		case FieldFullName:
			out.FullName = s
		case FieldEmail:
			out.Email = s
		case FieldPhone:
			out.Phone = s
		case FieldCity:
			out.City = s
		case FieldMotivation:
			out.Motivation = s
		}
	case FieldTrainingCategory:
		s, err := asString(name, value)
		if err != nil {
			return d, err
		}
		c, err := ParseCategory(s)
		if err != nil {
			return d, err
		}
		out.TrainingCategory = c
		out.Price = cat.Price(out.TrainingCategory, out.SpecificTraining)
	case FieldSpecificTraining:
		s, err := asString(name, value)
		if err != nil {
			return d, err
		}
		out.SpecificTraining = strings.TrimSpace(s)
		out.Price = cat.Price(out.TrainingCategory, out.SpecificTraining)
	case FieldDeliveryMode:
		s, err := asString(name, value)
		if err != nil {
			return d, err
		}
		m, err := ParseDeliveryMode(s)
		if err != nil {
			return d, err
		}
		out.DeliveryMode = m
	case FieldInterests:
		list, err := asStrings(value)
		if err != nil {
			return d, err
		}
		list = normalizeSet(list)
		for _, i := range list {
			if !cat.AllowsInterest(i) {
				return d, fmt.Errorf("interest %q: %w", i, domain.ErrInvalidArgument)
			}
		}
		out.Interests = list
	case FieldAcceptedTerms:
		b, err := asBool(value)
		if err != nil {
			return d, err
		}
		out.AcceptedTerms = b
	case FieldPrice:
		return d, fmt.Errorf("price is derived from the catalog: %w", domain.ErrInvalidArgument)
	default:
		return d, fmt.Errorf("unknown field %q: %w", name, domain.ErrInvalidArgument)
	}
	return out, nil
}

func asString(field string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("field %s expects a string: %w", field, domain.ErrInvalidArgument)
	}
}

func asStrings(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("interests must be strings: %w", domain.ErrInvalidArgument)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("interests expects a list: %w", domain.ErrInvalidArgument)
	}
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("acceptedTerms expects a boolean: %w", domain.ErrInvalidArgument)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("acceptedTerms expects a boolean: %w", domain.ErrInvalidArgument)
	}
}

const (
	StepIdentity = 0
	StepTraining = 1
	StepDelivery = 2
	StepConsent  = 3

	FirstStep = StepIdentity
	LastStep  = StepConsent
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// IsStepValid reports whether the draft satisfies the requirements of step.
// Steps outside the known range have no requirements.
func IsStepValid(step int, d Draft) bool {
	switch step {
	case StepIdentity:
		return !blank(d.FullName) && !blank(d.Email) && !blank(d.Phone) && !blank(d.City)
	case StepTraining:
		return d.TrainingCategory != "" && !blank(d.SpecificTraining)
	case StepDelivery:
		return d.DeliveryMode != "" && !blank(d.Motivation)
	case StepConsent:
		return d.AcceptedTerms
	default:
		return true
	}
}

// IsComplete reports whether every step validates.
func (d Draft) IsComplete() bool {
	for s := FirstStep; s <= LastStep; s++ {
		if !IsStepValid(s, d) {
			return false
		}
	}
	return true
}

// ClampStep keeps step inside [FirstStep, LastStep].
func ClampStep(step int) int {
	if step < FirstStep {
		return FirstStep
	}
	if step > LastStep {
		return LastStep
	}
	return step
}
