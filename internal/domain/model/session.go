package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"training-registration/internal/domain"
)

type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

var mobileUA = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// ClassifyDevice resolves the device class from a User-Agent header.
func ClassifyDevice(userAgent string) Device {
	if mobileUA.MatchString(userAgent) {
		return DeviceMobile
	}
	return DeviceDesktop
}

func ParseDevice(s string) (Device, error) {
	switch d := Device(strings.ToLower(strings.TrimSpace(s))); d {
	case DeviceMobile, DeviceDesktop:
		return d, nil
	default:
		return "", fmt.Errorf("device %q: %w", s, domain.ErrInvalidArgument)
	}
}

type Phase string

const (
	PhaseFilling            Phase = "filling"
	PhaseRegistered         Phase = "registered"
	PhaseRegisteredDegraded Phase = "registered_degraded"
	PhaseSubmissionError    Phase = "submission_error"
	PhaseChoosingAmount     Phase = "choosing_amount"
	PhaseChoosingChannel    Phase = "choosing_channel"
	PhaseConfirmed          Phase = "confirmed"
	PhaseContact            Phase = "contact"
)

// FormSession owns exactly one draft and tracks where the applicant is in
// the flow. The device class is fixed when the session starts.
type FormSession struct {
	ID     string `json:"id"`
	Device Device `json:"device"`
	Step   int    `json:"step"`
	Draft  Draft  `json:"draft"`
	Phase  Phase  `json:"phase"`

	Record      *Registration  `json:"record,omitempty"`
	FallbackID  string         `json:"fallbackId,omitempty"`
	Option      *PaymentOption `json:"option,omitempty"`
	Channel     string         `json:"channel,omitempty"`
	Artifact    *ManualAction  `json:"artifact,omitempty"`
	Message     string         `json:"message,omitempty"`
	ContactLink string         `json:"contactLink,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewFormSession(id string, device Device, now time.Time) *FormSession {
	return &FormSession{
		ID:        id,
		Device:    device,
		Step:      FirstStep,
		Phase:     PhaseFilling,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GoNext advances one step when the current step validates.
func (s *FormSession) GoNext() error {
	if s.Phase != PhaseFilling {
		return domain.ErrInvalidState
	}
	if !IsStepValid(s.Step, s.Draft) {
		return domain.ErrStepInvalid
	}
	s.Step = ClampStep(s.Step + 1)
	return nil
}

// GoBack moves one step back; it never validates.
func (s *FormSession) GoBack() error {
	if s.Phase != PhaseFilling {
		return domain.ErrInvalidState
	}
	s.Step = ClampStep(s.Step - 1)
	return nil
}

// ResetDraft discards the draft and every outcome of a previous submission.
func (s *FormSession) ResetDraft() {
	s.Draft = Draft{}
	s.Step = FirstStep
	s.Phase = PhaseFilling
	s.Record = nil
	s.FallbackID = ""
	s.Option = nil
	s.Channel = ""
	s.Artifact = nil
	s.Message = ""
	s.ContactLink = ""
}

// CanSubmit reports whether the session is on the last step with a complete
// draft. A submission that failed entirely may be sent again by the applicant.
func (s *FormSession) CanSubmit() error {
	if s.Phase != PhaseFilling && s.Phase != PhaseSubmissionError {
		return domain.ErrInvalidState
	}
	if s.Step != LastStep || !s.Draft.IsComplete() {
		return domain.ErrStepInvalid
	}
	return nil
}

// InPaymentFlow reports whether amount or channel selection is open.
func (s *FormSession) InPaymentFlow() bool {
	return s.Phase == PhaseChoosingAmount || s.Phase == PhaseChoosingChannel
}
