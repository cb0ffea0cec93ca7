package usecase

import (
	"net/url"
	"strings"

	"training-registration/internal/domain/model"
)

// Translator renders user-facing messages.
type Translator interface {
	T(key string, args ...interface{}) string
	Amount(n int64) string
}

// WhatsAppLink builds a wa.me deep link. Only the digits of phone are kept.
func WhatsAppLink(phone, text string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	link := "https://wa.me/" + digits.String()
	if text == "" {
		return link
	}
	return link + "?text=" + url.QueryEscape(text)
}

// contactLink names the training and the applicant, taken from the stored
// record when there is one and from the draft otherwise.
func contactLink(tr Translator, cat *model.Catalog, phone string, s *model.FormSession) string {
	name, training := s.Draft.FullName, s.Draft.SpecificTraining
	if e, ok := cat.Lookup(s.Draft.TrainingCategory, s.Draft.SpecificTraining); ok {
		training = e.Label
	}
	if s.Record != nil {
		name, training = s.Record.FullName, s.Record.TrainingLabel
	}
	return WhatsAppLink(phone, tr.T("contact.whatsapp_text", strings.TrimSpace(training), strings.TrimSpace(name)))
}
