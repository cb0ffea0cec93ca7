package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// Translator resolves message keys for one language and formats amounts with
// that language's digit grouping.
type Translator struct {
	lang         string
	translations map[string]string
	termsText    string
	printer      *message.Printer
}

// NewTranslator loads locales/<lang>.yaml and locales/terms-<lang>.txt from fsys.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", fmt.Sprintf("%s.yaml", langCode))
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}
	t, err := newTranslatorFromBytes(data)
	if err != nil {
		return nil, err
	}

	termsPath := path.Join("locales", fmt.Sprintf("terms-%s.txt", langCode))
	terms, err := fs.ReadFile(fsys, termsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms file %s: %w", termsPath, err)
	}
	t.termsText = string(terms)
	t.setLang(langCode)
	return t, nil
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	t := &Translator{translations: translations}
	t.setLang("fr")
	return t, nil
}

func (t *Translator) setLang(code string) {
	tag, err := language.Parse(code)
	if err != nil {
		tag = language.French
	}
	t.lang = code
	t.printer = message.NewPrinter(tag)
}

// T returns the message for key, formatted with args. Unknown keys are
// returned as-is.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Amount formats n with locale digit grouping (25 000 in fr, 25,000 in en).
func (t *Translator) Amount(n int64) string {
	return t.printer.Sprintf("%d", n)
}

func (t *Translator) Terms() string {
	return t.termsText
}

func (t *Translator) Lang() string {
	return t.lang
}
