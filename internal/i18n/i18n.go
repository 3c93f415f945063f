// Package i18n translates user-facing error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the built-in messages.
func NewTranslator() *Translator {
	return &Translator{messages: messages}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to the
// default locale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supported reports whether locale has a message table.
func (t *Translator) Supported(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale returns the first supported language of the Accept-Language
// header, or DefaultLocale.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	t := GetTranslator()
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		// "iw" is the legacy code for Hebrew.
		if lang == "iw" {
			lang = "he"
		}
		if t.Supported(lang) {
			return lang
		}
	}
	return DefaultLocale
}

var messages = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequest:     "Invalid request",
		ErrKeyInvalidRequestBody: "Invalid request body",
		ErrKeyUnsupportedMedia:   "Content-Type must be application/json",
		ErrKeyInternalError:      "An unexpected error occurred",
		ErrKeyStore:              "The weighing store is unavailable",
		ErrKeyComputation:        "Net weight could not be computed",
		ErrKeyStateOrdering:      "A standalone weighing cannot be recorded while an in session is open",
		ErrKeyUnauthorized:       "Unauthorized",
		ErrKeyAPIKeyRequired:     "API key is required",
		ErrKeyInvalidAPIKey:      "Invalid API key",
		ErrKeyInvalidToken:       "Invalid or expired token",
		ErrKeyTokenRequired:      "Authentication token is required",
		ErrKeyNotFound:           "Not found",
		ErrKeyConflict:           "Conflict",
		ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
		ErrKeyTimeout:            "The request timed out",
		ErrKeyRequestInFlight:    "A request with this Idempotency-Key is still being processed",
		ErrKeyActiveSession:      "An active in session already exists",
		ErrKeyNoOpenSession:      "No in session found, cannot proceed with out",
		ErrKeyStandaloneOpen:     "A standalone weighing cannot be recorded while an in session is open",
		ErrKeyInvalidSession:     "Session id must be a number",
		ErrKeyFileNotFound:       "Batch file not found in the input directory",
		ErrKeyInvalidFile:        "Batch file must be a .csv or .json file with valid content",
	},
	"he": {
		ErrKeyInvalidRequest:     "בקשה לא תקינה",
		ErrKeyInvalidRequestBody: "גוף הבקשה אינו תקין",
		ErrKeyUnsupportedMedia:   "סוג התוכן חייב להיות application/json",
		ErrKeyInternalError:      "אירעה שגיאה בלתי צפויה",
		ErrKeyStore:              "מאגר השקילות אינו זמין",
		ErrKeyComputation:        "לא ניתן לחשב משקל נטו",
		ErrKeyStateOrdering:      "לא ניתן לרשום שקילה עצמאית כאשר קיימת כניסה פתוחה",
		ErrKeyUnauthorized:       "אין הרשאה",
		ErrKeyAPIKeyRequired:     "נדרש מפתח API",
		ErrKeyInvalidAPIKey:      "מפתח API לא תקין",
		ErrKeyInvalidToken:       "אסימון לא תקין או שפג תוקפו",
		ErrKeyTokenRequired:      "נדרש אסימון הזדהות",
		ErrKeyNotFound:           "לא נמצא",
		ErrKeyConflict:           "התנגשות",
		ErrKeyRateLimitExceeded:  "יותר מדי בקשות, נסו שוב מאוחר יותר",
		ErrKeyTimeout:            "תם הזמן לבקשה",
		ErrKeyRequestInFlight:    "בקשה עם מפתח Idempotency-Key זה עדיין בטיפול",
		ErrKeyActiveSession:      "כבר קיימת כניסה פתוחה למשאית",
		ErrKeyNoOpenSession:      "לא נמצאה כניסה פתוחה, לא ניתן לבצע יציאה",
		ErrKeyStandaloneOpen:     "לא ניתן לרשום שקילה עצמאית כאשר קיימת כניסה פתוחה",
		ErrKeyInvalidSession:     "מזהה שקילה חייב להיות מספר",
		ErrKeyFileNotFound:       "קובץ האצווה לא נמצא בתיקיית הקלט",
		ErrKeyInvalidFile:        "קובץ האצווה חייב להיות csv או json עם תוכן תקין",
	},
}
