package puzzle

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/text/language"
)

// Key names a status message.
type Key string

const (
	Loading        Key = "loading"
	YourTurn       Key = "yourTurn"
	Correct        Key = "correct"
	Victory        Key = "victory"
	WrongMove      Key = "wrongMove"
	Checkmate      Key = "checkmate"
	Check          Key = "check"
	BranchComplete Key = "branchComplete"
	BranchProgress Key = "branchProgress"
	NextBranch     Key = "nextBranch"
	ReplayFailed   Key = "replayFailed"
)

const DefaultLocale = "ru"

var translations = map[string]map[Key]string{
	"en": {
		Loading:        "Loading puzzle...",
		YourTurn:       "Your turn!",
		Correct:        "Excellent! Wait for response...",
		Victory:        "Victory! Puzzle solved.",
		WrongMove:      "Wrong move. Try again.",
		Checkmate:      "Checkmate!",
		Check:          "Check!",
		BranchComplete: "Branch complete!",
		BranchProgress: "Variation {current} of {total}",
		NextBranch:     "Next variation...",
		ReplayFailed:   "Could not set up the next variation.",
	},
	"ru": {
		Loading:        "Загрузка задачи...",
		YourTurn:       "Ваш ход!",
		Correct:        "Отлично! Ждите ответ...",
		Victory:        "Победа! Задача решена.",
		WrongMove:      "Неверный ход. Попробуйте еще раз.",
		Checkmate:      "Мат!",
		Check:          "Шах!",
		BranchComplete: "Вариант завершён!",
		BranchProgress: "Вариант {current} из {total}",
		NextBranch:     "Следующий вариант...",
		ReplayFailed:   "Не удалось подготовить следующий вариант.",
	},
}

// Locales lists the supported locales in a stable order.
func Locales() []string {
	out := make([]string, 0, len(translations))
	for l := range translations {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

var (
	supported = []language.Tag{language.Russian, language.English}
	matcher   = language.NewMatcher(supported)
)

// MatchLocale picks the supported locale closest to lang ("en-GB" is "en");
// unknown languages get fallback.
func MatchLocale(lang, fallback string) string {
	if _, ok := translations[fallback]; !ok {
		fallback = DefaultLocale
	}
	if strings.TrimSpace(lang) == "" {
		return fallback
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fallback
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Translator renders status keys in one locale.
type Translator struct {
	locale string
	table  map[Key]string
}

func NewTranslator(lang, fallback string) Translator {
	locale := MatchLocale(lang, fallback)
	return Translator{locale: locale, table: translations[locale]}
}

func (t Translator) Locale() string {
	return t.locale
}

// With returns a translator whose table is overridden by the given texts.
func (t Translator) With(overrides map[Key]string) Translator {
	table := make(map[Key]string, len(t.table)+len(overrides))
	maps.Copy(table, t.table)
	maps.Copy(table, overrides)
	return Translator{locale: t.locale, table: table}
}

// T returns the text for k, or k itself when the table lacks it.
func (t Translator) T(k Key) string {
	if s, ok := t.table[k]; ok {
		return s
	}
	return string(k)
}

// Join renders several keys as one line.
func (t Translator) Join(keys ...Key) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, t.T(k))
	}
	return strings.Join(parts, " ")
}

func (t Translator) Progress(current, total int) string {
	return strings.NewReplacer(
		"{current}", strconv.Itoa(current),
		"{total}", strconv.Itoa(total),
	).Replace(t.T(BranchProgress))
}
