package plan

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/tidwall/gjson"
)

var ErrInvalidIntake = errors.NewSentinel("invalid intake")

// Form labels, matched case-insensitively after trimming.
const (
	LabelFullName       = "Full name"
	LabelAge            = "Age"
	LabelWeight         = "Weight (kg)"
	LabelTargetWeight   = "Target Weight (kg)"
	LabelHeight         = "Height (cm)"
	LabelTechnicalStyle = "Fighting Style (Technical)"
	LabelTacticalStyle  = "Fighting Style (Tactical)"
	LabelStance         = "Stance"
	LabelStatus         = "Professional Status"
	LabelRecord         = "Current Record"
	LabelFightDate      = "When is your next fight?"
	LabelRounds         = "Rounds x Minutes"
	LabelFrequency      = "Weekly Training Frequency"
	LabelFatigue        = "Fatigue Level"
	LabelEquipment      = "Equipment Access"
	LabelAvailability   = "Training Availability"
	LabelInjuries       = "Any injuries or areas you need to work around?"
	LabelGoals          = "What are your key performance goals?"
	LabelWeaknesses     = "Where do you feel weakest right now?"
	LabelPreferences    = "Do you prefer certain training styles?"
	LabelMentalBlocks   = "Do you struggle with any mental blockers?"
	LabelNotes          = "Notes"
)

// labelAliases maps label prefixes onto the canonical labels. The first matching prefix wins.
//
//nolint:gochecknoglobals // lookup table.
var labelAliases = []struct{ prefix, label string }{
	{"name", LabelFullName},
	{"weight", LabelWeight},
	{"target weight", LabelTargetWeight},
	{"height", LabelHeight},
	{"fighting style (tact", LabelTacticalStyle},
	{"tactical style", LabelTacticalStyle},
	{"fighting style", LabelTechnicalStyle},
	{"professional status", LabelStatus},
	{"record", LabelRecord},
	{"fight date", LabelFightDate},
	{"when is your next fight", LabelFightDate},
	{"rounds", LabelRounds},
	{"weekly training frequency", LabelFrequency},
	{"training frequency", LabelFrequency},
	{"fatigue", LabelFatigue},
	{"equipment", LabelEquipment},
	{"training availability", LabelAvailability},
	{"availability", LabelAvailability},
	{"any injuries", LabelInjuries},
	{"injuries", LabelInjuries},
	{"what are your key performance goals", LabelGoals},
	{"goals", LabelGoals},
	{"where do you feel weakest", LabelWeaknesses},
	{"weaknesses", LabelWeaknesses},
	{"do you prefer certain training", LabelPreferences},
	{"training preferences", LabelPreferences},
	{"do you struggle with any mental", LabelMentalBlocks},
	{"mental blockers", LabelMentalBlocks},
	{"anything else", LabelNotes},
	{"is there anything else", LabelNotes},
	{"additional notes", LabelNotes},
	{"notes", LabelNotes},
}

// Intake is the typed view of an intake payload.
type Intake struct {
	FullName       string   `validate:"max=200"`
	Age            int      `validate:"gte=0,lte=100"`
	WeightKG       float64  `validate:"gte=0,lte=400"`
	TargetWeightKG float64  `validate:"gte=0,lte=400"`
	HeightCM       float64  `validate:"gte=0,lte=260"`
	TechnicalStyle string   `validate:"max=200"`
	TacticalStyles []string `validate:"dive,max=200"`
	Stance         string
	Status         string
	Record         string
	FightDate      time.Time
	Rounds         int `validate:"gte=0,lte=15"`
	RoundMinutes   int `validate:"gte=0,lte=15"`
	Frequency      int `validate:"gte=0,lte=14"`
	Fatigue        string
	Equipment      []string
	Availability   []string
	Injuries       string
	Goals          []string
	Weaknesses     []string
	Preferences    []string
	MentalBlocks   []string
	Notes          string
	// Seed is nil when the payload has no random_seed.
	Seed *uint64
}

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

//nolint:gochecknoglobals // precompiled pattern.
var roundsPattern = regexp.MustCompile(`(\d+)\s*[x×*]\s*(\d+)`)

//nolint:gochecknoglobals // accepted fight date layouts.
var dateLayouts = []string{time.DateOnly, "2006/01/02", "02.01.2006", "02/01/2006", time.RFC3339, "January 2, 2006"}

// ParseIntake reads the intake payload `{data: {fields: [{label, value, options?}]}}`. Values may be strings,
// numbers, lists, or option ids resolved through the field's options. Unknown labels are ignored.
func ParseIntake(payload []byte) (*Intake, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errors.Wrap(ErrInvalidIntake, "payload is not JSON")
	}
	root := gjson.ParseBytes(payload)
	fields := root.Get("data.fields")
	if !fields.IsArray() {
		return nil, errors.Wrap(ErrInvalidIntake, "payload has no data.fields list")
	}

	values := make(map[string][]string)
	for _, field := range fields.Array() {
		label := canonicalLabel(field.Get("label").String())
		if label == "" {
			continue
		}
		values[label] = append(values[label], fieldValues(field)...)
	}
	first := func(label string) string {
		if v := values[label]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	joined := func(label string) string {
		return strings.TrimSpace(strings.Join(values[label], ", "))
	}

	in := &Intake{
		FullName:       first(LabelFullName),
		Age:            int(number(first(LabelAge))),
		WeightKG:       number(first(LabelWeight)),
		TargetWeightKG: number(first(LabelTargetWeight)),
		HeightCM:       number(first(LabelHeight)),
		TechnicalStyle: joined(LabelTechnicalStyle),
		TacticalStyles: nonEmpty(values[LabelTacticalStyle]),
		Stance:         first(LabelStance),
		Status:         first(LabelStatus),
		Record:         first(LabelRecord),
		FightDate:      time.Time{},
		Rounds:         0,
		RoundMinutes:   0,
		Frequency:      int(number(first(LabelFrequency))),
		Fatigue:        first(LabelFatigue),
		Equipment:      nonEmpty(values[LabelEquipment]),
		Availability:   nonEmpty(values[LabelAvailability]),
		Injuries:       joined(LabelInjuries),
		Goals:          nonEmpty(values[LabelGoals]),
		Weaknesses:     nonEmpty(values[LabelWeaknesses]),
		Preferences:    nonEmpty(values[LabelPreferences]),
		MentalBlocks:   nonEmpty(values[LabelMentalBlocks]),
		Notes:          joined(LabelNotes),
		Seed:           nil,
	}
	if raw := first(LabelFightDate); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidIntake, "unparseable fight date", slog.String("fight_date", raw))
		}
		in.FightDate = date
	}
	if m := roundsPattern.FindStringSubmatch(first(LabelRounds)); m != nil {
		in.Rounds, _ = strconv.Atoi(m[1])
		in.RoundMinutes, _ = strconv.Atoi(m[2])
	}
	if seed := root.Get("random_seed"); seed.Exists() && seed.Type != gjson.Null {
		v, err := parseSeed(seed)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidIntake, "invalid random_seed", slog.String("random_seed", seed.Raw))
		}
		in.Seed = &v
	}
	if err := validate.Struct(in); err != nil {
		return nil, errors.Wrap(errors.Join(ErrInvalidIntake, err), "validate intake")
	}
	return in, nil
}

func canonicalLabel(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	for _, label := range []string{
		LabelFullName, LabelAge, LabelWeight, LabelTargetWeight, LabelHeight, LabelTechnicalStyle,
		LabelTacticalStyle, LabelStance, LabelStatus, LabelRecord, LabelFightDate, LabelRounds, LabelFrequency,
		LabelFatigue, LabelEquipment, LabelAvailability, LabelInjuries, LabelGoals, LabelWeaknesses,
		LabelPreferences, LabelMentalBlocks, LabelNotes,
	} {
		if key == strings.ToLower(label) {
			return label
		}
	}
	for _, alias := range labelAliases {
		if strings.HasPrefix(key, alias.prefix) {
			return alias.label
		}
	}
	return ""
}

// fieldValues flattens a field value into strings. Option ids are replaced by the option text.
func fieldValues(field gjson.Result) []string {
	options := make(map[string]string)
	field.Get("options").ForEach(func(_, opt gjson.Result) bool {
		options[opt.Get("id").String()] = opt.Get("text").String()
		return true
	})
	resolve := func(v gjson.Result) string {
		s := v.String()
		if text, ok := options[s]; ok {
			return text
		}
		return s
	}

	value := field.Get("value")
	switch {
	case !value.Exists() || value.Type == gjson.Null:
		return nil
	case value.IsArray():
		var out []string
		for _, v := range value.Array() {
			out = append(out, resolve(v))
		}
		return out
	default:
		return []string{resolve(value)}
	}
}

func number(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	end := strings.IndexFunc(raw, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end >= 0 {
		raw = raw[:end]
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDate(raw string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrap(err, "parse date")
}

func parseSeed(v gjson.Result) (uint64, error) {
	if v.Type == gjson.Number {
		if v.Num < 0 {
			return 0, errors.New("negative seed")
		}
		return v.Uint(), nil
	}
	seed, err := strconv.ParseUint(strings.TrimSpace(v.String()), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse seed")
	}
	return seed, nil
}
