package plan

import (
	"math"
	"strings"
	"time"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/calendar"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// DefaultCampWeeks is the camp length used when the intake has no usable fight date.
const DefaultCampWeeks = 8

const hoursPerWeek = 7 * 24

// CampWeeks counts the whole weeks from now until the fight, rounded up and clamped to the calendar bounds.
func CampWeeks(fight, now time.Time) int {
	if fight.IsZero() {
		return DefaultCampWeeks
	}
	weeks := int(math.Ceil(fight.Sub(now.Truncate(24*time.Hour)).Hours() / hoursPerWeek))
	return min(max(weeks, calendar.MinCampWeeks), calendar.MaxCampWeeks)
}

// Athlete derives the training context. now anchors the camp length.
func (in *Intake) Athlete(now time.Time) *athlete.Context {
	injuries, restrictions := injury.Parse(in.Injuries)
	cut := athlete.WeightCut(in.WeightKG, in.TargetWeightKG)
	ath := &athlete.Context{
		Name:           in.FullName,
		Age:            in.Age,
		WeightKG:       in.WeightKG,
		TargetWeightKG: in.TargetWeightKG,
		HeightCM:       in.HeightCM,
		Sport:          vocab.ParseSport(in.TechnicalStyle),
		TechnicalStyle: in.TechnicalStyle,
		TacticalStyles: in.TacticalStyles,
		Styles:         vocab.CanonicalStyles(in.TacticalStyles),
		Stance:         in.Stance,
		Status:         strings.ToLower(in.Status),
		Record:         in.Record,
		FightDate:      in.FightDate,
		Rounds:         in.Rounds,
		RoundMinutes:   in.RoundMinutes,
		Frequency:      in.Frequency,
		Availability:   in.Availability,
		Fatigue:        vocab.ParseFatigue(in.Fatigue),
		Equipment:      vocab.NormalizeEquipmentList(in.Equipment),
		Goals:          vocab.GoalTags(in.Goals),
		Weaknesses:     vocab.GoalTags(in.Weaknesses),
		Preferences:    vocab.NormalizeTags(splitList(in.Preferences)),
		RawGoals:       in.Goals,
		RawWeaknesses:  in.Weaknesses,
		MentalBlocks:   splitList(in.MentalBlocks),
		Notes:          in.Notes,
		InjuryText:     in.Injuries,
		Injuries:       injuries,
		Restrictions:   restrictions,
		WeightCutPct:   cut,
		WeightCutRisk:  cut >= athlete.HeavyCutPct,
	}
	if ath.Frequency <= 0 {
		ath.Frequency = len(in.Availability)
	}
	if ath.Frequency <= 0 {
		ath.Frequency = athlete.DefaultFrequency
	}
	ath.Calendar = calendar.Compute(ath.CalendarInput(CampWeeks(in.FightDate, now)))
	return ath
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, piece := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
			if piece = strings.TrimSpace(piece); piece != "" {
				out = append(out, piece)
			}
		}
	}
	return out
}
