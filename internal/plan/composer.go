// Package plan turns an intake form into a complete fight camp plan.
package plan

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/conditioning"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/myrjola/fightcamp/internal/review"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/strength"
)

// PDFFailed replaces the document URL when publishing fails.
const PDFFailed = "PDF generation failed"

// WhyLog explains every selected item, per module and phase.
type WhyLog struct {
	Strength     map[catalog.Phase][]selection.Why `json:"strength"`
	Conditioning map[catalog.Phase][]selection.Why `json:"conditioning"`
}

// Output is the result of Generate.
type Output struct {
	PDFURL        string                `json:"pdf_url"`
	WhyLog        WhyLog                `json:"why_log"`
	CoachNotes    string                `json:"coach_notes"`
	PlanText      string                `json:"plan_text"`
	Substitutions []review.Substitution `json:"substitutions"`
	Seed          uint64                `json:"random_seed"`
}

// Document is what a Publisher receives.
type Document struct {
	Title    string
	Athlete  string
	Markdown string
	Output   *Output
}

// Publisher stores a rendered plan and returns the URL it can be fetched from.
type Publisher interface {
	Publish(ctx context.Context, doc Document) (string, error)
}

// Composer generates plans. It is safe for concurrent use; every plan derives its own random sources
// from its seed.
type Composer struct {
	catalog      *catalog.Catalog
	strength     *strength.Selector
	conditioning *conditioning.Selector
	reviewer     *review.Reviewer
	publisher    Publisher
	logger       *slog.Logger
	// Now anchors the camp length to the fight date.
	Now func() time.Time
}

// NewComposer creates a Composer over the catalog. publisher may be nil, in which case plans carry no URL.
func NewComposer(cat *catalog.Catalog, publisher Publisher, logger *slog.Logger) *Composer {
	engine := injury.NewEngine(cat, logger)
	return &Composer{
		catalog:      cat,
		strength:     strength.NewSelector(cat, engine, logger),
		conditioning: conditioning.NewSelector(cat, engine, logger),
		reviewer:     review.NewReviewer(cat, engine, logger),
		publisher:    publisher,
		logger:       logger,
		Now:          time.Now,
	}
}

// Generate builds the plan for in. Only a cancelled context fails; a publishing failure is reported in
// Output.PDFURL.
func (c *Composer) Generate(ctx context.Context, in *Intake) (*Output, error) {
	if in == nil {
		return nil, errors.Wrap(ErrInvalidIntake, "nil intake")
	}
	var seed uint64
	if in.Seed != nil {
		seed = *in.Seed
	} else {
		seed = rand.Uint64() //nolint:gosec // not security sensitive.
	}
	ath := in.Athlete(c.Now())
	ctx = logging.WithAttrs(ctx, slog.Uint64("seed", seed), slog.String("sport", string(ath.Sport)))
	c.logger.LogAttrs(ctx, slog.LevelInfo, "generating plan",
		slog.Int("camp_weeks", ath.Calendar.CampWeeks),
		slog.Int("injuries", len(ath.Injuries)),
		slog.Int("restrictions", len(ath.Restrictions)))

	strengthSel, conditioningSel, err := c.selectPhases(ctx, ath, seed)
	if err != nil {
		return nil, err
	}
	reviewed := c.reviewer.Run(ctx, review.Input{
		Athlete:      ath,
		Strength:     strengthSel,
		Conditioning: conditioningSel,
	})

	out := &Output{
		PDFURL: "",
		WhyLog: WhyLog{
			Strength:     whyLogs(reviewed.Strength),
			Conditioning: whyLogs(reviewed.Conditioning),
		},
		CoachNotes:    reviewed.Notes,
		PlanText:      "",
		Substitutions: reviewed.Substitutions,
		Seed:          seed,
	}
	out.PlanText = layout(ath, reviewed, rehabFor(c.catalog, ath))
	out.PDFURL = c.publish(ctx, ath, out)
	return out, nil
}

func (c *Composer) selectPhases(ctx context.Context, ath *athlete.Context, seed uint64) (
	review.Selections, review.Selections, error) {
	var (
		strengthSel     = make(review.Selections)
		conditioningSel = make(review.Selections)
		previous        []string
		recent          []catalog.Movement
	)
	for _, phase := range ath.Calendar.Active() {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(err, "select phases", slog.String("phase", string(phase)))
		}
		phaseCtx := logging.WithAttrs(ctx, slog.String("phase", string(phase)))
		st := c.strength.Select(phaseCtx, strength.Request{
			Phase:    phase,
			Athlete:  ath,
			Previous: previous,
			Recent:   recent,
			Seed:     seed,
		})
		co := c.conditioning.Select(phaseCtx, conditioning.Request{
			Phase:   phase,
			Athlete: ath,
			Seed:    seed,
		})
		strengthSel[phase] = st
		conditioningSel[phase] = co

		previous = append(previous, st.Names()...)
		recent = make([]catalog.Movement, 0, len(st.Items))
		for _, item := range st.Items {
			recent = append(recent, item.Movement)
		}
		c.logger.LogAttrs(phaseCtx, slog.LevelDebug, "phase selected",
			slog.Int("strength", len(st.Items)),
			slog.Int("conditioning", len(co.Items)),
			slog.Int("missing_systems", len(co.Missing)))
	}
	return strengthSel, conditioningSel, nil
}

func (c *Composer) publish(ctx context.Context, ath *athlete.Context, out *Output) string {
	if c.publisher == nil {
		return ""
	}
	title := "Fight Camp Plan"
	if ath.Name != "" {
		title += " – " + ath.Name
	}
	url, err := c.publisher.Publish(ctx, Document{
		Title:    title,
		Athlete:  ath.Name,
		Markdown: out.PlanText,
		Output:   out,
	})
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelError, "publish plan", errors.SlogError(err))
		return PDFFailed
	}
	return url
}

func whyLogs(sels review.Selections) map[catalog.Phase][]selection.Why {
	out := make(map[catalog.Phase][]selection.Why, len(sels))
	for phase, sel := range sels {
		out[phase] = sel.WhyLog
	}
	return out
}
