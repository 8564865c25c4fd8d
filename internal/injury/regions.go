package injury

import "slices"

// Bucket classifies the dominant mechanism behind a risk detail.
type Bucket string

const (
	BucketOverhead    Bucket = "overhead"
	BucketImpact      Bucket = "impact"
	BucketKneeLoad    Bucket = "knee_load"
	BucketHinge       Bucket = "hinge"
	BucketWristLoad   Bucket = "wrist_load"
	BucketNeckLoad    Bucket = "neck_load"
	BucketHipIrritant Bucket = "hip_irritant"
	BucketPress       Bucket = "press"
	BucketDefault     Bucket = "default"
)

type mechanism string

const (
	mechImpact   mechanism = "impact"
	mechVelocity mechanism = "velocity"
	mechOverhead mechanism = "overhead"
	mechPress    mechanism = "press"
	mechHinge    mechanism = "hinge"
	mechKnee     mechanism = "knee_load"
	mechWrist    mechanism = "wrist_load"
	mechNeck     mechanism = "neck_load"
	mechHip      mechanism = "hip_irritant"
	mechDefault  mechanism = "default"
)

//nolint:gochecknoglobals // lookup table.
var mechanismBuckets = map[mechanism]Bucket{
	mechImpact:   BucketImpact,
	mechVelocity: BucketImpact,
	mechOverhead: BucketOverhead,
	mechPress:    BucketPress,
	mechHinge:    BucketHinge,
	mechKnee:     BucketKneeLoad,
	mechWrist:    BucketWristLoad,
	mechNeck:     BucketNeckLoad,
	mechHip:      BucketHipIrritant,
	mechDefault:  BucketDefault,
}

//nolint:gochecknoglobals // lookup table.
var mechanismMultiplier = map[mechanism]float64{
	mechImpact:   1.5,
	mechVelocity: 1.3,
	mechOverhead: 1.5,
	mechPress:    1.5,
	mechHinge:    1.3,
	mechKnee:     1.3,
	mechWrist:    1.2,
	mechNeck:     1.4,
	mechHip:      1.2,
	mechDefault:  1.0,
}

//nolint:gochecknoglobals // lookup table.
var severityWeight = map[Severity]float64{
	Mild:     0.7,
	Moderate: 1.0,
	Severe:   1.35,
}

type level string

const (
	levelExclude level = "exclude"
	levelFlag    level = "flag"
)

//nolint:gochecknoglobals // lookup table.
var levelWeight = map[level]float64{
	levelExclude: 1.0,
	levelFlag:    0.65,
}

type keywords map[mechanism][]string

type tagGroups [][]string

type profile struct {
	weight      float64
	exclude     keywords
	flag        keywords
	excludeTags map[string]mechanism
	flagTags    map[string]mechanism
	mods        []string
	allowed     []string
	fallbacks   map[Bucket]tagGroups
}

//nolint:gochecknoglobals // lookup table.
var defaultFallbacks = tagGroups{{"core", "stability"}, {"mobility", "rehab_friendly"}}

//nolint:gochecknoglobals // lookup table.
var (
	lowerLegImpact = keywords{
		mechImpact:   {"depth jump", "drop jump", "box jump", "broad jump", "tuck jump", "bound", "hop", "pogo", "jump rope", "skipping", "jump"},
		mechVelocity: {"max sprint", "hill sprint", "flying sprint", "sprint"},
	}
	lowerLegTags = map[string]mechanism{
		"achilles_high_risk_impact": mechImpact,
		"high_impact_plyo":          mechImpact,
		"forefoot_load_high":        mechImpact,
		"max_velocity":              mechVelocity,
	}
	lowerLegFallbacks = map[Bucket]tagGroups{
		BucketImpact:  {{"low_impact", "aerobic"}, {"upper_body", "upper_pull"}, {"core", "stability"}},
		BucketDefault: {{"low_impact"}, {"core", "stability"}},
	}
	handTags = map[string]mechanism{
		"striking_impact":      mechWrist,
		"wrist_extension_high": mechWrist,
	}
	handFallbacks = map[Bucket]tagGroups{
		BucketWristLoad: {{"lower_body", "low_impact"}, {"core", "stability"}, {"mobility"}},
		BucketDefault:   {{"lower_body"}, {"core"}},
	}
	hipFallbacks = map[Bucket]tagGroups{
		BucketHipIrritant: {{"upper_body", "upper_pull"}, {"core", "isometric"}, {"mobility", "rehab_friendly"}},
		BucketKneeLoad:    {{"upper_body", "upper_pull"}, {"core", "isometric"}},
		BucketDefault:     {{"upper_body"}, {"core", "stability"}},
	}
	trunkFallbacks = map[Bucket]tagGroups{
		BucketImpact:  {{"low_impact", "aerobic"}, {"isometric", "stability"}},
		BucketDefault: {{"isometric", "stability"}, {"lower_body"}, {"mobility"}},
	}
)

//nolint:gochecknoglobals // lookup table.
var profiles = map[Region]profile{
	"shoulder": {
		weight: 1.2,
		exclude: keywords{
			mechOverhead: {"overhead", "snatch", "jerk", "push press", "military press", "ohp", "thruster", "handstand", "wall ball"},
			mechPress:    {"bench press", "floor press", "incline press", "chest press", "shoulder press", "dumbbell press", "db press", "dip"},
		},
		flag: keywords{
			mechPress:   {"push up", "pushup", "burpee"},
			mechDefault: {"pull up", "chin up", "muscle up", "bear crawl", "battle ropes", "slam"},
		},
		excludeTags: map[string]mechanism{"dynamic_overhead": mechOverhead, "press_heavy": mechPress},
		flagTags:    map[string]mechanism{"shoulder_load_high": mechPress},
		mods:        []string{"neutral_grip", "reduce_range_overhead", "landmine_angle", "tempo_control"},
		allowed:     []string{"rows and face pulls", "isometric holds below shoulder height", "pain-free landmine work"},
		fallbacks: map[Bucket]tagGroups{
			BucketOverhead: {{"upper_pull", "row_heavy"}, {"core", "stability"}, {"mobility", "rehab_friendly"}},
			BucketPress:    {{"upper_pull"}, {"core", "isometric"}, {"mobility", "rehab_friendly"}},
			BucketDefault:  {{"core", "stability"}, {"lower_body"}, {"mobility", "rehab_friendly"}},
		},
	},
	"knee": {
		weight: 1.1,
		exclude: keywords{
			mechImpact: {"depth jump", "drop jump", "box jump", "tuck jump", "bound", "jump squat", "jump lunge"},
			mechKnee:   {"pistol", "sissy squat", "deep squat", "leg extension"},
		},
		flag: keywords{
			mechKnee:   {"squat", "lunge", "split squat", "step up", "skater", "cossack"},
			mechImpact: {"sprint", "jump rope", "skipping", "hop"},
		},
		excludeTags: map[string]mechanism{"high_impact_plyo": mechImpact, "knee_flexion_deep": mechKnee},
		flagTags:    map[string]mechanism{"knee_load": mechKnee, "landing_stress_high": mechImpact, "plyometric": mechImpact},
		mods:        []string{"reduce_impact", "shorten_range", "tempo_control"},
		allowed:     []string{"hinge patterns", "spanish squat isometrics", "bike and pool conditioning"},
		fallbacks: map[Bucket]tagGroups{
			BucketKneeLoad: {{"hinge", "posterior_chain"}, {"core", "isometric"}, {"upper_body"}},
			BucketImpact:   {{"low_impact", "aerobic"}, {"core", "stability"}, {"upper_body"}},
			BucketDefault:  {{"upper_body"}, {"core", "stability"}},
		},
	},
	"achilles": {
		weight:      1.2,
		exclude:     lowerLegImpact,
		flag:        keywords{mechDefault: {"calf raise", "sled push", "running", "burpee", "shuffle", "skater"}},
		excludeTags: lowerLegTags,
		flagTags:    map[string]mechanism{"landing_stress_high": mechImpact, "plyometric": mechImpact},
		mods:        []string{"reduce_impact", "limit_plyometrics", "isometric_calf_loading"},
		allowed:     []string{"isometric calf holds", "bike and rower conditioning", "upper body strength"},
		fallbacks:   lowerLegFallbacks,
	},
	"ankle": {
		weight: 1.0,
		exclude: keywords{
			mechImpact: {"depth jump", "drop jump", "box jump", "bound", "lateral bound", "skater jump", "hop"},
		},
		flag:        keywords{mechImpact: {"jump rope", "skipping", "sprint", "cutting", "agility ladder", "shuffle"}},
		excludeTags: map[string]mechanism{"high_impact_plyo": mechImpact, "landing_stress_high": mechImpact},
		flagTags:    map[string]mechanism{"plyometric": mechImpact, "forefoot_load_high": mechImpact},
		mods:        []string{"reduce_impact", "limit_plyometrics", "balance_work"},
		allowed:     []string{"single leg balance", "bike conditioning", "upper body strength"},
		fallbacks:   lowerLegFallbacks,
	},
	"calf": {
		weight:      1.0,
		exclude:     keywords{mechVelocity: {"max sprint", "sprint"}, mechImpact: {"depth jump", "drop jump", "bound", "hop", "jump"}},
		flag:        keywords{mechDefault: {"calf raise", "jump rope", "skipping", "running"}},
		excludeTags: lowerLegTags,
		flagTags:    map[string]mechanism{"plyometric": mechImpact},
		mods:        []string{"reduce_impact", "isometric_calf_loading"},
		allowed:     []string{"isometric calf holds", "bike conditioning"},
		fallbacks:   lowerLegFallbacks,
	},
	"shin": {
		weight:      1.0,
		exclude:     keywords{mechImpact: {"depth jump", "drop jump", "bound", "hop", "jump"}},
		flag:        keywords{mechImpact: {"jump rope", "skipping", "sprint", "running"}},
		excludeTags: map[string]mechanism{"high_impact_plyo": mechImpact},
		flagTags:    map[string]mechanism{"plyometric": mechImpact, "landing_stress_high": mechImpact},
		mods:        []string{"reduce_impact", "soft_surfaces"},
		allowed:     []string{"bike and pool conditioning", "strength work without impact"},
		fallbacks:   lowerLegFallbacks,
	},
	"foot": {
		weight:      1.0,
		exclude:     keywords{mechImpact: {"depth jump", "drop jump", "bound", "hop", "pogo"}},
		flag:        keywords{mechImpact: {"jump rope", "skipping", "sprint", "running", "jump"}},
		excludeTags: map[string]mechanism{"high_impact_plyo": mechImpact, "forefoot_load_high": mechImpact},
		flagTags:    map[string]mechanism{"plyometric": mechImpact},
		mods:        []string{"reduce_impact", "supportive_footwear"},
		allowed:     []string{"seated and bike conditioning", "upper body strength"},
		fallbacks:   lowerLegFallbacks,
	},
	"toe": {
		weight:      0.9,
		exclude:     keywords{mechImpact: {"depth jump", "drop jump", "pogo"}},
		flag:        keywords{mechImpact: {"jump rope", "sprint", "bound", "jump"}},
		excludeTags: map[string]mechanism{"forefoot_load_high": mechImpact},
		flagTags:    map[string]mechanism{"plyometric": mechImpact},
		mods:        []string{"reduce_impact", "flat_foot_variations"},
		allowed:     []string{"bike conditioning", "upper body strength"},
		fallbacks:   lowerLegFallbacks,
	},
	"hamstring": {
		weight: 1.1,
		exclude: keywords{
			mechHinge:    {"rdl", "romanian deadlift", "good morning", "nordic", "ham curl", "hamstring curl", "stiff leg", "glute ham raise"},
			mechVelocity: {"max sprint", "hill sprint", "flying sprint", "sprint"},
		},
		flag: keywords{
			mechHinge:  {"deadlift", "kettlebell swing", "swing", "hip thrust"},
			mechImpact: {"bound", "broad jump"},
		},
		excludeTags: map[string]mechanism{"hamstring_load_high": mechHinge, "max_velocity": mechVelocity, "hamstring_high_risk": mechVelocity},
		flagTags:    map[string]mechanism{"hinge": mechHinge, "posterior_chain": mechHinge},
		mods:        []string{"shorten_range", "avoid_max_velocity", "isometric_bias"},
		allowed:     []string{"isometric bridges", "upper body strength", "bike conditioning"},
		fallbacks: map[Bucket]tagGroups{
			BucketHinge:   {{"glute", "isometric"}, {"core", "stability"}, {"upper_pull", "upper_body"}},
			BucketImpact:  {{"low_impact", "aerobic"}, {"core", "stability"}},
			BucketDefault: {{"core", "stability"}, {"upper_body"}},
		},
	},
	"quad": {
		weight:      1.0,
		exclude:     keywords{mechKnee: {"jump squat", "sissy squat", "leg extension"}, mechVelocity: {"max sprint", "sprint"}},
		flag:        keywords{mechKnee: {"squat", "lunge", "step up"}, mechImpact: {"bound", "jump"}},
		excludeTags: map[string]mechanism{"knee_flexion_deep": mechKnee, "max_velocity": mechVelocity},
		flagTags:    map[string]mechanism{"knee_load": mechKnee, "plyometric": mechImpact},
		mods:        []string{"shorten_range", "reduce_load", "tempo_control"},
		allowed:     []string{"hinge patterns", "upper body strength"},
		fallbacks:   hipFallbacks,
	},
	"hip": {
		weight:      1.0,
		exclude:     keywords{mechHip: {"deep squat", "cossack", "pigeon", "hip airplane", "sumo deadlift"}},
		flag:        keywords{mechHip: {"squat", "lunge", "sprawl", "kick", "knee strike", "high knees"}},
		excludeTags: map[string]mechanism{"hip_flexion_deep": mechHip},
		mods:        []string{"shorten_range", "reduce_load", "tempo_control"},
		allowed:     []string{"glute bridges", "upper body strength", "bike conditioning"},
		fallbacks:   hipFallbacks,
	},
	"groin": {
		weight:      1.0,
		exclude:     keywords{mechHip: {"cossack", "lateral lunge", "sumo", "copenhagen", "adductor"}},
		flag:        keywords{mechHip: {"skater", "sprawl", "lunge", "kick"}},
		excludeTags: map[string]mechanism{"hip_flexion_deep": mechHip},
		mods:        []string{"shorten_range", "reduce_load", "avoid_lateral_loading"},
		allowed:     []string{"sagittal plane strength", "bike conditioning"},
		fallbacks:   hipFallbacks,
	},
	"glute": {
		weight:    1.0,
		flag:      keywords{mechHip: {"hip thrust", "glute bridge", "lunge"}, mechVelocity: {"sprint"}},
		flagTags:  map[string]mechanism{"max_velocity": mechVelocity},
		mods:      []string{"shorten_range", "reduce_load"},
		allowed:   []string{"upper body strength", "core work"},
		fallbacks: hipFallbacks,
	},
	"lower_back": {
		weight: 1.15,
		exclude: keywords{
			mechHinge: {"deadlift", "good morning", "rdl", "romanian deadlift", "barbell row", "jefferson curl", "back squat"},
		},
		flag: keywords{
			mechHinge:   {"kettlebell swing", "swing"},
			mechDefault: {"sit up", "crunch", "russian twist", "rotational", "med ball throw", "burpee"},
		},
		excludeTags: map[string]mechanism{"spinal_loading": mechHinge},
		flagTags:    map[string]mechanism{"hinge": mechHinge, "rotation_high": mechDefault},
		mods:        []string{"neutral_spine", "reduce_load", "brace_first"},
		allowed:     []string{"anti-extension core", "supported rows", "bike conditioning"},
		fallbacks: map[Bucket]tagGroups{
			BucketHinge:   {{"core", "anti_rotation"}, {"glute", "isometric"}, {"upper_pull"}},
			BucketDefault: {{"core", "stability"}, {"mobility"}},
		},
	},
	"upper_back": {
		weight:    1.0,
		exclude:   keywords{mechHinge: {"barbell row", "pendlay row"}},
		flag:      keywords{mechDefault: {"row", "pull up", "shrug", "carry"}},
		mods:      []string{"reduce_load", "tempo_control"},
		allowed:   []string{"lower body strength", "core work"},
		fallbacks: trunkFallbacks,
	},
	"neck": {
		weight:      1.2,
		exclude:     keywords{mechNeck: {"neck bridge", "wrestler bridge", "headstand", "neck harness"}},
		flag:        keywords{mechNeck: {"shrug", "sprawl", "neck"}, mechDefault: {"sparring"}},
		excludeTags: map[string]mechanism{"neck_load": mechNeck},
		flagTags:    map[string]mechanism{"traps": mechDefault},
		mods:        []string{"isometric_only", "reduce_range"},
		allowed:     []string{"gentle neck isometrics", "lower body strength"},
		fallbacks: map[Bucket]tagGroups{
			BucketNeckLoad: {{"core", "stability"}, {"lower_body"}, {"mobility"}},
			BucketDefault:  {{"lower_body"}, {"core"}},
		},
	},
	"elbow": {
		weight:    1.0,
		exclude:   keywords{mechPress: {"dip", "skull crusher", "close grip bench"}},
		flag:      keywords{mechDefault: {"pull up", "chin up", "push up", "curl", "heavy bag", "battle ropes"}},
		flagTags:  map[string]mechanism{"grip": mechDefault},
		mods:      []string{"reduce_load", "neutral_grip", "tempo_control"},
		allowed:   []string{"lower body strength", "core work", "bike conditioning"},
		fallbacks: handFallbacks,
	},
	"wrist": {
		weight:      1.0,
		exclude:     keywords{mechWrist: {"handstand", "front squat", "power clean", "clean", "snatch"}},
		flag:        keywords{mechWrist: {"push up", "pushup", "plank", "bear crawl", "burpee", "heavy bag", "bag work", "pad work"}},
		excludeTags: map[string]mechanism{},
		flagTags:    handTags,
		mods:        []string{"neutral_wrist", "use_fists_or_handles", "reduce_load"},
		allowed:     []string{"lower body strength", "forearm isometrics"},
		fallbacks:   handFallbacks,
	},
	"hand": {
		weight:      1.0,
		exclude:     keywords{mechWrist: {"heavy bag", "bag work", "pad work", "punch", "punching"}},
		flag:        keywords{mechDefault: {"grip", "carry", "farmer", "pull up", "deadlift"}},
		excludeTags: map[string]mechanism{"striking_impact": mechWrist},
		mods:        []string{"neutral_wrist", "use_straps", "reduce_load"},
		allowed:     []string{"footwork", "lower body strength"},
		fallbacks:   handFallbacks,
	},
	"fingers": {
		weight:    0.9,
		flag:      keywords{mechWrist: {"heavy bag", "bag work", "grip", "pull up", "carry"}},
		flagTags:  map[string]mechanism{"grip": mechDefault},
		mods:      []string{"buddy_tape", "use_straps"},
		allowed:   []string{"footwork", "lower body strength"},
		fallbacks: handFallbacks,
	},
	"forearm": {
		weight:    0.9,
		flag:      keywords{mechDefault: {"grip", "carry", "farmer", "pull up", "curl"}},
		flagTags:  map[string]mechanism{"grip": mechDefault},
		mods:      []string{"use_straps", "reduce_load"},
		allowed:   []string{"lower body strength", "core work"},
		fallbacks: handFallbacks,
	},
	"bicep": {
		weight:    1.0,
		exclude:   keywords{mechDefault: {"heavy curl"}},
		flag:      keywords{mechDefault: {"pull up", "chin up", "row", "curl"}},
		mods:      []string{"reduce_load", "neutral_grip"},
		allowed:   []string{"lower body strength", "pressing in pain-free range"},
		fallbacks: handFallbacks,
	},
	"tricep": {
		weight:    0.9,
		exclude:   keywords{mechPress: {"dip", "skull crusher"}},
		flag:      keywords{mechPress: {"push up", "bench press", "press"}},
		mods:      []string{"reduce_load", "shorten_range"},
		allowed:   []string{"lower body strength", "pulling"},
		fallbacks: handFallbacks,
	},
	"chest": {
		weight:      1.1,
		exclude:     keywords{mechPress: {"bench press", "floor press", "dip", "chest press", "fly"}},
		flag:        keywords{mechPress: {"push up", "pushup", "plyo push"}},
		excludeTags: map[string]mechanism{"press_heavy": mechPress},
		mods:        []string{"reduce_range", "neutral_grip", "tempo_control"},
		allowed:     []string{"rows", "lower body strength"},
		fallbacks: map[Bucket]tagGroups{
			BucketPress:   {{"upper_pull"}, {"lower_body"}, {"core"}},
			BucketDefault: {{"lower_body"}, {"core"}},
		},
	},
	"ribs": {
		weight:    1.1,
		exclude:   keywords{mechImpact: {"med ball slam", "slam", "sparring"}},
		flag:      keywords{mechDefault: {"rotational", "woodchop", "russian twist", "twist", "sit up", "crunch", "bag work"}},
		flagTags:  map[string]mechanism{"rotation_high": mechDefault},
		mods:      []string{"limit_rotation", "reduce_impact", "breathing_control"},
		allowed:   []string{"lower body strength", "steady aerobic work"},
		fallbacks: trunkFallbacks,
	},
	"abdomen": {
		weight:    1.0,
		flag:      keywords{mechDefault: {"sit up", "crunch", "leg raise", "hollow", "rotational", "twist", "v up"}},
		flagTags:  map[string]mechanism{"rotation_high": mechDefault},
		mods:      []string{"limit_rotation", "breathing_control"},
		allowed:   []string{"lower body strength", "steady aerobic work"},
		fallbacks: trunkFallbacks,
	},
	"jaw": {
		weight:    1.0,
		flag:      keywords{mechDefault: {"sparring", "partner drill", "clinch"}},
		mods:      []string{"no_contact", "reduce_intensity"},
		allowed:   []string{"non-contact conditioning", "strength work"},
		fallbacks: trunkFallbacks,
	},
	"head": {
		weight:    1.2,
		exclude:   keywords{mechImpact: {"sparring", "hard sparring"}, mechNeck: {"headstand", "neck bridge"}},
		flag:      keywords{mechDefault: {"handstand", "inverted"}},
		mods:      []string{"no_contact", "reduce_intensity"},
		allowed:   []string{"low intensity aerobic work", "mobility"},
		fallbacks: trunkFallbacks,
	},
	RegionUnspecified: {
		weight:  1.0,
		mods:    []string{"reduce_load", "pain_free_range"},
		allowed: []string{"pain-free movements"},
	},
}

func profileFor(r Region) profile {
	if p, ok := profiles[r]; ok {
		return p
	}
	return profiles[RegionUnspecified]
}

// Regions lists the canonical regions in a stable order.
func Regions() []Region {
	out := make([]Region, 0, len(profiles))
	for r := range profiles {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Guidance is the coach-facing summary of a region.
type Guidance struct {
	Allowed []string
	Avoid   []string
	Mods    []string
}

// GuidanceFor summarises what to keep and what to avoid for region.
func GuidanceFor(r Region) Guidance {
	p := profileFor(r)
	var avoid []string
	for _, mech := range sortedMechanisms(p.exclude) {
		avoid = append(avoid, p.exclude[mech]...)
	}
	return Guidance{
		Allowed: slices.Clone(p.allowed),
		Avoid:   avoid,
		Mods:    slices.Clone(p.mods),
	}
}

func sortedMechanisms(k keywords) []mechanism {
	out := make([]mechanism, 0, len(k))
	for m := range k {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

func (p profile) fallbackGroups(b Bucket) tagGroups {
	if groups, ok := p.fallbacks[b]; ok {
		return groups
	}
	if groups, ok := p.fallbacks[BucketDefault]; ok {
		return groups
	}
	return defaultFallbacks
}
