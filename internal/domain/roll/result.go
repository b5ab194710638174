package roll

// EntrySource tells where a breakdown entry came from
type EntrySource string

const (
	SourceAction   EntrySource = "action"
	SourceImplicit EntrySource = "implicit"
	SourceCritical EntrySource = "critical"
	SourceBuff     EntrySource = "buff"
)

// BreakdownEntry is one human-readable contribution to a roll total
type BreakdownEntry struct {
	Label  string      `json:"label"`
	Value  int         `json:"value"`
	Source EntrySource `json:"source"`
}

// SkillCheckResult is the single d20 test of an action
type SkillCheckResult struct {
	Skill      string `json:"skill"`
	Roll       int    `json:"roll"`
	Bonus      int    `json:"bonus"`
	Total      int    `json:"total"`
	Threshold  int    `json:"threshold"`
	IsCrit     bool   `json:"is_crit"`
	IsCritFail bool   `json:"is_crit_fail"`
}

// ResourceCost is an amount of HP and MP
type ResourceCost struct {
	HP int `json:"hp"`
	MP int `json:"mp"`
}

// ResourceDelta is what executing an action does to HP and MP.
// Net values are Recovered - Spent.
type ResourceDelta struct {
	Spent     ResourceCost `json:"spent"`
	Recovered ResourceCost `json:"recovered"`
}

// HP returns the net HP change
func (d ResourceDelta) HP() int {
	return d.Recovered.HP - d.Spent.HP
}

// MP returns the net MP change
func (d ResourceDelta) MP() int {
	return d.Recovered.MP - d.Spent.MP
}

// IsZero reports whether nothing was spent or recovered
func (d ResourceDelta) IsZero() bool {
	return d == ResourceDelta{}
}

// Result is a fresh evaluation of one action
type Result struct {
	Action        string            `json:"action"`
	Total         int               `json:"total"`
	Breakdown     []BreakdownEntry  `json:"breakdown"`
	SkillCheck    *SkillCheckResult `json:"skill_check,omitempty"`
	CriticalNotes []string          `json:"critical_notes,omitempty"`
	Buffs         []string          `json:"buffs,omitempty"`
	ResourceDelta ResourceDelta     `json:"resource_delta"`
	Warnings      []string          `json:"warnings,omitempty"`
}

func (r *Result) add(entry BreakdownEntry) {
	r.Breakdown = append(r.Breakdown, entry)
}

func (r *Result) warn(w *ParseWarning) {
	if w != nil {
		r.Warnings = append(r.Warnings, w.Error())
	}
}

// IsCritical reports whether the skill check was a critical success
func (r *Result) IsCritical() bool {
	return r.SkillCheck != nil && r.SkillCheck.IsCrit
}

// IsCriticalFailure reports whether the skill check rolled a natural 1
func (r *Result) IsCriticalFailure() bool {
	return r.SkillCheck != nil && r.SkillCheck.IsCritFail
}
