package models

// Stage labels a phase of a tournament's match sequence.
type Stage string

const (
	StageGroup        Stage = "group-stage"
	StageLeague       Stage = "league"
	StageQuarterFinal Stage = "quarter-final"
	StageSemiFinal    Stage = "semi-final"
	StageFinal        Stage = "final"
)

// IsGroupPlay reports whether the stage belongs to group or league play,
// as opposed to the knockout bracket.
func (s Stage) IsGroupPlay() bool {
	return s == StageGroup || s == StageLeague
}

type KnockoutFormat string

const KnockoutFormatStandard KnockoutFormat = "standard"

// Defaults applied when a tournament is created without explicit stage
// configuration.
const DefaultGroupCount = 2

// StageConfig describes how a tournament progresses through its stages.
// It is resolved once, at construction, and never re-derived afterwards.
type StageConfig struct {
	GroupCount     int            `json:"group_count"`
	KnockoutStage  Stage          `json:"knockout_stage"`
	KnockoutFormat KnockoutFormat `json:"knockout_format"`
	HasGroupStage  bool           `json:"has_group_stage"`
	FinalStage     Stage          `json:"final_stage"`
}

// ResolveStageConfig fills unset fields with the documented defaults:
// groupCount=2, knockoutStage=semi-final, knockoutFormat=standard,
// hasGroupStage=true.
func ResolveStageConfig(groupCount *int, knockoutStage *Stage, format *KnockoutFormat, hasGroupStage *bool) StageConfig {
	cfg := StageConfig{
		GroupCount:     DefaultGroupCount,
		KnockoutStage:  StageSemiFinal,
		KnockoutFormat: KnockoutFormatStandard,
		HasGroupStage:  true,
		FinalStage:     StageFinal,
	}
	if groupCount != nil && *groupCount > 0 {
		cfg.GroupCount = *groupCount
	}
	if knockoutStage != nil && *knockoutStage != "" {
		cfg.KnockoutStage = *knockoutStage
	}
	if format != nil && *format != "" {
		cfg.KnockoutFormat = *format
	}
	if hasGroupStage != nil {
		cfg.HasGroupStage = *hasGroupStage
	}
	return cfg
}

// IsTerminal reports whether the stage is the tournament's designated
// Final, the match that decides the overall winner.
func (c StageConfig) IsTerminal(s Stage) bool {
	return s == c.FinalStage
}
