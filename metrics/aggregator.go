package metrics

import (
	"math"
	"time"

	"copilot-usage-dashboard/model"
)

// metadataSource stamps where aggregated data was fetched from.
const metadataSource = "github_api"

// Aggregator folds daily usage snapshots into a single UsageMetrics. It is
// the one canonical aggregation routine; every report view goes through it.
// Stateless and safe for concurrent use.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// summaryAccumulator tracks one language or editor while folding days.
// engagedUsers follows the max-per-period policy: the running maximum seen
// on any single day, never a sum, so a user engaging on several days does
// not inflate the adoption count.
type summaryAccumulator struct {
	engagedUsers   int
	suggestions    int
	acceptances    int
	linesSuggested int
	linesAccepted  int
}

type accumulatorSet struct {
	byName map[string]*summaryAccumulator
	order  []string // insertion order = first-seen order
}

func newAccumulatorSet() *accumulatorSet {
	return &accumulatorSet{byName: make(map[string]*summaryAccumulator)}
}

func (s *accumulatorSet) get(name string) *summaryAccumulator {
	acc, ok := s.byName[name]
	if !ok {
		acc = &summaryAccumulator{}
		s.byName[name] = acc
		s.order = append(s.order, name)
	}
	return acc
}

// Process reduces snapshots into a UsageMetrics tagged with the given data
// source ("organization" or "team") and optional team slug. Nil entries are
// skipped without counting toward ProcessedDays. An empty or all-nil input
// yields a zeroed aggregate with RawData retained; Process never fails.
//
// Global suggestion/acceptance/line totals are populated exclusively from
// the nested editors/models/languages walk. Top-level per-day totals on the
// snapshot, when present, are ignored for the global sums.
func (a *Aggregator) Process(snapshots []*model.DailySnapshot, dataSource, teamSlug string) *model.UsageMetrics {
	m := &model.UsageMetrics{
		DataSource: dataSource,
		TeamSlug:   teamSlug,
		RawData:    snapshots,
		Metadata: model.Metadata{
			Source:        metadataSource,
			ProcessedAt:   time.Now().UTC(),
			SnapshotCount: len(snapshots),
		},
	}

	languages := newAccumulatorSet()
	editors := newAccumulatorSet()

	activeSum := 0
	engagedSum := 0

	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		m.ProcessedDays++
		activeSum += snap.TotalActiveUsers
		engagedSum += snap.TotalEngagedUsers

		completions := snap.IDECodeCompletions
		if completions == nil {
			continue
		}

		// Per-language engaged users live at the completions level.
		for _, lang := range completions.Languages {
			acc := languages.get(lang.Name)
			if lang.TotalEngagedUsers > acc.engagedUsers {
				acc.engagedUsers = lang.TotalEngagedUsers
			}
		}

		for _, editor := range completions.Editors {
			editorAcc := editors.get(editor.Name)
			if editor.TotalEngagedUsers > editorAcc.engagedUsers {
				editorAcc.engagedUsers = editor.TotalEngagedUsers
			}

			for _, mdl := range editor.Models {
				for _, lang := range mdl.Languages {
					langAcc := languages.get(lang.Name)
					if lang.TotalEngagedUsers > langAcc.engagedUsers {
						langAcc.engagedUsers = lang.TotalEngagedUsers
					}

					// Each per-model-per-language entry feeds the editor
					// aggregate, the language aggregate, and the global
					// totals in one step.
					editorAcc.suggestions += lang.TotalCodeSuggestions
					editorAcc.acceptances += lang.TotalCodeAcceptances
					editorAcc.linesSuggested += lang.TotalCodeLinesSuggested
					editorAcc.linesAccepted += lang.TotalCodeLinesAccepted

					langAcc.suggestions += lang.TotalCodeSuggestions
					langAcc.acceptances += lang.TotalCodeAcceptances
					langAcc.linesSuggested += lang.TotalCodeLinesSuggested
					langAcc.linesAccepted += lang.TotalCodeLinesAccepted

					m.TotalSuggestions += lang.TotalCodeSuggestions
					m.AcceptedSuggestions += lang.TotalCodeAcceptances
					m.AcceptedLines += lang.TotalCodeLinesAccepted
				}
			}
		}
	}

	// User counts are divided once at the end, not per day, because days
	// within one report can have unevenly complete data.
	if m.ProcessedDays > 0 {
		m.ActiveUsers = int(math.Round(float64(activeSum) / float64(m.ProcessedDays)))
		m.EngagedUsers = int(math.Round(float64(engagedSum) / float64(m.ProcessedDays)))
	}

	m.Languages = make([]model.LanguageSummary, 0, len(languages.order))
	for _, name := range languages.order {
		acc := languages.byName[name]
		m.Languages = append(m.Languages, model.LanguageSummary{
			Name:                name,
			TotalEngagedUsers:   acc.engagedUsers,
			TotalSuggestions:    acc.suggestions,
			TotalAcceptances:    acc.acceptances,
			TotalLinesSuggested: acc.linesSuggested,
			TotalLinesAccepted:  acc.linesAccepted,
		})
	}

	m.Editors = make([]model.EditorSummary, 0, len(editors.order))
	for _, name := range editors.order {
		acc := editors.byName[name]
		m.Editors = append(m.Editors, model.EditorSummary{
			Name:                name,
			TotalEngagedUsers:   acc.engagedUsers,
			TotalSuggestions:    acc.suggestions,
			TotalAcceptances:    acc.acceptances,
			TotalLinesSuggested: acc.linesSuggested,
			TotalLinesAccepted:  acc.linesAccepted,
		})
	}

	return m
}
