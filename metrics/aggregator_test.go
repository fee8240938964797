package metrics

import (
	"math/rand"
	"reflect"
	"testing"

	"copilot-usage-dashboard/model"
)

// completionDay builds a snapshot with a single editor/model/language entry.
func completionDay(date string, editorEngaged, suggestions, acceptances, linesAccepted int) *model.DailySnapshot {
	return &model.DailySnapshot{
		Date:              date,
		TotalActiveUsers:  20,
		TotalEngagedUsers: editorEngaged,
		IDECodeCompletions: &model.IDECodeCompletions{
			Editors: []model.EditorBreakdown{
				{
					Name:              "VS Code",
					TotalEngagedUsers: editorEngaged,
					Models: []model.ModelBreakdown{
						{
							Name: "default",
							Languages: []model.ModelLanguageBreakdown{
								{
									Name:                   "Python",
									TotalCodeSuggestions:   suggestions,
									TotalCodeAcceptances:   acceptances,
									TotalCodeLinesAccepted: linesAccepted,
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestProcess_TwoDayScenario(t *testing.T) {
	snapshots := []*model.DailySnapshot{
		completionDay("2026-08-01", 10, 100, 60, 300),
		completionDay("2026-08-02", 15, 100, 60, 300),
	}

	m := NewAggregator().Process(snapshots, model.SourceOrganization, "")

	if m.ProcessedDays != 2 {
		t.Errorf("ProcessedDays = %d, want 2", m.ProcessedDays)
	}
	if m.TotalSuggestions != 200 {
		t.Errorf("TotalSuggestions = %d, want 200", m.TotalSuggestions)
	}
	if m.AcceptedSuggestions != 120 {
		t.Errorf("AcceptedSuggestions = %d, want 120", m.AcceptedSuggestions)
	}
	if m.AcceptedLines != 600 {
		t.Errorf("AcceptedLines = %d, want 600", m.AcceptedLines)
	}
	if got := m.AcceptanceRate(); got != 60 {
		t.Errorf("AcceptanceRate() = %v, want 60", got)
	}

	if len(m.Editors) != 1 {
		t.Fatalf("len(Editors) = %d, want 1", len(m.Editors))
	}
	// Max across days, not 10+15=25.
	if m.Editors[0].TotalEngagedUsers != 15 {
		t.Errorf("editor TotalEngagedUsers = %d, want 15", m.Editors[0].TotalEngagedUsers)
	}

	if len(m.Languages) != 1 || m.Languages[0].Name != "Python" {
		t.Fatalf("Languages = %+v, want single Python entry", m.Languages)
	}
	if m.Languages[0].TotalAcceptances != 120 {
		t.Errorf("language TotalAcceptances = %d, want 120", m.Languages[0].TotalAcceptances)
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []*model.DailySnapshot
	}{
		{"Nil slice", nil},
		{"Empty slice", []*model.DailySnapshot{}},
		{"All nil entries", []*model.DailySnapshot{nil, nil, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAggregator().Process(tt.snapshots, model.SourceOrganization, "")

			if m.ProcessedDays != 0 {
				t.Errorf("ProcessedDays = %d, want 0", m.ProcessedDays)
			}
			if m.ActiveUsers != 0 || m.EngagedUsers != 0 {
				t.Errorf("user counts = %d/%d, want 0/0", m.ActiveUsers, m.EngagedUsers)
			}
			if m.TotalSuggestions != 0 || m.AcceptedSuggestions != 0 || m.AcceptedLines != 0 {
				t.Error("event totals should all be zero")
			}
			if m.AcceptanceRate() != 0 {
				t.Errorf("AcceptanceRate() = %v, want 0", m.AcceptanceRate())
			}
			if m.EngagementRate() != 0 {
				t.Errorf("EngagementRate() = %v, want 0", m.EngagementRate())
			}
			if len(m.RawData) != len(tt.snapshots) {
				t.Errorf("RawData length = %d, want %d", len(m.RawData), len(tt.snapshots))
			}
		})
	}
}

func TestProcess_NilEntriesSkipped(t *testing.T) {
	snapshots := []*model.DailySnapshot{
		nil,
		completionDay("2026-08-01", 10, 100, 60, 300),
		nil,
	}

	m := NewAggregator().Process(snapshots, model.SourceOrganization, "")

	if m.ProcessedDays != 1 {
		t.Errorf("ProcessedDays = %d, want 1 (nil entries must not count)", m.ProcessedDays)
	}
	if m.Metadata.SnapshotCount != 3 {
		t.Errorf("Metadata.SnapshotCount = %d, want 3", m.Metadata.SnapshotCount)
	}
}

func TestProcess_UserCountsAreDailyAverages(t *testing.T) {
	snapshots := []*model.DailySnapshot{
		{Date: "2026-08-01", TotalActiveUsers: 10, TotalEngagedUsers: 8},
		{Date: "2026-08-02", TotalActiveUsers: 20, TotalEngagedUsers: 12},
		{Date: "2026-08-03", TotalActiveUsers: 15, TotalEngagedUsers: 10},
	}

	m := NewAggregator().Process(snapshots, model.SourceOrganization, "")

	if m.ActiveUsers != 15 {
		t.Errorf("ActiveUsers = %d, want 15 (average, not sum)", m.ActiveUsers)
	}
	if m.EngagedUsers != 10 {
		t.Errorf("EngagedUsers = %d, want 10 (average, not sum)", m.EngagedUsers)
	}
	if m.AvgDailyActiveUsers() != 15 {
		t.Errorf("AvgDailyActiveUsers() = %d, want 15", m.AvgDailyActiveUsers())
	}
}

func TestProcess_TopLevelTotalsIgnored(t *testing.T) {
	// The optional per-day total on the completions block must not feed the
	// global sums; only the nested model/language entries do.
	snap := completionDay("2026-08-01", 10, 100, 60, 300)
	snap.IDECodeCompletions.TotalSuggestions = 9999

	m := NewAggregator().Process([]*model.DailySnapshot{snap}, model.SourceOrganization, "")

	if m.TotalSuggestions != 100 {
		t.Errorf("TotalSuggestions = %d, want 100 (top-level total must be ignored)", m.TotalSuggestions)
	}
}

func TestProcess_LanguageEngagedUsersMaxPerPeriod(t *testing.T) {
	day := func(date string, engaged int) *model.DailySnapshot {
		return &model.DailySnapshot{
			Date: date,
			IDECodeCompletions: &model.IDECodeCompletions{
				Languages: []model.LanguageBreakdown{
					{Name: "Go", TotalEngagedUsers: engaged},
				},
			},
		}
	}

	m := NewAggregator().Process([]*model.DailySnapshot{
		day("2026-08-01", 4),
		day("2026-08-02", 9),
		day("2026-08-03", 6),
	}, model.SourceOrganization, "")

	if len(m.Languages) != 1 {
		t.Fatalf("len(Languages) = %d, want 1", len(m.Languages))
	}
	if m.Languages[0].TotalEngagedUsers != 9 {
		t.Errorf("language TotalEngagedUsers = %d, want 9 (max, not 19)", m.Languages[0].TotalEngagedUsers)
	}
}

func TestProcess_MultipleEditorsAndLanguages(t *testing.T) {
	snap := &model.DailySnapshot{
		Date: "2026-08-01",
		IDECodeCompletions: &model.IDECodeCompletions{
			Editors: []model.EditorBreakdown{
				{
					Name:              "VS Code",
					TotalEngagedUsers: 12,
					Models: []model.ModelBreakdown{
						{
							Name: "default",
							Languages: []model.ModelLanguageBreakdown{
								{Name: "Go", TotalCodeSuggestions: 50, TotalCodeAcceptances: 30, TotalCodeLinesAccepted: 90},
								{Name: "Python", TotalCodeSuggestions: 40, TotalCodeAcceptances: 10, TotalCodeLinesAccepted: 25},
							},
						},
					},
				},
				{
					Name:              "JetBrains",
					TotalEngagedUsers: 5,
					Models: []model.ModelBreakdown{
						{
							Name: "default",
							Languages: []model.ModelLanguageBreakdown{
								{Name: "Go", TotalCodeSuggestions: 20, TotalCodeAcceptances: 15, TotalCodeLinesAccepted: 40},
							},
						},
					},
				},
			},
		},
	}

	m := NewAggregator().Process([]*model.DailySnapshot{snap}, model.SourceTeam, "platform-core")

	if m.DataSource != model.SourceTeam || m.TeamSlug != "platform-core" {
		t.Errorf("DataSource/TeamSlug = %s/%s, want team/platform-core", m.DataSource, m.TeamSlug)
	}
	if m.TotalSuggestions != 110 || m.AcceptedSuggestions != 55 || m.AcceptedLines != 155 {
		t.Errorf("global totals = %d/%d/%d, want 110/55/155",
			m.TotalSuggestions, m.AcceptedSuggestions, m.AcceptedLines)
	}

	// Insertion order: first-seen order.
	if len(m.Languages) != 2 || m.Languages[0].Name != "Go" || m.Languages[1].Name != "Python" {
		t.Fatalf("Languages order = %+v, want [Go Python]", m.Languages)
	}
	if m.Languages[0].TotalSuggestions != 70 {
		t.Errorf("Go TotalSuggestions = %d, want 70 (both editors)", m.Languages[0].TotalSuggestions)
	}
	if len(m.Editors) != 2 || m.Editors[0].Name != "VS Code" || m.Editors[1].Name != "JetBrains" {
		t.Fatalf("Editors order = %+v, want [VS Code JetBrains]", m.Editors)
	}
	if m.Editors[1].TotalAcceptances != 15 {
		t.Errorf("JetBrains TotalAcceptances = %d, want 15", m.Editors[1].TotalAcceptances)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	snapshots := []*model.DailySnapshot{
		completionDay("2026-08-01", 10, 100, 60, 300),
		completionDay("2026-08-02", 15, 80, 20, 50),
	}

	agg := NewAggregator()
	first := agg.Process(snapshots, model.SourceOrganization, "")
	second := agg.Process(snapshots, model.SourceOrganization, "")

	// ProcessedAt differs between runs; compare everything else.
	first.Metadata.ProcessedAt = second.Metadata.ProcessedAt
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregating twice differed:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestProcess_OrderInvariant(t *testing.T) {
	snapshots := []*model.DailySnapshot{
		completionDay("2026-08-01", 10, 100, 60, 300),
		completionDay("2026-08-02", 15, 80, 20, 50),
		completionDay("2026-08-03", 7, 10, 5, 12),
		nil,
	}

	base := NewAggregator().Process(snapshots, model.SourceOrganization, "")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := make([]*model.DailySnapshot, len(snapshots))
		copy(shuffled, snapshots)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		m := NewAggregator().Process(shuffled, model.SourceOrganization, "")
		if m.TotalSuggestions != base.TotalSuggestions ||
			m.AcceptedSuggestions != base.AcceptedSuggestions ||
			m.AcceptedLines != base.AcceptedLines ||
			m.ProcessedDays != base.ProcessedDays ||
			m.ActiveUsers != base.ActiveUsers {
			t.Errorf("shuffle %d changed totals: got %+v, want %+v", i, m, base)
		}
		if m.Editors[0].TotalEngagedUsers != base.Editors[0].TotalEngagedUsers {
			t.Errorf("shuffle %d changed engaged-user max", i)
		}
	}
}

func TestProcess_AcceptedNeverExceedsTotal(t *testing.T) {
	snapshots := []*model.DailySnapshot{
		completionDay("2026-08-01", 10, 100, 60, 300),
		completionDay("2026-08-02", 15, 80, 80, 50),
		completionDay("2026-08-03", 7, 10, 0, 0),
	}

	m := NewAggregator().Process(snapshots, model.SourceOrganization, "")
	if m.AcceptedSuggestions > m.TotalSuggestions {
		t.Errorf("AcceptedSuggestions %d > TotalSuggestions %d", m.AcceptedSuggestions, m.TotalSuggestions)
	}
}
