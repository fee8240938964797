package model

// DailySnapshot is one calendar day of Copilot usage as returned by the
// GitHub metrics API. Every field is optional in the payload; absent fields
// decode to their zero value and contribute nothing to aggregation.
type DailySnapshot struct {
	Date               string              `json:"date"`
	TotalActiveUsers   int                 `json:"total_active_users"`
	TotalEngagedUsers  int                 `json:"total_engaged_users"`
	IDECodeCompletions *IDECodeCompletions `json:"copilot_ide_code_completions,omitempty"`
	IDEChat            *IDEChat            `json:"copilot_ide_chat,omitempty"`
	DotcomChat         *DotcomChat         `json:"copilot_dotcom_chat,omitempty"`
	DotcomPullRequests *DotcomPullRequests `json:"copilot_dotcom_pull_requests,omitempty"`
}

// IDECodeCompletions nests per-language and per-editor completion counters.
// TotalSuggestions mirrors the optional top-level per-day total some payload
// variants carry; aggregation sources global totals from the nested
// editor/model/language entries only.
type IDECodeCompletions struct {
	TotalEngagedUsers int                 `json:"total_engaged_users"`
	TotalSuggestions  int                 `json:"total_code_suggestions,omitempty"`
	Languages         []LanguageBreakdown `json:"languages,omitempty"`
	Editors           []EditorBreakdown   `json:"editors,omitempty"`
}

// LanguageBreakdown is the completions-level per-language entry; engaged
// users per language live here, not under the model entries.
type LanguageBreakdown struct {
	Name              string `json:"name"`
	TotalEngagedUsers int    `json:"total_engaged_users"`
}

type EditorBreakdown struct {
	Name              string           `json:"name"`
	TotalEngagedUsers int              `json:"total_engaged_users"`
	Models            []ModelBreakdown `json:"models,omitempty"`
}

type ModelBreakdown struct {
	Name              string                   `json:"name"`
	IsCustomModel     bool                     `json:"is_custom_model"`
	TotalEngagedUsers int                      `json:"total_engaged_users"`
	Languages         []ModelLanguageBreakdown `json:"languages,omitempty"`
}

// ModelLanguageBreakdown carries the suggestion/acceptance/line counters
// that feed every aggregate sum.
type ModelLanguageBreakdown struct {
	Name                    string `json:"name"`
	TotalEngagedUsers       int    `json:"total_engaged_users"`
	TotalCodeSuggestions    int    `json:"total_code_suggestions"`
	TotalCodeAcceptances    int    `json:"total_code_acceptances"`
	TotalCodeLinesSuggested int    `json:"total_code_lines_suggested"`
	TotalCodeLinesAccepted  int    `json:"total_code_lines_accepted"`
}

type IDEChat struct {
	TotalEngagedUsers int               `json:"total_engaged_users"`
	Editors           []ChatEditorEntry `json:"editors,omitempty"`
}

type ChatEditorEntry struct {
	Name              string           `json:"name"`
	TotalEngagedUsers int              `json:"total_engaged_users"`
	Models            []ChatModelEntry `json:"models,omitempty"`
}

type ChatModelEntry struct {
	Name                     string `json:"name"`
	IsCustomModel            bool   `json:"is_custom_model"`
	TotalEngagedUsers        int    `json:"total_engaged_users"`
	TotalChats               int    `json:"total_chats"`
	TotalChatInsertionEvents int    `json:"total_chat_insertion_events"`
	TotalChatCopyEvents      int    `json:"total_chat_copy_events"`
}

type DotcomChat struct {
	TotalEngagedUsers int              `json:"total_engaged_users"`
	Models            []ChatModelEntry `json:"models,omitempty"`
}

type DotcomPullRequests struct {
	TotalEngagedUsers int               `json:"total_engaged_users"`
	Repositories      []RepositoryEntry `json:"repositories,omitempty"`
}

type RepositoryEntry struct {
	Name              string         `json:"name"`
	TotalEngagedUsers int            `json:"total_engaged_users"`
	Models            []PRModelEntry `json:"models,omitempty"`
}

type PRModelEntry struct {
	Name                    string `json:"name"`
	IsCustomModel           bool   `json:"is_custom_model"`
	TotalEngagedUsers       int    `json:"total_engaged_users"`
	TotalPRSummariesCreated int    `json:"total_pr_summaries_created"`
}
