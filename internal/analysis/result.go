package analysis

// Legibility holds the quality signals of stage two. Scores are 0-100.
type Legibility struct {
	Score      float64   `json:"score"`
	Sharpness  float64   `json:"sharpness"`
	Contrast   float64   `json:"contrast"`
	Brightness float64   `json:"brightness"`
	PageScores []float64 `json:"page_scores,omitempty"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// Extracted is the structured metadata pulled out of the document text.
type Extracted struct {
	Dates       []string `json:"dates,omitempty"`
	Names       []string `json:"names,omitempty"`
	CURPs       []string `json:"curps,omitempty"`
	RFCs        []string `json:"rfcs,omitempty"`
	Accounts    []string `json:"accounts,omitempty"`
	Amounts     []string `json:"amounts,omitempty"`
	DeedNumbers []string `json:"deed_numbers,omitempty"`
}

// Result merges all stage outputs for one analyzed document.
type Result struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`

	Legibility Legibility `json:"legibility"`

	Text       string `json:"-"`
	TextSource string `json:"text_source,omitempty"`
	TextLength int    `json:"text_length"`

	Extracted Extracted `json:"extracted"`

	Confidence       float64  `json:"confidence"`
	KeywordsFound    int      `json:"keywords_found"`
	KeywordsExpected int      `json:"keywords_expected"`
	Issues           []string `json:"issues,omitempty"`

	// StageErrors records degraded stages; they never abort the pipeline.
	StageErrors []string `json:"stage_errors,omitempty"`

	AutoValidate bool `json:"auto_validate"`
}
