package harness

// TraceEvent is one applied step, rendered with names.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	As      string `json:"as"`
	Address string `json:"address,omitempty"`
	Outcome string `json:"outcome"`
	Effect  string `json:"effect"`
	Routed  bool   `json:"routed,omitempty"`
}

// RecordView is a stored record rendered with names.
type RecordView struct {
	Address string         `json:"address"`
	Kind    string         `json:"kind"`
	Fields  map[string]any `json:"record"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step outcome and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains every step in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State holds the final records in creation order.
	State []RecordView `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State:  []RecordView{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an applied step.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
