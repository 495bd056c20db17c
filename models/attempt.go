package models

// Cost is the relative cost of running an acquisition backend.
type Cost int

const (
	CostFree Cost = iota
	CostLow
	CostHigh
)

func (c Cost) String() string {
	switch c {
	case CostFree:
		return "free"
	case CostLow:
		return "low"
	case CostHigh:
		return "high"
	default:
		return "unknown"
	}
}

// BackendCapability describes an acquisition backend. It is used for logging
// and plan inspection only; the fallback order never branches on it.
type BackendCapability struct {
	Name                    string `json:"name"`
	RequiresExternalService bool   `json:"requires_external_service"`
	SupportsJSExecution     bool   `json:"supports_js_execution"`
	RelativeCost            Cost   `json:"relative_cost"`
}

// AttemptKind tags the outcome of a single backend attempt.
type AttemptKind int

const (
	// AttemptSuccess means the backend returned HTML that was extracted.
	AttemptSuccess AttemptKind = iota
	// AttemptSoftFailure lets the dispatcher move on to the next backend.
	AttemptSoftFailure
	// AttemptHardFailure aborts the whole acquisition.
	AttemptHardFailure
)

func (k AttemptKind) String() string {
	switch k {
	case AttemptSuccess:
		return "success"
	case AttemptSoftFailure:
		return "soft_failure"
	case AttemptHardFailure:
		return "hard_failure"
	default:
		return "unknown"
	}
}

// Attempt is the result of running one backend.
// Content is set only for AttemptSuccess; Reason only for failures.
type Attempt struct {
	Kind    AttemptKind
	Engine  string
	Content *PageContent
	Reason  error
}

// Succeeded builds a success attempt.
func Succeeded(engine string, content *PageContent) Attempt {
	return Attempt{Kind: AttemptSuccess, Engine: engine, Content: content}
}

// SoftFailed builds a soft failure attempt.
func SoftFailed(engine string, reason error) Attempt {
	return Attempt{Kind: AttemptSoftFailure, Engine: engine, Reason: reason}
}

// HardFailed builds a hard failure attempt.
func HardFailed(engine string, reason error) Attempt {
	return Attempt{Kind: AttemptHardFailure, Engine: engine, Reason: reason}
}
