package models

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeRejected
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	default:
		return "transport_error"
	}
}

// Outcome is the translated answer of the verification or voting backend.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Err     error
}

func Success(message string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Message: message}
}

func Rejected(message string) Outcome {
	return Outcome{Kind: OutcomeRejected, Message: message}
}

func TransportError(message string, err error) Outcome {
	return Outcome{Kind: OutcomeTransportError, Message: message, Err: err}
}

func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// BackendResponse is the JSON body returned by both /verify and /vote.
type BackendResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const StatusSuccess = "success"
