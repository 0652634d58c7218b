package services

// Service errors
var (
	ErrRoundAlreadyStarted    = &ServiceError{Message: "round has already started"}
	ErrRoundNotDrawn          = &ServiceError{Message: "round does not have a released draw"}
	ErrRoundNotInProgress     = &ServiceError{Message: "round is not in progress"}
	ErrPriorRoundsIncomplete  = &ServiceError{Message: "earlier rounds must be completed first"}
	ErrBallotsOutstanding     = &ServiceError{Message: "debates are still missing confirmed ballots"}
	ErrNoCurrentDebate        = &ServiceError{Message: "no debate is currently assigned to this ballot key"}
	ErrBallotAlreadyConfirmed = &ServiceError{Message: "latest ballot is already confirmed"}
	ErrNoBallotToConfirm      = &ServiceError{Message: "no ballot has been submitted for this debate"}
	ErrWinnerRequired         = &ServiceError{Message: "ballot must mark exactly one winning team"}
	ErrScoresIncomplete       = &ServiceError{Message: "ballot must score every team in the debate exactly once"}
	ErrTeamNotInDebate        = &ServiceError{Message: "ballot scores a team that is not in the debate"}
	ErrSpeakerNotInDebate     = &ServiceError{Message: "ballot scores a speaker that is not seated in the debate"}
	ErrScoreOutOfRange        = &ServiceError{Message: "speaker scores must be between 0 and 100"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
