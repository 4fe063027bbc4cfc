package constants

type TurnStatus string

const (
	TurnStatusAnswered TurnStatus = "answered"
	TurnStatusNoData   TurnStatus = "no_data"
	TurnStatusError    TurnStatus = "error"
)
