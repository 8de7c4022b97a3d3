package service

// Общие сообщения валидации
const (
	MsgFieldRequired = "This field is required."
	MsgFieldBlank    = "This field may not be blank."
	MsgInvalidQuizID = "Invalid quiz ID"
)
