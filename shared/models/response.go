package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse используется для простых подтверждений (удаление, смена пароля).
type MessageResponse struct {
	Message string `json:"message"`
}
