package dto

// ErrorResponse cuerpo de error HTTP (fallas de transporte o de entrada;
// los rechazos del protocolo viajan en las respuestas propias de cada método).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
