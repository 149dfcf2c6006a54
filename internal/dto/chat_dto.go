package dto

// AskRequest is the /preguntar body. UserId is optional; anonymous
// callers share the default session.
type AskRequest struct {
	Mensaje string `json:"mensaje" validate:"required"`
	UserId  string `json:"userId"`
}

type AskResponse struct {
	Respuesta string `json:"respuesta"`
}
