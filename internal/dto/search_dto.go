package dto

import "catalog-chat-be/pkg/websearch"

type SearchRequest struct {
	Consulta string `json:"consulta" validate:"required"`
}

type SearchResponse struct {
	Resultado *websearch.Result `json:"resultado"`
}
