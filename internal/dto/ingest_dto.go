package dto

// UploadRequest is the /subir body. All three fields are required;
// validation failures must leave the namespace registry untouched.
type UploadRequest struct {
	Id        string `json:"id" validate:"required"`
	Texto     string `json:"texto" validate:"required"`
	Namespace string `json:"namespace" validate:"required"`
}

type UploadResponse struct {
	Ok      bool   `json:"ok"`
	Mensaje string `json:"mensaje"`
}
