package dto

type IndexDocument struct {
	Id       string                 `json:"id" validate:"required"`
	Title    string                 `json:"title" validate:"required"`
	Abstract string                 `json:"abstract"`
	Body     string                 `json:"body" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type IndexRequest struct {
	Documents []IndexDocument `json:"documents" validate:"required,min=1,dive"`
	Namespace string          `json:"namespace"`
}

type IndexResultItem struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type IndexResponse struct {
	Success bool              `json:"success"`
	Results []IndexResultItem `json:"results"`
}

// PublishIndexDocumentMessage is the payload handed to the async indexing
// consumer after the document row is persisted.
type PublishIndexDocumentMessage struct {
	DocumentId string `json:"documentId"`
	Namespace  string `json:"namespace"`
}
