package ingest

import (
	"github.com/pravinyadav/No4jConnect/engine/domain"
	"github.com/pravinyadav/No4jConnect/pkg/resumenlp"
)

// Extraction is a document together with the candidate record pulled out
// of it and the identity it will be stored under.
type Extraction struct {
	Doc         domain.Document
	Record      resumenlp.CandidateRecord
	CandidateID string
}

// DLQMessage is published to the dead letter subject after retries are
// exhausted.
type DLQMessage struct {
	Doc     domain.Document `json:"doc"`
	Error   string          `json:"error"`
	Retries int             `json:"retries"`
}
