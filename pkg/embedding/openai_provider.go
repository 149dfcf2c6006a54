package embedding

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements EmbeddingProvider on the OpenAI embeddings
// endpoint (text-embedding-3-small by default, 1536 dimensions).
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	dimension int
}

func NewOpenAIProvider(apiKey, model string, dimension int) EmbeddingProvider {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dimension <= 0 {
		dimension = 1536
	}
	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		model:     model,
		dimension: dimension,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	rsp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embedding response from OpenAI")
	}

	return rsp.Data[0].Embedding, nil
}

func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}
