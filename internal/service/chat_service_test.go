package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-chat-be/internal/constant"
	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/repository/memory"
	"catalog-chat-be/pkg/pinecone"
	"catalog-chat-be/pkg/store"
)

const testCatalogNs = "referencias y texto catalogo ct"

// --- fakes ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeEmbedder struct {
	calls  int
	inputs []string
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	f.inputs = append(f.inputs, text)
	return []float32{0.1, 0.2, 0.3, 0.4}, nil
}

func (f *fakeEmbedder) Dimension() int { return 4 }

type fakeIndex struct {
	calls   int
	queries []*pinecone.QueryRequest

	// refMatch is returned for filter queries; nil means reference miss.
	refMatch *pinecone.QueryMatch
	// simMatches are returned per namespace for similarity queries.
	simMatches map[string][]pinecone.QueryMatch
	upserts    []pinecone.Vector
}

func (f *fakeIndex) Query(ctx context.Context, req *pinecone.QueryRequest) (*pinecone.QueryResponse, error) {
	f.calls++
	f.queries = append(f.queries, req)
	if req.Filter != nil {
		if f.refMatch == nil {
			return &pinecone.QueryResponse{}, nil
		}
		return &pinecone.QueryResponse{Matches: []pinecone.QueryMatch{*f.refMatch}}, nil
	}
	return &pinecone.QueryResponse{Matches: f.simMatches[req.Namespace]}, nil
}

func (f *fakeIndex) Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error {
	f.upserts = append(f.upserts, vectors...)
	return nil
}

type fakeAssistant struct {
	threads int
	prompts []string
	reply   string
}

func (f *fakeAssistant) CreateThread(ctx context.Context) (string, error) {
	f.threads++
	return fmt.Sprintf("thread-%d", f.threads), nil
}

func (f *fakeAssistant) Ask(ctx context.Context, threadId, content string) (string, error) {
	f.prompts = append(f.prompts, content)
	return f.reply, nil
}

type fakeRegistry struct {
	names []string
}

func (f *fakeRegistry) List() []string { return f.names }

func (f *fakeRegistry) Register(name string) error {
	for _, n := range f.names {
		if n == name {
			return nil
		}
	}
	f.names = append(f.names, name)
	return nil
}

type chatFixture struct {
	embedder  *fakeEmbedder
	index     *fakeIndex
	assistant *fakeAssistant
	registry  *fakeRegistry
	sessions  *memory.SessionRepository
	service   IChatService
}

func newChatFixture(opts ChatOptions) *chatFixture {
	if opts.CatalogNamespace == "" {
		opts.CatalogNamespace = testCatalogNs
	}
	f := &chatFixture{
		embedder:  &fakeEmbedder{},
		index:     &fakeIndex{simMatches: map[string][]pinecone.QueryMatch{}},
		assistant: &fakeAssistant{reply: "respuesta generada"},
		registry:  &fakeRegistry{names: []string{testCatalogNs}},
		sessions:  memory.NewSessionRepository(),
	}
	f.service = NewChatService(f.embedder, f.index, f.assistant, f.registry, f.sessions, nopLogger{}, opts)
	return f
}

func catalogMatch() *pinecone.QueryMatch {
	return &pinecone.QueryMatch{
		Id:    "ref-12345678",
		Score: 1,
		Metadata: store.Metadata{
			"referencia":      float64(12345678),
			"descripcion":     "Fresa de ranurar MonsterMill",
			"precio_unitario": 142.5,
			"pg":              "H21",
			"categoria":       "Fresado",
		},
	}
}

func ask(t *testing.T, f *chatFixture, userId, mensaje string) string {
	t.Helper()
	res, err := f.service.Ask(context.Background(), &dto.AskRequest{Mensaje: mensaje, UserId: userId})
	require.NoError(t, err)
	return res.Respuesta
}

// --- tests ---

func TestGreetingShortCircuitsWithoutExternalCalls(t *testing.T) {
	f := newChatFixture(ChatOptions{})

	for _, saludo := range []string{"hola", " Buenas ", "HEY"} {
		reply := ask(t, f, "u1", saludo)
		assert.Equal(t, constant.ReplyGreeting, reply)
	}

	assert.Zero(t, f.embedder.calls, "greeting must not embed")
	assert.Zero(t, f.index.calls, "greeting must not query the index")
	assert.Zero(t, f.assistant.threads, "greeting must not open a thread")
	assert.Empty(t, f.assistant.prompts)
}

func TestUnknownReferenceReturnsFixedMissReply(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.refMatch = nil

	reply := ask(t, f, "u1", "precio de 99999999")
	assert.Equal(t, constant.ReplyReferenceNotFound, reply)
	assert.Empty(t, f.assistant.prompts, "a reference miss must not reach the assistant")
}

func TestReferenceLookupUsesZeroVectorAndEqualityFilter(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.refMatch = catalogMatch()

	ask(t, f, "u1", "precio de 12345678")

	require.Len(t, f.index.queries, 1)
	q := f.index.queries[0]
	assert.Equal(t, testCatalogNs, q.Namespace)
	assert.Equal(t, 1, q.TopK)
	assert.True(t, q.IncludeMetadata)
	assert.Equal(t, pinecone.ZeroVector(4), q.Vector)
	assert.Equal(t, pinecone.EqFilter("referencia", int64(12345678)), q.Filter)
}

func TestPriceQuestionAnswersVerbatimFromMetadata(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.refMatch = catalogMatch()

	reply := ask(t, f, "u1", "dime el precio de 12345678")
	assert.Equal(t, "💶 Precio unitario: 142.5 EUR", reply)
	assert.Empty(t, f.assistant.prompts, "structured answers skip generation")
}

func TestLastSeenCarriesAcrossRequests(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.refMatch = catalogMatch()

	first := ask(t, f, "u1", "referencia 12345678")
	assert.Equal(t, "🔢 Referencia: 12345678", first)

	// Second turn: no digit run, different recognized keyword.
	second := ask(t, f, "u1", "¿y la categoria?")
	assert.Equal(t, "🛠 Herramienta/Categoría: Fresado", second)
	assert.Empty(t, f.assistant.prompts)
}

func TestSessionsAreIsolatedBetweenUsers(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.refMatch = catalogMatch()

	ask(t, f, "user-a", "referencia 12345678")

	// user-b asks a follow-up question with no reference and no prior
	// session: it must NOT see user-a's record, so it falls through to
	// generation instead of answering from metadata.
	reply := ask(t, f, "user-b", "¿cual es el precio?")
	assert.Equal(t, "respuesta generada", reply)
	assert.NotContains(t, reply, "142.5")
}

func TestReferenceWithoutKeywordFallsThroughToGenerationWithContext(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.refMatch = catalogMatch()

	reply := ask(t, f, "u1", "que me dices de 12345678")
	assert.Equal(t, "respuesta generada", reply)

	require.Len(t, f.assistant.prompts, 1)
	prompt := f.assistant.prompts[0]
	assert.Contains(t, prompt, "Fresa de ranurar MonsterMill → Referencia: 12345678")
	assert.Contains(t, prompt, "Contexto disponible:")
	assert.Zero(t, f.embedder.calls, "the matched record is the context, no retrieval needed")
}

func TestRetrievalFiltersByRelevanceThreshold(t *testing.T) {
	f := newChatFixture(ChatOptions{HistoryWindow: 0})
	f.index.simMatches[testCatalogNs] = []pinecone.QueryMatch{
		{Id: "alto", Score: 0.9, Metadata: store.Metadata{"descripcion": "Broca de alta precision", "referencia": float64(11111111)}},
		{Id: "bajo", Score: 0.6, Metadata: store.Metadata{"descripcion": "Llave inglesa", "referencia": float64(22222222)}},
	}

	ask(t, f, "u1", "busco una broca de precision")

	require.Len(t, f.assistant.prompts, 1)
	prompt := f.assistant.prompts[0]
	assert.Contains(t, prompt, "Broca de alta precision")
	assert.NotContains(t, prompt, "Llave inglesa", "matches under the threshold must not reach the context")
}

func TestThresholdIsInclusive(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.simMatches[testCatalogNs] = []pinecone.QueryMatch{
		{Id: "justo", Score: 0.75, Metadata: store.Metadata{"descripcion": "Plaquita exacta", "referencia": float64(33333333)}},
	}

	ask(t, f, "u1", "plaquitas de torneado")

	require.Len(t, f.assistant.prompts, 1)
	assert.Contains(t, f.assistant.prompts[0], "Plaquita exacta")
}

func TestNoRelevantMatchesSendsRawMessage(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.simMatches[testCatalogNs] = []pinecone.QueryMatch{
		{Id: "bajo", Score: 0.2, Metadata: store.Metadata{"descripcion": "algo lejano"}},
	}

	reply := ask(t, f, "u1", "cuentame un chiste")
	assert.Equal(t, "respuesta generada", reply)

	require.Len(t, f.assistant.prompts, 1)
	assert.Equal(t, "cuentame un chiste", f.assistant.prompts[0], "unaugmented generation sends the message as-is")
}

func TestRetrievalUpdatesLastSeenToTopMatch(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.simMatches[testCatalogNs] = []pinecone.QueryMatch{
		{Id: "m1", Score: 0.92, Metadata: store.Metadata{"descripcion": "Fresa esferica", "precio_unitario": 99.9, "referencia": float64(44444444)}},
	}

	ask(t, f, "u1", "necesito una fresa esferica")

	// Follow-up answered from the retrieval result stored in the session.
	reply := ask(t, f, "u1", "precio?")
	assert.Equal(t, "💶 Precio unitario: 99.9 EUR", reply)
}

func TestMultiNamespaceQueriesEveryRegisteredNamespace(t *testing.T) {
	f := newChatFixture(ChatOptions{MultiNamespace: true})
	f.registry.names = []string{testCatalogNs, "notas tecnicas"}
	f.index.simMatches[testCatalogNs] = []pinecone.QueryMatch{
		{Id: "cat", Score: 0.8, Metadata: store.Metadata{"descripcion": "Del catalogo", "referencia": float64(55555555)}},
	}
	f.index.simMatches["notas tecnicas"] = []pinecone.QueryMatch{
		{Id: "nota-1", Score: 0.95, Metadata: store.Metadata{"texto": "Apunte sobre refrigerante"}},
	}

	ask(t, f, "u1", "como refrigero la herramienta de corte")

	queried := make([]string, 0, len(f.index.queries))
	for _, q := range f.index.queries {
		queried = append(queried, q.Namespace)
	}
	assert.ElementsMatch(t, []string{testCatalogNs, "notas tecnicas"}, queried)

	// Merged context is sorted by score: the note outranks the catalog hit.
	require.Len(t, f.assistant.prompts, 1)
	prompt := f.assistant.prompts[0]
	noteIdx := strings.Index(prompt, "Apunte sobre refrigerante")
	catIdx := strings.Index(prompt, "Del catalogo")
	require.GreaterOrEqual(t, noteIdx, 0)
	require.GreaterOrEqual(t, catIdx, 0)
	assert.Less(t, noteIdx, catIdx)
}

func TestHistoryWindowJoinsRecentMessages(t *testing.T) {
	f := newChatFixture(ChatOptions{HistoryWindow: 5})

	ask(t, f, "u1", "primera pregunta")
	ask(t, f, "u1", "segunda pregunta")

	require.Len(t, f.embedder.inputs, 2)
	assert.Equal(t, "primera pregunta", f.embedder.inputs[0])
	assert.Equal(t, "primera pregunta\nsegunda pregunta", f.embedder.inputs[1])
}

func TestThreadIsReusedWithinASession(t *testing.T) {
	f := newChatFixture(ChatOptions{})

	ask(t, f, "u1", "primera pregunta")
	ask(t, f, "u1", "segunda pregunta")
	assert.Equal(t, 1, f.assistant.threads, "one thread per session")

	ask(t, f, "u2", "otra conversacion")
	assert.Equal(t, 2, f.assistant.threads, "a different user gets a different thread")
}

func TestDescriptionCueFlipsContextLineOrder(t *testing.T) {
	f := newChatFixture(ChatOptions{})
	f.index.simMatches[testCatalogNs] = []pinecone.QueryMatch{
		{Id: "m", Score: 0.9, Metadata: store.Metadata{"descripcion": "Fresa conica", "referencia": float64(66666666)}},
	}

	ask(t, f, "u1", "que herramienta me recomiendas para conicos")

	require.Len(t, f.assistant.prompts, 1)
	assert.Contains(t, f.assistant.prompts[0], "Referencia: 66666666 → Descripción: Fresa conica")
}
