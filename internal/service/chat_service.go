package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"catalog-chat-be/internal/constant"
	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/internal/repository/memory"
	"catalog-chat-be/pkg/ai/router"
	"catalog-chat-be/pkg/assistant"
	"catalog-chat-be/pkg/embedding"
	"catalog-chat-be/pkg/pinecone"
	"catalog-chat-be/pkg/store"
)

// IChatService is the request dispatcher: one user message in, one reply
// out, choosing among greeting short-circuit, exact reference lookup,
// last-seen follow-up and retrieval-augmented generation.
type IChatService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

// ChatOptions consolidates the dispatch knobs that used to differ between
// deployments: single vs. multi-namespace retrieval and conversation
// windowing are configuration, not separate code paths.
type ChatOptions struct {
	CatalogNamespace   string
	RelevanceThreshold float64 // inclusive minimum score for usable context
	TopK               int
	MultiNamespace     bool
	HistoryWindow      int
}

type chatService struct {
	embedder   embedding.EmbeddingProvider
	index      pinecone.Index
	assistant  assistant.Assistant
	namespaces NamespaceRegistry
	sessions   *memory.SessionRepository
	logger     logger.ILogger
	opts       ChatOptions
}

func NewChatService(
	embedder embedding.EmbeddingProvider,
	index pinecone.Index,
	assist assistant.Assistant,
	namespaces NamespaceRegistry,
	sessions *memory.SessionRepository,
	log logger.ILogger,
	opts ChatOptions,
) IChatService {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.RelevanceThreshold == 0 {
		opts.RelevanceThreshold = 0.75
	}
	return &chatService{
		embedder:   embedder,
		index:      index,
		assistant:  assist,
		namespaces: namespaces,
		sessions:   sessions,
		logger:     log,
		opts:       opts,
	}
}

func (s *chatService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	consulta := router.Normalize(req.Mensaje)

	// 1. Greeting short-circuit: no session, no external calls.
	if router.IsGreeting(req.Mensaje) {
		return &dto.AskResponse{Respuesta: constant.ReplyGreeting}, nil
	}

	userId := req.UserId
	if userId == "" {
		userId = constant.DefaultUserId
	}
	session := s.sessions.GetOrCreate(userId)

	var contexto string

	if ref, ok := router.ParseReference(req.Mensaje); ok {
		// 2. Exact lookup by catalog reference number.
		match, err := s.lookupReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		if match == nil {
			s.logger.Info(constant.ModuleChatService, "Reference not in catalog", map[string]interface{}{
				"referencia": ref,
			})
			return &dto.AskResponse{Respuesta: constant.ReplyReferenceNotFound}, nil
		}

		session.LastMatch = match.Metadata
		s.sessions.Save(session)

		if reply, answered := router.FormatAnswer(router.ResolveIntent(consulta), match.Metadata); answered {
			return &dto.AskResponse{Respuesta: reply}, nil
		}
		// No structured question about the record: carry it into
		// generation as context instead of searching again.
		contexto = s.contextBlock(consulta, []store.Match{*match})
	} else if session.LastMatch != nil {
		// 3. Follow-up about the record from a previous turn
		// ("¿y el precio?") without repeating the reference.
		if reply, answered := router.FormatAnswer(router.ResolveIntent(consulta), session.LastMatch); answered {
			return &dto.AskResponse{Respuesta: reply}, nil
		}
	}

	// 4. Retrieval-augmented generation.
	if contexto == "" {
		relevantes, err := s.retrieve(ctx, session, req.Mensaje)
		if err != nil {
			return nil, err
		}
		if len(relevantes) > 0 {
			session.LastMatch = relevantes[0].Metadata
			contexto = s.contextBlock(consulta, relevantes)
		}
	}

	// 5. Assistant turn on the session's thread. Without usable context
	// the raw message goes out alone: the assistant answers normally.
	reply, err := s.generate(ctx, session, req.Mensaje, contexto)
	if err != nil {
		return nil, err
	}

	s.sessions.Save(session)
	return &dto.AskResponse{Respuesta: reply}, nil
}

// lookupReference queries the catalog namespace with an equality filter on
// the referencia field. The vector is a placeholder: the lookup is
// filter-driven, not similarity-driven.
func (s *chatService) lookupReference(ctx context.Context, ref string) (*store.Match, error) {
	refNum, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, err
	}

	resp, err := s.index.Query(ctx, &pinecone.QueryRequest{
		Namespace:       s.opts.CatalogNamespace,
		Vector:          pinecone.ZeroVector(s.embedder.Dimension()),
		TopK:            1,
		IncludeMetadata: true,
		Filter:          pinecone.EqFilter("referencia", refNum),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Matches) == 0 {
		return nil, nil
	}

	m := resp.Matches[0]
	return &store.Match{
		Id:        m.Id,
		Score:     m.Score,
		Namespace: s.opts.CatalogNamespace,
		Metadata:  m.Metadata,
	}, nil
}

// retrieve embeds the message (or the rolling window including it) and
// collects the relevant matches across namespaces, best first.
func (s *chatService) retrieve(ctx context.Context, session *store.Session, mensaje string) ([]store.Match, error) {
	session.Remember(mensaje, s.opts.HistoryWindow)

	input := mensaje
	if s.opts.HistoryWindow > 0 && len(session.History) > 1 {
		input = strings.Join(session.History, "\n")
	}

	vector, err := s.embedder.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	targets := []string{s.opts.CatalogNamespace}
	if s.opts.MultiNamespace {
		if list := s.namespaces.List(); len(list) > 0 {
			targets = list
		}
	}

	// Sequential per-namespace fan-out; the namespace set stays small.
	var all []store.Match
	for _, ns := range targets {
		resp, err := s.index.Query(ctx, &pinecone.QueryRequest{
			Namespace:       ns,
			Vector:          vector,
			TopK:            s.opts.TopK,
			IncludeMetadata: true,
		})
		if err != nil {
			return nil, err
		}
		for _, m := range resp.Matches {
			all = append(all, store.Match{Id: m.Id, Score: m.Score, Namespace: ns, Metadata: m.Metadata})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })

	var relevantes []store.Match
	for _, m := range all {
		if m.Score >= s.opts.RelevanceThreshold {
			relevantes = append(relevantes, m)
		}
	}

	topScore := "N/A"
	if len(all) > 0 {
		topScore = fmt.Sprintf("%.3f", all[0].Score)
	}
	s.logger.Info(constant.ModuleChatService, "Vector search finished", map[string]interface{}{
		"namespaces": len(targets),
		"matches":    len(all),
		"relevant":   len(relevantes),
		"top_score":  topScore,
	})

	return relevantes, nil
}

// contextBlock concatenates one line per match. When the user asked for a
// description the reference leads, otherwise the description does.
func (s *chatService) contextBlock(consulta string, matches []store.Match) string {
	asksDesc := router.AsksDescription(consulta)
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		desc := m.Metadata.Field("descripcion")
		if desc == "" {
			desc = m.Metadata.Field("texto")
		}
		ref := m.Metadata.Field("referencia")
		if ref == "" {
			ref = m.Id
		}
		if asksDesc {
			lines = append(lines, fmt.Sprintf("Referencia: %s → Descripción: %s", ref, desc))
		} else {
			lines = append(lines, fmt.Sprintf("%s → Referencia: %s", desc, ref))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *chatService) generate(ctx context.Context, session *store.Session, mensaje, contexto string) (string, error) {
	if session.ThreadId == "" {
		threadId, err := s.assistant.CreateThread(ctx)
		if err != nil {
			return "", err
		}
		session.ThreadId = threadId
		s.sessions.Save(session)
	}

	prompt := mensaje
	if contexto != "" {
		prompt = fmt.Sprintf(constant.PromptWithContextFormat, mensaje, contexto)
	}

	return s.assistant.Ask(ctx, session.ThreadId, prompt)
}
