package service

import (
	"context"

	"catalog-chat-be/internal/constant"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/pkg/websearch"
)

// ISearchService answers free-text queries against the restricted vendor
// site. Failures fold into the result record, never into an error.
type ISearchService interface {
	Find(ctx context.Context, consulta string) *websearch.Result
}

type searchService struct {
	searcher websearch.Searcher
	logger   logger.ILogger
}

func NewSearchService(searcher websearch.Searcher, log logger.ILogger) ISearchService {
	return &searchService{
		searcher: searcher,
		logger:   log,
	}
}

func (s *searchService) Find(ctx context.Context, consulta string) *websearch.Result {
	result := s.searcher.Lookup(ctx, consulta)
	s.logger.Info(constant.ModuleSearchService, "Web search finished", map[string]interface{}{
		"consulta": consulta,
		"title":    result.Title,
	})
	return result
}
