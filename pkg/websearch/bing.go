package websearch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Result is a single external-search hit. Lookup never fails hard: "no
// results" and transport errors both come back as fixed records so the
// chat UI always has something to render.
type Result struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// Searcher resolves a free-text query to the first result on the
// restricted site.
type Searcher interface {
	Lookup(ctx context.Context, query string) *Result
}

// BingSearcher scrapes the Bing result page with a site restriction.
type BingSearcher struct {
	baseURL string
	site    string
	client  *http.Client
}

func NewBingSearcher(baseURL, site string) *BingSearcher {
	if baseURL == "" {
		baseURL = "https://www.bing.com/search"
	}
	if site == "" {
		site = "cuttingtools.ceratizit.com"
	}
	return &BingSearcher{
		baseURL: baseURL,
		site:    site,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *BingSearcher) Lookup(ctx context.Context, query string) *Result {
	searchURL := s.baseURL + "?q=" + url.QueryEscape(query+" site:"+s.site)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return s.errorResult(err)
	}
	// Bing serves a stripped page to unknown agents.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return s.errorResult(err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return s.errorResult(err)
	}

	var found *Result
	doc.Find("li.b_algo").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		link, _ := sel.Find("h2 a").Attr("href")
		if link == "" || !strings.Contains(link, s.site) {
			return true
		}
		found = &Result{
			Title:       strings.TrimSpace(sel.Find("h2").Text()),
			Link:        link,
			Description: strings.TrimSpace(sel.Find(".b_caption p").Text()),
		}
		return false
	})

	if found == nil {
		return &Result{
			Title:       "Sin resultados",
			Link:        "",
			Description: "No se encontró ningún enlace válido.",
		}
	}
	return found
}

func (s *BingSearcher) errorResult(err error) *Result {
	return &Result{
		Title:       "Error de búsqueda",
		Link:        "https://" + s.site,
		Description: err.Error(),
	}
}
